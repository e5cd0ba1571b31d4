package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/db"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

type fakeStorage struct {
	mu        sync.Mutex
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeStorage) Upload(_ context.Context, folder string, file *multipart.FileHeader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	url := "https://cdn.test/" + folder + "/" + file.Filename
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeStorage) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeStorage) Owns(url string) bool {
	return strings.HasPrefix(url, "https://cdn.test/")
}

func (f *fakeStorage) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []utils.Mail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, mail utils.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *fakeMailer) Sent() []utils.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]utils.Mail(nil), m.sent...)
}

// failingStore wraps a real store and fails the configured operations.
type failingStore struct {
	ContentStore
	upsertErr error
	createErr error
	deleteErr error
}

func (f *failingStore) Delete(ctx context.Context, slug string) (*models.Content, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return f.ContentStore.Delete(ctx, slug)
}

// staleStore answers Exists with false for the first misses calls, or
// always when misses is negative, like a reader racing another writer.
type staleStore struct {
	ContentStore
	misses int
}

func (s *staleStore) Exists(ctx context.Context, slug string) (bool, error) {
	if s.misses != 0 {
		s.misses--
		return false, nil
	}
	return s.ContentStore.Exists(ctx, slug)
}

func (f *failingStore) Upsert(ctx context.Context, c *models.Content) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.ContentStore.Upsert(ctx, c)
}

func (f *failingStore) Create(ctx context.Context, c *models.Content) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.ContentStore.Create(ctx, c)
}

var errStoreDown = errors.New("connection reset by peer")

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}

func adminClaims() *utils.Claims {
	return &utils.Claims{AdminID: "5a1c3f0e-8d4b-4a57-9d0a-6c1b2e3f4a5b", Username: "editor", Role: models.RoleAdmin}
}

func strPtr(s string) *string { return &s }

type blogFixture struct {
	db        *gorm.DB
	drafts    *GormContentStore
	published *GormContentStore
	storage   *fakeStorage
	images    *ImageManager
	content   *ContentService
	publisher *Publisher
	audit     BaseService[models.Publication]
}

func newBlogFixture(t *testing.T) *blogFixture {
	t.Helper()

	gdb := newTestDB(t)
	draftTable, publishedTable := models.KindBlog.Tables()
	f := &blogFixture{
		db:        gdb,
		drafts:    NewContentStore(gdb, draftTable),
		published: NewContentStore(gdb, publishedTable),
		storage:   &fakeStorage{},
		audit:     NewBaseService(gdb, models.Publication{}, "kind", "slug"),
	}
	refs := make([]ContentStore, 0, len(models.ContentTables))
	for _, table := range models.ContentTables {
		refs = append(refs, NewContentStore(gdb, table))
	}
	f.images = NewImageManager(f.storage, time.Second, refs...)
	f.content = NewContentService(models.KindBlog, f.drafts, f.published, f.images, ContentOptions{Timeout: time.Second})
	f.publisher = NewPublisher(models.KindBlog, f.drafts, f.published, f.images, f.audit, PublisherOptions{Timeout: time.Second})
	return f
}
