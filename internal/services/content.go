package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

// ContentInput is the payload for creating a draft or published item.
// Image may carry the URL of an already uploaded file.
type ContentInput struct {
	Title           string `json:"title" validate:"required"`
	Body            string `json:"body" validate:"required"`
	Category        string `json:"category" validate:"required"`
	Slug            string `json:"slug"`
	Image           string `json:"image" validate:"omitempty,http_url"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	FocusKeyword    string `json:"focusKeyword"`
}

func (in *ContentInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	in.Category = strings.TrimSpace(in.Category)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Image = strings.TrimSpace(in.Image)
}

type ContentOptions struct {
	Timeout     time.Duration
	SlugRetries int
}

// ContentService runs the draft and published operations of one kind.
type ContentService struct {
	kind      models.ContentKind
	drafts    ContentStore
	published ContentStore
	images    *ImageManager
	timeout   time.Duration
	retries   int
	log       *logger.Logger
}

func NewContentService(kind models.ContentKind, drafts, published ContentStore, images *ImageManager, opts ContentOptions) *ContentService {
	if opts.SlugRetries < 1 {
		opts.SlugRetries = 3
	}
	return &ContentService{
		kind:      kind,
		drafts:    drafts,
		published: published,
		images:    images,
		timeout:   opts.Timeout,
		retries:   opts.SlugRetries,
		log:       logger.New(string(kind)),
	}
}

func (s *ContentService) Kind() models.ContentKind {
	return s.kind
}

func (s *ContentService) ListPublished(ctx context.Context) ([]models.Content, error) {
	return s.list(ctx, s.published)
}

func (s *ContentService) GetPublished(ctx context.Context, slug string) (*models.Content, error) {
	return s.get(ctx, s.published, slug)
}

// CreatePublished creates a published item directly. Slug clashes get a
// sequential suffix and the meta title defaults to the title.
func (s *ContentService) CreatePublished(ctx context.Context, in ContentInput, file *multipart.FileHeader) (*models.Content, error) {
	if strings.TrimSpace(in.MetaTitle) == "" {
		in.MetaTitle = strings.TrimSpace(in.Title)
	}
	return s.create(ctx, s.published, utils.SequentialSuffix, in, file)
}

func (s *ContentService) UpdatePublished(ctx context.Context, slug string, patch models.ContentPatch, file *multipart.FileHeader) (*models.Content, error) {
	return s.update(ctx, s.published, slug, patch, file)
}

// DeletePublished removes the published item only; its draft is untouched.
func (s *ContentService) DeletePublished(ctx context.Context, slug string) (*models.Content, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.published.Delete(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(string(s.kind), slug)
		}
		return nil, internal("delete "+string(s.kind), err)
	}
	s.images.Release(ctx, deleted.Image)
	s.log.Info("Deleted published %s %q", s.kind, slug)
	return deleted, nil
}

func (s *ContentService) ListDrafts(ctx context.Context) ([]models.Content, error) {
	return s.list(ctx, s.drafts)
}

func (s *ContentService) GetDraft(ctx context.Context, slug string) (*models.Content, error) {
	return s.get(ctx, s.drafts, slug)
}

// CreateDraft creates a draft. Slug clashes get a random numeric suffix.
func (s *ContentService) CreateDraft(ctx context.Context, in ContentInput, file *multipart.FileHeader) (*models.Content, error) {
	return s.create(ctx, s.drafts, utils.RandomSuffix, in, file)
}

func (s *ContentService) UpdateDraft(ctx context.Context, slug string, patch models.ContentPatch, file *multipart.FileHeader) (*models.Content, error) {
	return s.update(ctx, s.drafts, slug, patch, file)
}

// DeleteDraft removes the draft and its published copy. Both rows go in one
// transaction when the stores share a database. It fails with ErrNotFound
// only when the slug is in neither table.
func (s *ContentService) DeleteDraft(ctx context.Context, slug string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var draft, published *models.Content
	var err error
	if db, drafts, pub, ok := sharedDB(s.drafts, s.published); ok {
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var txErr error
			draft, published, txErr = s.deleteCopies(ctx, drafts.withDB(tx), pub.withDB(tx), slug)
			return txErr
		})
		if err != nil {
			// rolled back, nothing to release
			draft, published = nil, nil
		}
	} else {
		draft, published, err = s.deleteCopies(ctx, s.drafts, s.published, slug)
	}

	if draft != nil {
		s.images.Release(ctx, draft.Image)
	}
	if published != nil && published.ImageURL() != draft.ImageURL() {
		s.images.Release(ctx, published.Image)
	}
	if err != nil {
		return err
	}
	s.log.Info("Deleted %s %q (draft: %t, published: %t)", s.kind, slug, draft != nil, published != nil)
	return nil
}

// deleteCopies deletes the published row before the draft, so a failure
// part way leaves the draft in place for a retry. The rows deleted so far
// are returned with the error.
func (s *ContentService) deleteCopies(ctx context.Context, drafts, published ContentStore, slug string) (*models.Content, *models.Content, error) {
	pub, err := published.Delete(ctx, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, nil, internal("delete "+string(s.kind), err)
	}
	draft, err := drafts.Delete(ctx, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, pub, internal("delete draft "+string(s.kind), err)
	}
	if draft == nil && pub == nil {
		return nil, nil, notFound(string(s.kind), slug)
	}
	return draft, pub, nil
}

func (s *ContentService) list(ctx context.Context, store ContentStore) ([]models.Content, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	contents, err := store.List(ctx)
	if err != nil {
		return nil, internal("list "+store.Table(), err)
	}
	if contents == nil {
		contents = []models.Content{}
	}
	return contents, nil
}

func (s *ContentService) get(ctx context.Context, store ContentStore, slug string) (*models.Content, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	content, err := store.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(string(s.kind), slug)
		}
		return nil, internal("get "+store.Table(), err)
	}
	return content, nil
}

func (s *ContentService) create(ctx context.Context, store ContentStore, strategy utils.SlugStrategy, in ContentInput, file *multipart.FileHeader) (*models.Content, error) {
	in.normalize()
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := s.images.CheckRef(in.Image); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	image, err := s.images.Upload(ctx, s.kind.UploadFolder(), file)
	if err != nil {
		return nil, internal("upload image", err)
	}
	if image == nil && in.Image != "" {
		image = &in.Image
	}

	candidate := in.Slug
	if candidate == "" {
		candidate = in.Title
	}

	for attempt := 1; attempt <= s.retries; attempt++ {
		slug, err := utils.UniqueSlug(ctx, candidate, store.Exists, strategy)
		if err != nil {
			s.discardUpload(ctx, file, image)
			if errors.Is(err, utils.ErrEmptySlug) {
				return nil, Validation("title must contain letters or digits")
			}
			if errors.Is(err, utils.ErrSlugExhausted) {
				return nil, fmt.Errorf("%w: %v", ErrConflict, err)
			}
			return nil, internal("generate slug", err)
		}

		content := &models.Content{
			Slug:            slug,
			Title:           in.Title,
			Body:            in.Body,
			Category:        in.Category,
			Image:           image,
			MetaTitle:       in.MetaTitle,
			MetaDescription: in.MetaDescription,
			FocusKeyword:    in.FocusKeyword,
		}
		err = store.Create(ctx, content)
		if err == nil {
			s.log.Success("Created %s %q in %s", s.kind, slug, store.Table())
			return content, nil
		}
		if !errors.Is(err, ErrDuplicateKey) {
			s.discardUpload(ctx, file, image)
			return nil, internal("create "+store.Table(), err)
		}
		s.log.Warn("Slug %q was taken concurrently (attempt %d/%d)", slug, attempt, s.retries)
	}

	s.discardUpload(ctx, file, image)
	return nil, fmt.Errorf("%w: could not reserve a slug for %q", ErrConflict, candidate)
}

func (s *ContentService) update(ctx context.Context, store ContentStore, slug string, patch models.ContentPatch, file *multipart.FileHeader) (*models.Content, error) {
	for name, v := range map[string]*string{"title": patch.Title, "body": patch.Body, "category": patch.Category} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, Validation(name + " cannot be empty")
		}
	}
	if patch.Image != nil {
		if err := s.images.CheckRef(*patch.Image); err != nil {
			return nil, err
		}
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	current, err := store.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(string(s.kind), slug)
		}
		return nil, internal("get "+store.Table(), err)
	}

	uploaded, err := s.images.Upload(ctx, s.kind.UploadFolder(), file)
	if err != nil {
		return nil, internal("upload image", err)
	}
	if uploaded != nil {
		patch.Image = uploaded
	}

	updated, err := store.Update(ctx, slug, patch)
	if err != nil {
		s.discardUpload(ctx, file, uploaded)
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(string(s.kind), slug)
		}
		return nil, internal("update "+store.Table(), err)
	}

	if patch.Image != nil {
		if updated.Image == nil {
			s.images.Release(ctx, current.Image)
		} else {
			s.images.Attach(ctx, current.Image, updated.Image)
		}
	}
	s.log.Info("Updated %s %q in %s", s.kind, slug, store.Table())
	return updated, nil
}

// discardUpload releases an image uploaded by the current call after the
// write it was meant for failed.
func (s *ContentService) discardUpload(ctx context.Context, file *multipart.FileHeader, image *string) {
	if file != nil {
		s.images.Release(ctx, image)
	}
}
