package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
)

// ContentStore is one slug-keyed collection of content.
type ContentStore interface {
	Table() string
	Create(ctx context.Context, content *models.Content) error
	FindBySlug(ctx context.Context, slug string) (*models.Content, error)
	Exists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, slug string, patch models.ContentPatch) (*models.Content, error)
	Delete(ctx context.Context, slug string) (*models.Content, error)
	List(ctx context.Context) ([]models.Content, error)
	// Upsert inserts content or, when the slug exists, replaces every
	// content column and updated_at in the same statement. The existing
	// id and created_at are kept.
	Upsert(ctx context.Context, content *models.Content) error
	ReferencesImage(ctx context.Context, url string) (bool, error)
}

// upsertColumns are overwritten when Upsert hits an existing slug.
var upsertColumns = []string{
	"title", "body", "category", "image",
	"meta_title", "meta_description", "focus_keyword", "updated_at",
}

type GormContentStore struct {
	db    *gorm.DB
	table string
}

func NewContentStore(db *gorm.DB, table string) *GormContentStore {
	return &GormContentStore{db: db, table: table}
}

// withDB returns the same table bound to db, typically a transaction.
func (s *GormContentStore) withDB(db *gorm.DB) *GormContentStore {
	return &GormContentStore{db: db, table: s.table}
}

// sharedDB reports whether a and b are gorm stores over the same database,
// which lets them join a single transaction.
func sharedDB(a, b ContentStore) (*gorm.DB, *GormContentStore, *GormContentStore, bool) {
	ga, okA := a.(*GormContentStore)
	gb, okB := b.(*GormContentStore)
	if !okA || !okB || ga.db != gb.db {
		return nil, nil, nil, false
	}
	return ga.db, ga, gb, true
}

func (s *GormContentStore) Table() string {
	return s.table
}

func (s *GormContentStore) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.table)
}

func (s *GormContentStore) Create(ctx context.Context, content *models.Content) error {
	return storeError(s.query(ctx).Create(content).Error)
}

func (s *GormContentStore) FindBySlug(ctx context.Context, slug string) (*models.Content, error) {
	var content models.Content
	if err := s.query(ctx).Where("slug = ?", slug).First(&content).Error; err != nil {
		return nil, storeError(err)
	}
	return &content, nil
}

func (s *GormContentStore) Exists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := s.query(ctx).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormContentStore) Update(ctx context.Context, slug string, patch models.ContentPatch) (*models.Content, error) {
	var updated models.Content
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(s.table).Where("slug = ?", slug).First(&updated).Error; err != nil {
			return err
		}
		if patch.IsEmpty() {
			return nil
		}

		cols := patch.Columns()
		cols["updated_at"] = time.Now()
		if err := tx.Table(s.table).Where("slug = ?", slug).Updates(cols).Error; err != nil {
			return err
		}
		return tx.Table(s.table).Where("slug = ?", slug).First(&updated).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &updated, nil
}

func (s *GormContentStore) Delete(ctx context.Context, slug string) (*models.Content, error) {
	var deleted models.Content
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(s.table).Where("slug = ?", slug).First(&deleted).Error; err != nil {
			return err
		}
		return tx.Table(s.table).Where("slug = ?", slug).Delete(&models.Content{}).Error
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &deleted, nil
}

func (s *GormContentStore) List(ctx context.Context) ([]models.Content, error) {
	var contents []models.Content
	if err := s.query(ctx).Order("created_at DESC").Find(&contents).Error; err != nil {
		return nil, storeError(err)
	}
	return contents, nil
}

func (s *GormContentStore) Upsert(ctx context.Context, content *models.Content) error {
	err := s.query(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(content).Error
	return storeError(err)
}

func (s *GormContentStore) ReferencesImage(ctx context.Context, url string) (bool, error) {
	var count int64
	if err := s.query(ctx).Where("image = ?", url).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
