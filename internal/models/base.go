package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

type ContentKind string
type Role string
type PromotionOutcome string

const (
	KindBlog    ContentKind = "blog"
	KindService ContentKind = "service"
)

const (
	RoleAdmin Role = "admin"
)

const (
	PromotionCreated PromotionOutcome = "created"
	PromotionUpdated PromotionOutcome = "updated"
)

// Content table names. Drafts keep the "preview" naming of the public API.
const (
	TableDraftBlogs         = "preview_blogs"
	TableBlogs              = "blogs"
	TableDraftServices      = "preview_services"
	TableServices           = "services"
	TableContactSubmissions = "contact_submissions"
)

// ContentTables lists every table holding Content rows.
var ContentTables = []string{TableDraftBlogs, TableBlogs, TableDraftServices, TableServices}

// Tables returns the draft and published table for a kind.
func (k ContentKind) Tables() (draft, published string) {
	if k == KindService {
		return TableDraftServices, TableServices
	}
	return TableDraftBlogs, TableBlogs
}

// Plural is the path segment used for the kind, e.g. "blogs".
func (k ContentKind) Plural() string {
	return string(k) + "s"
}

// UploadFolder is the object storage folder images of this kind go to.
func (k ContentKind) UploadFolder() string {
	switch k {
	case KindBlog:
		return "blogs"
	case KindService:
		return "services"
	default:
		return "others"
	}
}

func (k ContentKind) Valid() bool {
	return k == KindBlog || k == KindService
}
