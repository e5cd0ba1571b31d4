package api

import (
	"gorm.io/gorm"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

// ContentModule is the service pair behind the routes of one content kind.
type ContentModule struct {
	Content   *services.ContentService
	Publisher *services.Publisher
}

// Services holds everything the HTTP layer calls into.
type Services struct {
	Content      []ContentModule
	Publications services.BaseService[models.Publication]
	Admins       *services.AdminService
	Contacts     *services.ContactService
	Images       *services.ImageManager
	Mailer       services.Mailer
	NotifyTo     string
}

// NewServices builds the services for both content kinds over db. storage
// may be nil, in which case image uploads are rejected.
func NewServices(cfg *config.Config, db *gorm.DB, storage services.ObjectStorage, mailer services.Mailer) *Services {
	timeout := cfg.Server.IOTimeout

	refs := make([]services.ContentStore, 0, len(models.ContentTables))
	for _, table := range models.ContentTables {
		refs = append(refs, services.NewContentStore(db, table))
	}
	images := services.NewImageManager(storage, timeout, refs...)
	audit := services.NewBaseService(db, models.Publication{}, "kind", "slug", "outcome", "actor_id")

	svc := &Services{
		Publications: audit,
		Admins:       services.NewAdminService(db, cfg.JWT, mailer, timeout, cfg.Server.PasswordResetURL),
		Contacts: services.NewContactService(
			services.NewBaseService(db, models.ContactSubmission{}),
			mailer,
			services.ContactOptions{NotifyTo: cfg.SMTP.NotifyTo, TimeZone: cfg.SMTP.TimeZone, Timeout: timeout},
		),
		Images:   images,
		Mailer:   mailer,
		NotifyTo: cfg.SMTP.NotifyTo,
	}

	for _, kind := range []models.ContentKind{models.KindBlog, models.KindService} {
		draftTable, publishedTable := kind.Tables()
		drafts := services.NewContentStore(db, draftTable)
		published := services.NewContentStore(db, publishedTable)

		svc.Content = append(svc.Content, ContentModule{
			Content: services.NewContentService(kind, drafts, published, images, services.ContentOptions{
				Timeout:     timeout,
				SlugRetries: cfg.Publish.SlugRetries,
			}),
			Publisher: services.NewPublisher(kind, drafts, published, images, audit, services.PublisherOptions{
				Timeout:     timeout,
				DeleteDraft: cfg.Publish.DeleteDraftOnPublish,
			}),
		})
	}

	return svc
}
