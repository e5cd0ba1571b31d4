package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

// PromotionResult reports what a promotion did to the published table.
type PromotionResult struct {
	Outcome models.PromotionOutcome `json:"result"`
	Content *models.Content         `json:"content"`
}

// AuditLog records promotions. BaseService[models.Publication] satisfies it.
type AuditLog interface {
	Create(ctx context.Context, entity *models.Publication) error
}

type PublisherOptions struct {
	Timeout time.Duration
	// DeleteDraft removes the draft after a successful promotion instead of
	// keeping it for further editing.
	DeleteDraft bool
}

// Publisher promotes drafts of one kind into the published table.
type Publisher struct {
	kind        models.ContentKind
	drafts      ContentStore
	published   ContentStore
	images      *ImageManager
	audit       AuditLog
	timeout     time.Duration
	deleteDraft bool
	now         func() time.Time
	log         *logger.Logger
}

func NewPublisher(kind models.ContentKind, drafts, published ContentStore, images *ImageManager, audit AuditLog, opts PublisherOptions) *Publisher {
	return &Publisher{
		kind:        kind,
		drafts:      drafts,
		published:   published,
		images:      images,
		audit:       audit,
		timeout:     opts.Timeout,
		deleteDraft: opts.DeleteDraft,
		now:         time.Now,
		log:         logger.New("PUBLISH_" + string(kind)),
	}
}

// Promote copies the draft with the given slug, merged with overrides, into
// the published table. An existing published item with the same slug is
// replaced in full; otherwise a new one is created with the draft's
// createdAt. The published write is a single upsert, so a failure leaves the
// published table as it was.
func (p *Publisher) Promote(ctx context.Context, slug string, overrides models.ContentPatch, requester *utils.Claims) (*PromotionResult, error) {
	if !requester.IsAdmin() {
		return nil, ErrForbidden
	}
	if overrides.Image != nil {
		if err := p.images.CheckRef(*overrides.Image); err != nil {
			return nil, err
		}
	}

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	draft, err := p.drafts.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("draft "+string(p.kind), slug)
		}
		return nil, internal("load draft", err)
	}

	candidate := models.Content{
		Slug:            draft.Slug,
		Title:           draft.Title,
		Body:            draft.Body,
		Category:        draft.Category,
		Image:           draft.Image,
		MetaTitle:       draft.MetaTitle,
		MetaDescription: draft.MetaDescription,
		FocusKeyword:    draft.FocusKeyword,
	}
	overrides.Apply(&candidate)
	if err := validatePromotable(&candidate); err != nil {
		return nil, err
	}

	existing, err := p.published.FindBySlug(ctx, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, internal("load published", err)
	}

	now := p.now()
	outcome := models.PromotionUpdated
	if existing == nil {
		outcome = models.PromotionCreated
		candidate.CreatedAt = draft.CreatedAt
		if candidate.CreatedAt.IsZero() {
			candidate.CreatedAt = now
		}
	} else {
		candidate.CreatedAt = existing.CreatedAt
	}
	candidate.UpdatedAt = now

	if err := p.published.Upsert(ctx, &candidate); err != nil {
		return nil, internal("publish "+string(p.kind), err)
	}

	stored, err := p.published.FindBySlug(ctx, slug)
	if err != nil {
		return nil, internal("reload published", err)
	}

	if existing != nil && existing.ImageURL() != stored.ImageURL() {
		p.images.Release(ctx, existing.Image)
	}
	if p.deleteDraft {
		if _, err := p.drafts.Delete(ctx, slug); err != nil && !errors.Is(err, ErrNotFound) {
			p.log.Error("published but failed to remove draft "+slug, err)
		}
	}
	p.record(ctx, stored, outcome, requester)

	p.log.Success("Promoted %s %q (%s)", p.kind, slug, outcome)
	return &PromotionResult{Outcome: outcome, Content: stored}, nil
}

func validatePromotable(c *models.Content) error {
	switch {
	case c.Title == "":
		return Validation("title cannot be empty")
	case c.Body == "":
		return Validation("body cannot be empty")
	case c.Category == "":
		return Validation("category cannot be empty")
	}
	return nil
}

func (p *Publisher) record(ctx context.Context, c *models.Content, outcome models.PromotionOutcome, requester *utils.Claims) {
	if p.audit == nil {
		return
	}
	snapshot, err := json.Marshal(c)
	if err != nil {
		p.log.Error("failed to encode publication snapshot", err)
		return
	}
	entry := &models.Publication{
		Kind:     p.kind,
		Slug:     c.Slug,
		Outcome:  outcome,
		ActorID:  requester.AdminID,
		Snapshot: datatypes.JSON(snapshot),
	}
	if err := p.audit.Create(ctx, entry); err != nil {
		p.log.Error("failed to record publication of "+c.Slug, err)
	}
}
