package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

// ReleaseQueue hands image deletion to a background worker.
type ReleaseQueue interface {
	EnqueueImageRelease(ctx context.Context, url string) error
}

// ImageManager owns the lifecycle of image references held by content.
// Deletion is always best effort: a failure is logged and never surfaces to
// the caller.
type ImageManager struct {
	storage ObjectStorage
	queue   ReleaseQueue
	refs    []ContentStore
	timeout time.Duration
	log     *logger.Logger
}

// NewImageManager returns a manager backed by storage. A nil storage disables
// uploads and turns releases into no-ops. refs are the stores checked before
// a file is deleted; a file still referenced by any of them is kept.
func NewImageManager(storage ObjectStorage, timeout time.Duration, refs ...ContentStore) *ImageManager {
	return &ImageManager{
		storage: storage,
		refs:    refs,
		timeout: timeout,
		log:     logger.New("IMAGES"),
	}
}

// UseQueue routes releases through q instead of deleting inline.
func (m *ImageManager) UseQueue(q ReleaseQueue) {
	m.queue = q
}

// Upload stores file and returns its URL. A nil file yields a nil reference.
func (m *ImageManager) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (*string, error) {
	if file == nil {
		return nil, nil
	}
	if m.storage == nil {
		return nil, ErrStorageDisabled
	}

	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	url, err := m.storage.Upload(ctx, folder, file)
	if err != nil {
		return nil, err
	}
	m.log.Info("Uploaded %s", url)
	return &url, nil
}

// CheckRef validates an image reference supplied by a client. An empty ref
// clears the image and is always accepted; anything else must be an http(s)
// URL that the configured storage owns.
func (m *ImageManager) CheckRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if err := validate.Var(ref, "http_url"); err != nil {
		return Validation("image must be an http or https URL")
	}
	if owner, ok := m.storage.(OwnershipChecker); ok && !owner.Owns(ref) {
		return Validation("image must be a URL returned by the upload endpoint")
	}
	return nil
}

// Attach returns the reference to keep when next replaces current, releasing
// the superseded file.
func (m *ImageManager) Attach(ctx context.Context, current, next *string) *string {
	if next == nil {
		return current
	}
	if current != nil && *current != *next {
		m.Release(ctx, current)
	}
	return next
}

// Release deletes the file behind ref unless it is empty or still referenced.
func (m *ImageManager) Release(ctx context.Context, ref *string) {
	if ref == nil || *ref == "" || m.storage == nil {
		return
	}
	url := *ref

	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	for _, store := range m.refs {
		inUse, err := store.ReferencesImage(ctx, url)
		if err != nil {
			m.log.Error("failed to check image references in "+store.Table(), err)
			return
		}
		if inUse {
			m.log.Debug("Keeping %s, still referenced by %s", url, store.Table())
			return
		}
	}

	if m.queue != nil {
		err := m.queue.EnqueueImageRelease(ctx, url)
		if err == nil {
			return
		}
		m.log.Warn("Queueing release of %s failed, deleting inline: %v", url, err)
	}

	if err := m.storage.Delete(ctx, url); err != nil {
		m.log.Error("failed to delete image "+url, err)
		return
	}
	m.log.Info("Deleted %s", url)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
