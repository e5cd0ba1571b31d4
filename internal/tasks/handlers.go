package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

// ObjectDeleter removes stored objects by public URL.
type ObjectDeleter interface {
	Delete(ctx context.Context, url string) error
}

// TaskHandler processes queued tasks
type TaskHandler struct {
	storage ObjectDeleter
	logger  *logger.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(storage ObjectDeleter) *TaskHandler {
	return &TaskHandler{
		storage: storage,
		logger:  logger.New("WORKER"),
	}
}

// HandleImageRelease deletes a released image. URLs outside the bucket are
// dropped without retrying.
func (h *TaskHandler) HandleImageRelease(ctx context.Context, t *asynq.Task) error {
	var task ImageReleaseTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil || task.URL == "" {
		return fmt.Errorf("invalid image release payload: %w", asynq.SkipRetry)
	}
	if h.storage == nil {
		return fmt.Errorf("no object storage configured: %w", asynq.SkipRetry)
	}

	if err := h.storage.Delete(ctx, task.URL); err != nil {
		if errors.Is(err, services.ErrForeignObject) {
			h.logger.Warn("skipping release of %s: %v", task.URL, err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to delete image %s: %w", task.URL, err)
	}

	h.logger.Debug("released image %s", task.URL)
	return nil
}
