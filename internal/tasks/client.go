package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// TaskClient handles task enqueueing
type TaskClient struct {
	client enqueuer
	logger *logger.Logger
}

// RedisOpt converts the Redis settings into asynq connection options.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewTaskClient creates a new task client
func NewTaskClient(cfg config.RedisConfig) *TaskClient {
	return &TaskClient{
		client: asynq.NewClient(RedisOpt(cfg)),
		logger: logger.New("TASKS"),
	}
}

// Close closes the task client
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// EnqueueImageRelease schedules deletion of the object at url. Releases of
// the same url collapse while one is pending.
func (c *TaskClient) EnqueueImageRelease(ctx context.Context, url string) error {
	payload, err := json.Marshal(ImageReleaseTask{URL: url})
	if err != nil {
		return fmt.Errorf("failed to marshal image release task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx,
		asynq.NewTask(TaskTypeImageRelease, payload),
		asynq.Queue(QueueLow),
		asynq.Timeout(TimeoutShort),
		asynq.MaxRetry(RetryMax),
		asynq.TaskID(TaskTypeImageRelease+":"+url),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			c.logger.Debug("image release for %s already queued", url)
			return nil
		}
		return fmt.Errorf("failed to enqueue image release task: %w", err)
	}

	c.logger.Debug("Enqueued image release [%s] in queue %s for %s", info.ID, info.Queue, url)
	return nil
}
