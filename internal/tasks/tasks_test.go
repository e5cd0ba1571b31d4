package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

type fakeDeleter struct {
	deleted []string
	err     error
}

func (f *fakeDeleter) Delete(_ context.Context, url string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "1", Queue: QueueLow}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func releaseTask(t *testing.T, url string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(ImageReleaseTask{URL: url})
	require.NoError(t, err)
	return asynq.NewTask(TaskTypeImageRelease, payload)
}

func TestHandleImageRelease(t *testing.T) {
	storage := &fakeDeleter{}
	h := NewTaskHandler(storage)

	require.NoError(t, h.HandleImageRelease(context.Background(), releaseTask(t, "https://cdn/blogs/a.png")))
	assert.Equal(t, []string{"https://cdn/blogs/a.png"}, storage.deleted)
}

func TestHandleImageReleaseErrors(t *testing.T) {
	t.Run("bad payload", func(t *testing.T) {
		h := NewTaskHandler(&fakeDeleter{})
		err := h.HandleImageRelease(context.Background(), asynq.NewTask(TaskTypeImageRelease, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("empty url", func(t *testing.T) {
		h := NewTaskHandler(&fakeDeleter{})
		err := h.HandleImageRelease(context.Background(), releaseTask(t, ""))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("foreign object", func(t *testing.T) {
		h := NewTaskHandler(&fakeDeleter{err: fmt.Errorf("%w: x", services.ErrForeignObject)})
		err := h.HandleImageRelease(context.Background(), releaseTask(t, "https://elsewhere/x.png"))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("storage failure is retried", func(t *testing.T) {
		h := NewTaskHandler(&fakeDeleter{err: errors.New("503")})
		err := h.HandleImageRelease(context.Background(), releaseTask(t, "https://cdn/a.png"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestEnqueueImageRelease(t *testing.T) {
	q := &fakeEnqueuer{}
	c := &TaskClient{client: q, logger: logger.New("TASKS")}

	require.NoError(t, c.EnqueueImageRelease(context.Background(), "https://cdn/a.png"))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TaskTypeImageRelease, q.tasks[0].Type())

	var payload ImageReleaseTask
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, "https://cdn/a.png", payload.URL)
	assert.Contains(t, q.opts[0], asynq.Queue(QueueLow))
}

func TestEnqueueImageReleaseDuplicate(t *testing.T) {
	c := &TaskClient{client: &fakeEnqueuer{err: asynq.ErrTaskIDConflict}, logger: logger.New("TASKS")}
	assert.NoError(t, c.EnqueueImageRelease(context.Background(), "https://cdn/a.png"))

	c = &TaskClient{client: &fakeEnqueuer{err: errors.New("redis down")}, logger: logger.New("TASKS")}
	assert.Error(t, c.EnqueueImageRelease(context.Background(), "https://cdn/a.png"))
}

func TestServerMuxRoutesImageRelease(t *testing.T) {
	storage := &fakeDeleter{}
	s := &Server{handler: NewTaskHandler(storage)}

	require.NoError(t, s.Mux().ProcessTask(context.Background(), releaseTask(t, "https://cdn/b.png")))
	assert.Equal(t, []string{"https://cdn/b.png"}, storage.deleted)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(time.Second)
	assert.Error(t, s.Register("not a spec", "broken", func(context.Context) error { return nil }))
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler(time.Second)
	var runs atomic.Int32
	done := make(chan struct{}, 1)

	require.NoError(t, s.Register("@every 1s", "count", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		if runs.Add(1) == 1 {
			done <- struct{}{}
		}
		return errors.New("logged, not fatal")
	}))
	s.Start()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}
