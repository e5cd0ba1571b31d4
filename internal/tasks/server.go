package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

var queues = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// Server handles task processing
type Server struct {
	server      *asynq.Server
	handler     *TaskHandler
	concurrency int
	logger      *logger.Logger
}

// NewServer creates a new task processing server
func NewServer(redisCfg config.RedisConfig, workerCfg config.WorkerConfig, handler *TaskHandler) *Server {
	concurrency := workerCfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	log := logger.New("WORKER")

	server := asynq.NewServer(
		RedisOpt(redisCfg),
		asynq.Config{
			Concurrency:    concurrency,
			Queues:         queues,
			StrictPriority: true,
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, t *asynq.Task, err error) {
				log.Errorf("task %s failed: %w", t.Type(), err)
			}),
		},
	)

	return &Server{
		server:      server,
		handler:     handler,
		concurrency: concurrency,
		logger:      log,
	}
}

// Mux returns the handler routing for every task type.
func (s *Server) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeImageRelease, s.handler.HandleImageRelease)
	return mux
}

// Start starts processing in the background.
func (s *Server) Start() error {
	s.logger.Info("starting task processing server (concurrency %d)", s.concurrency)
	if err := s.server.Start(s.Mux()); err != nil {
		return fmt.Errorf("failed to start task server: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight tasks and stops the server.
func (s *Server) Shutdown() {
	s.logger.Info("shutting down task processing server")
	s.server.Shutdown()
}
