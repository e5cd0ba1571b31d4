package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/db"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/docs"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/tasks"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

func main() {
	logger := logger.New("digitalreviver")

	// check if .env file exists
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	dbInstance, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(dbInstance); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Object storage for content images
	var storage services.ObjectStorage
	var s3Service *services.S3Service
	if cfg.Storage.Provider == "s3" {
		s3Service, err = services.NewS3Service(context.Background(), cfg.Storage.S3, cfg.Upload)
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		storage = s3Service
	} else {
		logger.Warn("No object storage configured, image uploads are disabled")
	}

	mailer := utils.NewEmailHandler(utils.EmailConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	svc := api.NewServices(cfg, dbInstance, storage, mailer)

	// Redis backs rate limiting and the image release queue
	var redisClient *redis.Client
	var taskServer *tasks.Server
	if cfg.Redis.Enabled() {
		redisClient, err = utils.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		taskClient := tasks.NewTaskClient(cfg.Redis)
		defer taskClient.Close()
		svc.Images.UseQueue(taskClient)

		var deleter tasks.ObjectDeleter
		if s3Service != nil {
			deleter = s3Service
		}
		taskServer = tasks.NewServer(cfg.Redis, cfg.Worker, tasks.NewTaskHandler(deleter))
		if err := taskServer.Start(); err != nil {
			log.Fatalf("Failed to start task server: %v", err)
		}
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory rate limits and inline image deletion")
	}

	scheduler := tasks.NewScheduler(cfg.Server.IOTimeout)
	if err := scheduler.Register("@every 15m", "purge expired password resets", func(ctx context.Context) error {
		n, err := svc.Admins.PurgeExpiredResets(ctx)
		if n > 0 {
			logger.Info("Purged %d expired password reset tokens", n)
		}
		return err
	}); err != nil {
		log.Fatalf("Failed to register scheduled jobs: %v", err)
	}
	scheduler.Start()

	docs.SwaggerInfo.BasePath = cfg.Server.APIPrefix

	apiServer := api.NewServer(cfg, dbInstance, svc, redisClient)
	go func() {
		logger.Success("API server started")
		if err := apiServer.Start(); err != nil {
			logger.Error("API server error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the servers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown API server", err)
	}
	scheduler.Stop(ctx)
	if taskServer != nil {
		taskServer.Shutdown()
	}

	logger.Info("Servers shutdown gracefully")
}
