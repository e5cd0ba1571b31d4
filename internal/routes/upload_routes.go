package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/middleware"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/handlers"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

func SetupUploadRoutes(api *echo.Group, images *services.ImageManager, auth *middleware.AuthMiddleware) {
	log := logger.New("upload_routes")

	// Initialize upload handler
	uploadHandler := handlers.NewUploadHandler(images)

	api.POST("/uploads", uploadHandler.UploadFile, auth.RequireAdmin())

	log.Debug("Upload routes initialized")
}
