package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/middleware"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/handlers"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

func SetupAuthRoutes(e *echo.Echo, admins *services.AdminService, auth *middleware.AuthMiddleware) {
	authHandler := handlers.NewAuthHandler(admins, auth)

	// Admin auth routes group
	admin := e.Group("/admin")

	admin.POST("/register", authHandler.Register)
	admin.POST("/login", authHandler.Login)
	admin.POST("/password-reset", authHandler.RequestPasswordReset)
	admin.POST("/password-reset/verify", authHandler.VerifyResetToken)
	admin.GET("/me", authHandler.Me, auth.RequireAdmin())
}
