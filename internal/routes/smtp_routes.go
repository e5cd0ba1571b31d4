package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/middleware"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/handlers"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

func SetupSMTPRoutes(e *echo.Echo, mailer services.Mailer, notifyTo string, auth *middleware.AuthMiddleware) {
	smtpHandler := handlers.NewSMTPHandler(mailer, notifyTo)

	// SMTP test route
	smtp := e.Group("/admin/smtp", auth.RequireAdmin())
	smtp.POST("/test", smtpHandler.TestSMTPConnection)
}
