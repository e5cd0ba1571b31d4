package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/middleware"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/handlers"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

// SetupContactRoutes registers the popup form. Submitting is public; reading
// submissions is admin only.
func SetupContactRoutes(e *echo.Echo, contacts *services.ContactService, auth *middleware.AuthMiddleware) {
	contactHandler := handlers.NewContactHandler(contacts)

	popup := e.Group("/popup")
	popup.POST("", contactHandler.Submit)

	adminOnly := popup.Group("", auth.RequireAdmin())
	adminOnly.GET("", contactHandler.List)
	adminOnly.GET("/export", contactHandler.Export)
	adminOnly.DELETE("/:id", contactHandler.Delete)
}
