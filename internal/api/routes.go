package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/registry"
	_ "github.com/Riyasingh139/DigitalReviverBackend/internal/docs"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/routes"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Digital Reviver API")
	})
	// Health check
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.echo.Group(s.config.Server.APIPrefix)

	// Published and preview routes for blogs and services
	for _, m := range s.svc.Content {
		registry.RegisterContentRoutes(api, m.Content, m.Publisher, s.auth)
	}
	registry.RegisterPublicationRoutes(api, s.svc.Publications, s.auth)
	routes.SetupUploadRoutes(api, s.svc.Images, s.auth)

	routes.SetupAuthRoutes(s.echo, s.svc.Admins, s.auth)
	routes.SetupSMTPRoutes(s.echo, s.svc.Mailer, s.svc.NotifyTo, s.auth)
	routes.SetupContactRoutes(s.echo, s.svc.Contacts, s.auth)
}
