package registry

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/controllers"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/middleware"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

// 📝 RegisterContentRoutes registers the published and preview routes of one
// content kind, e.g. /blogs and /preview-blogs.
func RegisterContentRoutes(g *echo.Group, content *services.ContentService, publisher *services.Publisher, auth *middleware.AuthMiddleware) {
	controller := controllers.NewContentController(content, publisher)
	plural := content.Kind().Plural()
	admin := auth.RequireAdmin()

	published := g.Group("/" + plural)

	// @Summary List published items
	// @Description List published blogs or services, newest first
	// @Tags Content
	// @Produce json
	// @Param type path string true "blogs or services"
	// @Success 200 {array} models.Content
	// @Failure 500 {object} map[string]string "Internal server error"
	// @Router /{type} [get]
	published.GET("", controller.ListPublished)
	// @Summary Get published item
	// @Description Get a published blog or service by slug
	// @Tags Content
	// @Produce json
	// @Param type path string true "blogs or services"
	// @Param slug path string true "Slug"
	// @Success 200 {object} models.Content
	// @Failure 404 {object} map[string]string "Not found"
	// @Router /{type}/{slug} [get]
	published.GET("/:slug", controller.GetPublished)
	// @Summary Create published item
	// @Description Create a published item directly. Accepts JSON or multipart with an optional image file.
	// @Tags Content
	// @Accept json,mpfd
	// @Produce json
	// @Security BearerAuth
	// @Param type path string true "blogs or services"
	// @Param item body services.ContentInput true "Content"
	// @Success 201 {object} models.Content
	// @Failure 400 {object} map[string]string "Validation error"
	// @Failure 401 {object} map[string]string "Unauthorized"
	// @Failure 403 {object} map[string]string "Forbidden"
	// @Failure 409 {object} map[string]string "Slug conflict"
	// @Router /{type} [post]
	published.POST("", controller.CreatePublished, admin)
	// @Summary Update published item
	// @Description Partially update a published item; the slug never changes
	// @Tags Content
	// @Accept json,mpfd
	// @Produce json
	// @Security BearerAuth
	// @Param type path string true "blogs or services"
	// @Param slug path string true "Slug"
	// @Param patch body models.ContentPatch true "Fields to change"
	// @Success 200 {object} models.Content
	// @Failure 400 {object} map[string]string "Validation error"
	// @Failure 404 {object} map[string]string "Not found"
	// @Router /{type}/{slug} [put]
	published.PUT("/:slug", controller.UpdatePublished, admin)
	// @Summary Delete published item
	// @Description Delete a published item and release its image. The draft is kept.
	// @Tags Content
	// @Produce json
	// @Security BearerAuth
	// @Param type path string true "blogs or services"
	// @Param slug path string true "Slug"
	// @Success 200 {object} map[string]string "Deleted"
	// @Failure 404 {object} map[string]string "Not found"
	// @Router /{type}/{slug} [delete]
	published.DELETE("/:slug", controller.DeletePublished, admin)

	// Preview routes are admin only
	preview := g.Group("/preview-"+plural, admin)

	// @Summary List drafts
	// @Tags Preview
	// @Produce json
	// @Security BearerAuth
	// @Param type path string true "blogs or services"
	// @Success 200 {array} models.Content
	// @Router /preview-{type} [get]
	preview.GET("", controller.ListDrafts)
	// @Summary Get draft
	// @Tags Preview
	// @Produce json
	// @Security BearerAuth
	// @Param type path string true "blogs or services"
	// @Param slug path string true "Slug"
	// @Success 200 {object} models.Content
	// @Failure 404 {object} map[string]string "Not found"
	// @Router /preview-{type}/{slug} [get]
	preview.GET("/:slug", controller.GetDraft)
	// @Summary Create draft
	// @Description Create a draft. A taken slug gets a random numeric suffix.
	// @Tags Preview
	// @Accept json,mpfd
	// @Produce json
	// @Security BearerAuth
	// @Param type path string true "blogs or services"
	// @Param item body services.ContentInput true "Content"
	// @Success 201 {object} models.Content
	// @Failure 400 {object} map[string]string "Validation error"
	// @Router /preview-{type} [post]
	preview.POST("", controller.CreateDraft)
	// @Summary Update draft
	// @Tags Preview
	// @Accept json,mpfd
	// @Produce json
	// @Security BearerAuth
	// @Param type path string true "blogs or services"
	// @Param slug path string true "Slug"
	// @Param patch body models.ContentPatch true "Fields to change"
	// @Success 200 {object} models.Content
	// @Failure 404 {object} map[string]string "Not found"
	// @Router /preview-{type}/{slug} [put]
	preview.PUT("/:slug", controller.UpdateDraft)
	// @Summary Delete draft
	// @Description Delete a draft together with its published copy
	// @Tags Preview
	// @Produce json
	// @Security BearerAuth
	// @Param type path string true "blogs or services"
	// @Param slug path string true "Slug"
	// @Success 200 {object} map[string]string "Deleted"
	// @Failure 404 {object} map[string]string "Not found in either table"
	// @Router /preview-{type}/{slug} [delete]
	preview.DELETE("/:slug", controller.DeleteDraft)
	// @Summary Publish draft
	// @Description Promote a draft into the published table. Body fields override the draft. Repeating the call updates the published item in place.
	// @Tags Preview
	// @Accept json
	// @Produce json
	// @Security BearerAuth
	// @Param type path string true "blogs or services"
	// @Param slug path string true "Slug"
	// @Param overrides body models.ContentPatch false "Overrides"
	// @Success 200 {object} map[string]interface{} "result is created or updated"
	// @Failure 403 {object} map[string]string "Forbidden"
	// @Failure 404 {object} map[string]string "Draft not found"
	// @Failure 500 {object} map[string]string "Internal server error"
	// @Router /preview-{type}/publish/{slug} [post]
	preview.POST("/publish/:slug", controller.Publish)
}

// RegisterPublicationRoutes exposes the promotion audit log.
func RegisterPublicationRoutes(g *echo.Group, audit services.BaseService[models.Publication], auth *middleware.AuthMiddleware) {
	controller := controllers.NewBaseController(audit)
	group := g.Group("/publications", auth.RequireAdmin())

	// @Summary List publications
	// @Description Promotion audit log, filterable by kind and slug
	// @Tags Publications
	// @Produce json
	// @Security BearerAuth
	// @Param kind query string false "blog or service"
	// @Param slug query string false "Slug"
	// @Param page query int false "Page"
	// @Param limit query int false "Page size"
	// @Success 200 {object} map[string]interface{}
	// @Router /publications [get]
	// GET /publications/:id returns a single entry.
	controller.RegisterRoutes(group, "", http.MethodGet)
}
