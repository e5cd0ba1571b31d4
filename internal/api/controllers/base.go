package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

const maxPageSize = 100

// BaseController provides generic read and delete operations for any model
type BaseController[T any] struct {
	service services.BaseService[T]
}

// NewBaseController creates a new base controller
func NewBaseController[T any](service services.BaseService[T]) *BaseController[T] {
	return &BaseController[T]{
		service: service,
	}
}

// Get handles retrieval of a single entity
func (c *BaseController[T]) Get(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return services.Validation("missing id parameter")
	}

	entity, err := c.service.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, entity)
}

// List handles retrieval of multiple entities with pagination and filtering
func (c *BaseController[T]) List(ctx echo.Context) error {
	page, limit := Pagination(ctx)

	// Parse filters from query parameters
	filters := make(map[string]interface{})
	for key, values := range ctx.QueryParams() {
		if key != "page" && key != "limit" && len(values) > 0 {
			filters[key] = values[0]
		}
	}

	entities, total, err := c.service.List(ctx.Request().Context(), page, limit, filters)
	if err != nil {
		return err
	}
	if entities == nil {
		entities = []T{}
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data":  entities,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Delete handles deletion of an entity
func (c *BaseController[T]) Delete(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return services.Validation("missing id parameter")
	}

	if err := c.service.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterRoutes registers the read and delete routes for the controller
func (c *BaseController[T]) RegisterRoutes(g *echo.Group, path string, methods ...string) {
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodDelete}
	}

	for _, method := range methods {
		switch method {
		case http.MethodGet:
			g.GET(path+"/:id", c.Get)
			g.GET(path, c.List)
		case http.MethodDelete:
			g.DELETE(path+"/:id", c.Delete)
		}
	}
}

// Pagination reads ?page and ?limit, defaulting to the first page of 10.
func Pagination(ctx echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(ctx.QueryParam("page"))
	limit, _ = strconv.Atoi(ctx.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, min(limit, maxPageSize)
}
