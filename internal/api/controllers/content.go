package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/middleware"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

// ContentController serves the published and preview routes of one kind.
type ContentController struct {
	content   *services.ContentService
	publisher *services.Publisher
}

func NewContentController(content *services.ContentService, publisher *services.Publisher) *ContentController {
	return &ContentController{content: content, publisher: publisher}
}

// contentRequest is the body of create, update and publish requests. The body
// text is accepted as "body", or under its original names "content" (blogs)
// and "description" (services).
type contentRequest struct {
	Title           *string `json:"title" form:"title"`
	Body            *string `json:"body" form:"body"`
	Content         *string `json:"content" form:"content"`
	Description     *string `json:"description" form:"description"`
	Category        *string `json:"category" form:"category"`
	Slug            *string `json:"slug" form:"slug"`
	Image           *string `json:"image" form:"image"`
	MetaTitle       *string `json:"metaTitle" form:"metaTitle"`
	MetaDescription *string `json:"metaDescription" form:"metaDescription"`
	FocusKeyword    *string `json:"focusKeyword" form:"focusKeyword"`
}

func (r *contentRequest) body() *string {
	for _, v := range []*string{r.Body, r.Content, r.Description} {
		if v != nil {
			return v
		}
	}
	return nil
}

// patch turns the request into a partial update. Blank required fields are
// treated as not sent.
func (r *contentRequest) patch() models.ContentPatch {
	return models.ContentPatch{
		Title:           present(r.Title),
		Body:            present(r.body()),
		Category:        present(r.Category),
		Image:           r.Image,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		FocusKeyword:    r.FocusKeyword,
	}
}

func (r *contentRequest) input() services.ContentInput {
	return services.ContentInput{
		Title:           value(r.Title),
		Body:            value(r.body()),
		Category:        value(r.Category),
		Slug:            value(r.Slug),
		Image:           value(r.Image),
		MetaTitle:       value(r.MetaTitle),
		MetaDescription: value(r.MetaDescription),
		FocusKeyword:    value(r.FocusKeyword),
	}
}

func present(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseContentRequest binds a JSON, urlencoded or multipart body. The image
// file, when sent, is the "image" form file.
func parseContentRequest(c echo.Context) (*contentRequest, *multipart.FileHeader, error) {
	req := &contentRequest{}
	if err := c.Bind(req); err != nil {
		return nil, nil, services.Validation("invalid request body")
	}

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return req, nil, nil
	}
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, nil
		}
		return nil, nil, services.Validation("invalid image upload")
	}
	return req, file, nil
}

// contentView adds the original field name for the body text.
type contentView struct {
	*models.Content
	Text string `json:"content,omitempty"`
}

type serviceView struct {
	*models.Content
	Description string `json:"description"`
}

func (h *ContentController) view(c *models.Content) interface{} {
	if h.content.Kind() == models.KindService {
		return serviceView{Content: c, Description: c.Body}
	}
	return contentView{Content: c, Text: c.Body}
}

func (h *ContentController) views(items []models.Content) []interface{} {
	out := make([]interface{}, 0, len(items))
	for i := range items {
		out = append(out, h.view(&items[i]))
	}
	return out
}

func (h *ContentController) ListPublished(c echo.Context) error {
	items, err := h.content.ListPublished(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.views(items))
}

func (h *ContentController) GetPublished(c echo.Context) error {
	item, err := h.content.GetPublished(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(item))
}

func (h *ContentController) CreatePublished(c echo.Context) error {
	req, file, err := parseContentRequest(c)
	if err != nil {
		return err
	}
	item, err := h.content.CreatePublished(c.Request().Context(), req.input(), file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.view(item))
}

func (h *ContentController) UpdatePublished(c echo.Context) error {
	req, file, err := parseContentRequest(c)
	if err != nil {
		return err
	}
	item, err := h.content.UpdatePublished(c.Request().Context(), c.Param("slug"), req.patch(), file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(item))
}

func (h *ContentController) DeletePublished(c echo.Context) error {
	if _, err := h.content.DeletePublished(c.Request().Context(), c.Param("slug")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": h.label() + " deleted"})
}

func (h *ContentController) ListDrafts(c echo.Context) error {
	items, err := h.content.ListDrafts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.views(items))
}

func (h *ContentController) GetDraft(c echo.Context) error {
	item, err := h.content.GetDraft(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(item))
}

func (h *ContentController) CreateDraft(c echo.Context) error {
	req, file, err := parseContentRequest(c)
	if err != nil {
		return err
	}
	item, err := h.content.CreateDraft(c.Request().Context(), req.input(), file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.view(item))
}

func (h *ContentController) UpdateDraft(c echo.Context) error {
	req, file, err := parseContentRequest(c)
	if err != nil {
		return err
	}
	item, err := h.content.UpdateDraft(c.Request().Context(), c.Param("slug"), req.patch(), file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(item))
}

func (h *ContentController) DeleteDraft(c echo.Context) error {
	if err := h.content.DeleteDraft(c.Request().Context(), c.Param("slug")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Preview " + strings.ToLower(h.label()) + " deleted"})
}

// Publish promotes a draft. The body, if any, overrides draft fields.
func (h *ContentController) Publish(c echo.Context) error {
	req, file, err := parseContentRequest(c)
	if err != nil {
		return err
	}
	if file != nil {
		return services.Validation("upload the image first and pass its url as image")
	}

	res, err := h.publisher.Promote(c.Request().Context(), c.Param("slug"), req.patch(), middleware.GetClaims(c))
	if err != nil {
		return err
	}

	message := h.label() + " published"
	if res.Outcome == models.PromotionUpdated {
		message = h.label() + " updated"
	}
	body := map[string]interface{}{
		"message": message,
		"result":  res.Outcome,
	}
	body[string(h.content.Kind())] = h.view(res.Content)
	return c.JSON(http.StatusOK, body)
}

func (h *ContentController) label() string {
	if h.content.Kind() == models.KindService {
		return "Service"
	}
	return "Blog"
}
