package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/controllers"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit stores a popup form submission and notifies the operator
// @Summary Submit contact form
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body services.ContactInput true "Submission"
// @Success 201 {object} map[string]string "Form submitted successfully"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 429 {object} map[string]string "Too many submissions"
// @Failure 500 {object} map[string]string "Notification failed"
// @Router /popup [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req services.ContactInput
	if err := c.Bind(&req); err != nil {
		return services.Validation("invalid request body")
	}

	submission, err := h.contacts.Submit(c.Request().Context(), req, utils.ParseClient(c.Request()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Form submitted successfully",
		"id":      submission.ID,
	})
}

// List returns submissions newest first
// @Summary List contact submissions
// @Tags Contact
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /popup [get]
func (h *ContactHandler) List(c echo.Context) error {
	page, limit := controllers.Pagination(c)

	items, total, err := h.contacts.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Delete removes one submission
// @Summary Delete contact submission
// @Tags Contact
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 204 "No content"
// @Failure 404 {object} map[string]string "Not found"
// @Router /popup/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	if err := h.contacts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Export downloads every submission as a spreadsheet
// @Summary Export contact submissions
// @Tags Contact
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /popup/export [get]
func (h *ContactHandler) Export(c echo.Context) error {
	data, err := h.contacts.Export(c.Request().Context())
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("contact-submissions-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxMIME, data)
}
