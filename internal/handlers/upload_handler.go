package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

type UploadHandler struct {
	images *services.ImageManager
	log    *logger.Logger
}

func NewUploadHandler(images *services.ImageManager) *UploadHandler {
	return &UploadHandler{
		images: images,
		log:    logger.New("upload_handler"),
	}
}

// UploadFile stores an image and returns its URL, for use as an image
// override when publishing.
// @Summary Upload an image
// @Tags Files
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image (jpg, jpeg, png, gif)"
// @Param kind formData string false "blog or service, selects the folder"
// @Success 201 {object} map[string]string "url"
// @Failure 400 {object} map[string]string "Missing or unsupported file"
// @Router /uploads [post]
func (h *UploadHandler) UploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return services.Validation("no file provided")
		}
		return services.Validation("invalid upload")
	}

	folder := models.ContentKind(c.FormValue("kind")).UploadFolder()
	url, err := h.images.Upload(c.Request().Context(), folder, file)
	if err != nil {
		if errors.Is(err, services.ErrStorageDisabled) {
			return h.log.Error("Upload rejected", err)
		}
		return err
	}

	h.log.Success("File uploaded successfully: %s", *url)
	return c.JSON(http.StatusCreated, map[string]string{
		"message": "File uploaded successfully",
		"url":     *url,
	})
}
