package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/middleware"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

var log = logger.New("smtp_handler")

type SMTPHandler struct {
	mailer   services.Mailer
	notifyTo string
}

type SMTPTestRequest struct {
	To string `json:"to" validate:"omitempty,email"`
}

func NewSMTPHandler(mailer services.Mailer, notifyTo string) *SMTPHandler {
	return &SMTPHandler{mailer: mailer, notifyTo: notifyTo}
}

// TestSMTPConnection sends a test mail through the configured SMTP server
// @Summary Test SMTP delivery
// @Description Send a test mail to the given address, or to the notification address
// @Tags SMTP
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param smtpTestRequest body handlers.SMTPTestRequest false "Recipient"
// @Success 200 {object} map[string]string "SMTP connection test successful"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Delivery failed"
// @Router /admin/smtp/test [post]
func (h *SMTPHandler) TestSMTPConnection(c echo.Context) error {
	var req SMTPTestRequest
	if err := c.Bind(&req); err != nil {
		return services.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	to := strings.TrimSpace(req.To)
	if to == "" {
		to = h.notifyTo
	}
	if to == "" {
		return services.Validation("to is required when no notification address is configured")
	}

	err := h.mailer.Send(c.Request().Context(), utils.Mail{
		To:      []string{to},
		Subject: "SMTP test",
		Body:    "Hello! This is a test email from the Digital Reviver backend.",
	})
	if err != nil {
		return log.Error("Failed to send test email", err)
	}

	log.Success("SMTP connection test successful, requested by %s", middleware.GetUserID(c))
	return c.JSON(http.StatusOK, map[string]string{
		"message": "SMTP connection test successful",
	})
}
