package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/api/middleware"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

type AuthHandler struct {
	admins *services.AdminService
	auth   *middleware.AuthMiddleware
}

func NewAuthHandler(admins *services.AdminService, auth *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{admins: admins, auth: auth}
}

// Register creates an admin account. The first account may be created
// without a token; later ones need an admin token.
// @Summary Register an admin
// @Description Create an admin account. Open until the first account exists.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration details"
// @Success 201 {object} models.Admin
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Admin token required"
// @Failure 409 {object} map[string]string "Username or email taken"
// @Router /admin/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req services.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return services.Validation("invalid request body")
	}

	// A bad token is ignored here; Register decides whether one is needed.
	claims, _ := h.auth.Authorize(c.Request().Header.Get(echo.HeaderAuthorization))

	admin, err := h.admins.Register(c.Request().Context(), req, claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, admin)
}

// Login authenticates an admin and returns a JWT.
// @Summary Login admin
// @Description Authenticate with username and password and return a JWT
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login credentials"
// @Success 200 {object} services.LoginResponse
// @Failure 400 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Router /admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req services.LoginRequest
	if err := c.Bind(&req); err != nil {
		return services.Validation("invalid request body")
	}

	resp, err := h.admins.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// RequestPasswordReset mails a reset token.
// @Summary Request password reset
// @Description Mail a reset token to the account's email. Always succeeds for unknown addresses.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body services.PasswordResetRequest true "Account email"
// @Success 200 {object} map[string]string "Reset mail sent"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /admin/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req services.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return services.Validation("invalid request body")
	}

	if err := h.admins.RequestPasswordReset(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "If the email belongs to an admin, a reset token has been sent",
	})
}

// VerifyResetToken sets a new password using a mailed token.
// @Summary Reset password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body services.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} map[string]string "Password updated"
// @Failure 400 {object} map[string]string "Invalid or expired token"
// @Router /admin/password-reset/verify [post]
func (h *AuthHandler) VerifyResetToken(c echo.Context) error {
	var req services.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return services.Validation("invalid request body")
	}

	if err := h.admins.ResetPassword(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

// Me returns the authenticated admin.
// @Summary Current admin
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Admin
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /admin/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	admin, err := h.admins.Get(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, admin)
}
