package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
)

const claimsKey = "claims"

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// Authorize validates an Authorization header value of the form
// "Bearer <token>".
func (m *AuthMiddleware) Authorize(header string) (*utils.Claims, error) {
	if header == "" {
		return nil, fmt.Errorf("%w: missing authorization header", services.ErrUnauthenticated)
	}

	tokenParts := strings.Fields(header)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
		return nil, fmt.Errorf("%w: invalid authorization header format", services.ErrUnauthenticated)
	}

	claims, err := utils.ParseJWT(tokenParts[1], m.jwtSecret)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", services.ErrInvalidToken)
		}
		return nil, services.ErrInvalidToken
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token.
func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := m.Authorize(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// Optional attaches the claims when a valid token is present and lets the
// request through otherwise.
func (m *AuthMiddleware) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := m.Authorize(c.Request().Header.Get(echo.HeaderAuthorization)); err == nil {
				c.Set(claimsKey, claims)
			}
			return next(c)
		}
	}
}

// RequireAdmin authenticates the request and requires the admin role.
func (m *AuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	authenticate := m.Middleware()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticate(RequireRole(models.RoleAdmin)(next))
	}
}

// Helper functions to get values from context
func GetClaims(c echo.Context) *utils.Claims {
	if claims, ok := c.Get(claimsKey).(*utils.Claims); ok {
		return claims
	}
	return nil
}

func GetUserID(c echo.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.AdminID
	}
	return ""
}

func GetUserRole(c echo.Context) models.Role {
	if claims := GetClaims(c); claims != nil {
		return claims.Role
	}
	return ""
}
