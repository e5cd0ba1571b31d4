package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/services"
)

// RequireRole lets the request through when the authenticated user holds one
// of roles. It must run after the auth middleware.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetClaims(c)
			if claims == nil {
				return services.ErrUnauthenticated
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return fmt.Errorf("%w: role %q may not %s %s", services.ErrForbidden, claims.Role, c.Request().Method, c.Path())
		}
	}
}
