package middleware

import "github.com/Riyasingh139/DigitalReviverBackend/internal/services"

// CustomValidator plugs the service validator into echo's c.Validate.
type CustomValidator struct{}

func (cv *CustomValidator) Validate(i interface{}) error {
	return services.ValidateStruct(i)
}
