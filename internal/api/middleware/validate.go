package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/api/validation"
)

// Validate binds the request body and checks it against the named schema.
// The coerced result is available to handlers through PayloadFrom.
func Validate(v *validation.Validator, schema string) echo.MiddlewareFunc {
	binder := &echo.DefaultBinder{}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			body := map[string]any{}
			if err := binder.BindBody(c, &body); err != nil {
				return err
			}

			payload, err := v.Validate(schema, body)
			if err != nil {
				metrics.ValidationFailuresTotal.WithLabelValues(schema).Inc()
				return err
			}

			SetPayload(c, payload)
			return next(c)
		}
	}
}
