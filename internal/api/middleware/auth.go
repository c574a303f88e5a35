package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const bearerPrefix = "Bearer "

// Auth verifies the bearer token and attaches the decoded identity to the
// context. It never touches the store; Gate decides whether the identity may
// proceed.
func Auth(tokens ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return domain.ErrMissingToken
			}

			raw := strings.TrimSpace(header[len(bearerPrefix):])
			if raw == "" {
				return domain.ErrMissingToken
			}

			identity, err := tokens.Verify(raw)
			if err != nil {
				return err
			}

			SetIdentity(c, identity)
			return next(c)
		}
	}
}
