package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/validation"
	"github.com/storefront/storefront-api/internal/core/domain"
)

const (
	identityKey = "identity"
	payloadKey  = "payload"
)

// SetIdentity attaches the authenticated identity to the request.
func SetIdentity(c echo.Context, id domain.Identity) { c.Set(identityKey, id) }

// IdentityFrom returns the identity set by Auth. ok is false when the request
// never passed through Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

func SetPayload(c echo.Context, p validation.Payload) { c.Set(payloadKey, p) }

// PayloadFrom returns the validated body, or an empty Payload when the route
// has no schema.
func PayloadFrom(c echo.Context) validation.Payload {
	p, ok := c.Get(payloadKey).(validation.Payload)
	if !ok {
		return validation.Payload{}
	}
	return p
}
