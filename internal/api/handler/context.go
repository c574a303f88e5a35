package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
)

// ctxIdentity returns the identity admitted by the role gate. Its absence means
// the route was registered without Auth, which is rejected rather than
// treated as anonymous.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.ID == "" {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return id, nil
}

// messageResponse is the body of endpoints that only report an outcome.
type messageResponse struct {
	Message string `json:"message"`
}
