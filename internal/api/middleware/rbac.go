package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
)

// Requirement is the access rule declared for a route. An empty Role admits
// any authenticated, unbanned identity.
type Requirement struct {
	Role domain.Role
}

// Authenticated admits any role.
var Authenticated = Requirement{}

// AdminOnly admits the admin role.
var AdminOnly = Requirement{Role: domain.RoleAdmin}

// IdentityLookup re-reads the account behind a token.
type IdentityLookup func(ctx context.Context, id string) (domain.Identity, bool, error)

// Gate enforces Requirements on identities attached by Auth.
type Gate struct {
	lookup IdentityLookup
	log    zerolog.Logger
}

// NewGate returns a Gate. With a nil lookup only the token's claims are checked.
func NewGate(lookup IdentityLookup, log zerolog.Logger) *Gate {
	return &Gate{lookup: lookup, log: log}
}

// Require denies unless the identity satisfies req. Banned identities are
// always denied, whatever their role.
func (g *Gate) Require(req Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return g.deny(c, "no_identity", domain.ErrForbidden)
			}
			if err := g.check(c, req, id); err != nil {
				return err
			}

			if g.lookup == nil {
				return next(c)
			}

			current, found, err := g.lookup(c.Request().Context(), id.ID)
			if err != nil {
				return domain.NewInternal("resolve identity", err)
			}
			if !found {
				return g.deny(c, "subject_gone", domain.ErrSubjectGone)
			}
			if err := g.check(c, req, current); err != nil {
				return err
			}

			// Privileges are the intersection of the token and the record.
			if current.Role != id.Role {
				id.Role = domain.RoleCustomer
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}

func (g *Gate) check(c echo.Context, req Requirement, id domain.Identity) error {
	if id.Banned {
		return g.deny(c, "banned", domain.ErrBanned)
	}
	if req.Role != "" && id.Role != req.Role {
		return g.deny(c, "role", domain.ErrForbidden)
	}
	return nil
}

func (g *Gate) deny(c echo.Context, reason string, err error) error {
	metrics.AccessDeniedTotal.WithLabelValues(reason).Inc()
	id, _ := IdentityFrom(c)
	g.log.Info().
		Str("reason", reason).
		Str("user_id", id.ID).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("access denied")
	return err
}
