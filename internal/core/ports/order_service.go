package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// OrderLineInput is a single product line requested by the caller.
type OrderLineInput struct {
	ProductID string
	Quantity  int
}

// UpdateOrderInput changes the order's line. Nil fields keep their current value.
type UpdateOrderInput struct {
	ProductID *string
	Quantity  *int
}

type OrderService interface {
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListForUser(ctx context.Context, actor domain.Identity, userID string) ([]domain.Order, error)
	Create(ctx context.Context, actor domain.Identity, userID string, lines []OrderLineInput) (*domain.Order, error)
	Update(ctx context.Context, actor domain.Identity, id string, in UpdateOrderInput) (*domain.Order, error)
	Delete(ctx context.Context, actor domain.Identity, id string) error
}

// AuditService exposes the recorded security events to administrators.
type AuditService interface {
	List(ctx context.Context, page Page) ([]domain.AuditEvent, int64, error)
}
