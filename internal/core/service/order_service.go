package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// OrderService manages orders. Every operation except ListAll is restricted to
// the order's owner or an admin.
type OrderService struct {
	orders   ports.Store[domain.Order]
	users    ports.Store[domain.User]
	products ports.Store[domain.Product]
	logger   zerolog.Logger
	now      func() time.Time
}

func NewOrderService(orders ports.Store[domain.Order], users ports.Store[domain.User], products ports.Store[domain.Product], logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, users: users, products: products, logger: logger, now: time.Now}
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	items, _, err := s.orders.FindMany(ctx, ports.Filter{}, ports.Page{})
	if err != nil {
		return nil, storeFault("list orders", err)
	}
	return items, nil
}

func (s *OrderService) ListForUser(ctx context.Context, actor domain.Identity, userID string) ([]domain.Order, error) {
	if !actor.CanActOn(userID) {
		return nil, domain.ErrForbidden
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, _, err := s.orders.FindMany(ctx, ports.Filter{Equals: map[string]any{"userId": user.ID}}, ports.Page{})
	if err != nil {
		return nil, storeFault("list orders", err)
	}
	return items, nil
}

func (s *OrderService) Create(ctx context.Context, actor domain.Identity, userID string, lines []ports.OrderLineInput) (*domain.Order, error) {
	if !actor.CanActOn(userID) {
		return nil, domain.ErrForbidden
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.lines(ctx, lines)
	if err != nil {
		return nil, err
	}

	created, err := s.orders.Insert(ctx, domain.Order{
		UserID:    user.ID,
		Products:  resolved,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, storeFault("create order", err)
	}
	s.logger.Info().Str("order_id", created.ID.Hex()).Str("user_id", userID).Msg("order created")
	return &created, nil
}

// Update merges the given fields into the order's line. At least one field
// must be set.
func (s *OrderService) Update(ctx context.Context, actor domain.Identity, id string, in ports.UpdateOrderInput) (*domain.Order, error) {
	if in.ProductID == nil && in.Quantity == nil {
		return nil, domain.NewBadRequest("productId or quantity is required")
	}
	o, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	line := ports.OrderLineInput{Quantity: 1}
	if len(o.Products) > 0 {
		line = ports.OrderLineInput{ProductID: o.Products[0].ProductID.Hex(), Quantity: o.Products[0].Quantity}
	}
	if in.ProductID != nil {
		line.ProductID = *in.ProductID
	}
	if in.Quantity != nil {
		line.Quantity = *in.Quantity
	}

	resolved, err := s.lines(ctx, []ports.OrderLineInput{line})
	if err != nil {
		return nil, err
	}
	products := append(resolved, tail(o.Products)...)

	updated, found, err := s.orders.UpdateByID(ctx, id, ports.Fields{"products": products})
	if err != nil {
		return nil, storeFault("update order", err)
	}
	if !found {
		return nil, domain.ErrOrderNotFound
	}
	return &updated, nil
}

// tail returns every line after the first.
func tail(lines []domain.OrderLine) []domain.OrderLine {
	if len(lines) < 2 {
		return nil
	}
	return lines[1:]
}

func (s *OrderService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}

	_, found, err := s.orders.DeleteByID(ctx, id)
	if err != nil {
		return storeFault("delete order", err)
	}
	if !found {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *OrderService) owned(ctx context.Context, actor domain.Identity, id string) (*domain.Order, error) {
	o, found, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, storeFault("find order", err)
	}
	if !found {
		return nil, domain.ErrOrderNotFound
	}
	if !actor.CanActOn(o.UserID.Hex()) {
		return nil, domain.ErrForbidden
	}
	return &o, nil
}

func (s *OrderService) user(ctx context.Context, id string) (*domain.User, error) {
	u, found, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeFault("find user", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// lines checks that every referenced product exists.
func (s *OrderService) lines(ctx context.Context, in []ports.OrderLineInput) ([]domain.OrderLine, error) {
	if len(in) == 0 {
		return nil, domain.NewBadRequest("order must contain at least one product")
	}
	out := make([]domain.OrderLine, 0, len(in))
	for _, l := range in {
		if l.Quantity < 1 {
			return nil, domain.NewBadRequest("quantity must be greater than or equal to 1")
		}
		oid, err := parseRef("productId", l.ProductID)
		if err != nil {
			return nil, err
		}
		if _, found, err := s.products.FindByID(ctx, l.ProductID); err != nil {
			return nil, storeFault("find product", err)
		} else if !found {
			return nil, domain.ErrProductNotFound
		}
		out = append(out, domain.OrderLine{ProductID: oid, Quantity: l.Quantity})
	}
	return out, nil
}
