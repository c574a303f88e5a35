package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// UpdateUserInput holds optional profile changes; nil fields are left alone.
type UpdateUserInput struct {
	Firstname *string
	Lastname  *string
	Email     *string
	Avatar    *string
}

// UserService manages accounts once they exist.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, actor domain.Identity, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Identity, id string) error
	SetBanned(ctx context.Context, actor domain.Identity, id string, banned bool) (*domain.User, error)
	// CurrentIdentity re-reads the account behind a token. found is false once
	// the account has been deleted.
	CurrentIdentity(ctx context.Context, id string) (domain.Identity, bool, error)
}
