package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// CategoryInput is used for both create and update; nil fields are unset.
type CategoryInput struct {
	Name  *string
	Image *string
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id string, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// ProductInput is used for both create and update; nil fields are unset.
type ProductInput struct {
	Title       *string
	Price       *float64
	Description *string
	Image       *string
	CategoryID  *string
}

// ProductQuery carries the list endpoint's query string.
type ProductQuery struct {
	CategoryID  string
	SearchQuery string
	MinPrice    *float64
	MaxPrice    *float64
	Limit       int64
	Offset      int64
}

// ProductPage is one page of products plus the unpaginated match count.
type ProductPage struct {
	TotalProduct int64                  `json:"totalProduct"`
	Products     []domain.ProductDetail `json:"products"`
}

type ProductService interface {
	List(ctx context.Context, q ProductQuery) (*ProductPage, error)
	Get(ctx context.Context, id string) (*domain.ProductDetail, error)
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
