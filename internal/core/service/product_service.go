package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// ProductService manages products and resolves their category references.
type ProductService struct {
	products   ports.Store[domain.Product]
	categories ports.Store[domain.Category]
	logger     zerolog.Logger
}

func NewProductService(products ports.Store[domain.Product], categories ports.Store[domain.Category], logger zerolog.Logger) *ProductService {
	return &ProductService{products: products, categories: categories, logger: logger}
}

// List returns one page of products matching q. TotalProduct counts every
// match, not just the returned page.
func (s *ProductService) List(ctx context.Context, q ports.ProductQuery) (*ports.ProductPage, error) {
	filter := ports.Filter{}

	if q.CategoryID != "" {
		if _, found, err := s.categories.FindByID(ctx, q.CategoryID); err != nil {
			return nil, storeFault("find category", err)
		} else if !found {
			return nil, domain.ErrCategoryNotFound
		}
		oid, _ := primitive.ObjectIDFromHex(q.CategoryID)
		filter.Equals = map[string]any{"categoryId": oid}
	}
	if q.SearchQuery != "" {
		filter.Contains = map[string]string{"title": q.SearchQuery}
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		filter.Ranges = map[string]ports.Range{"price": {Min: q.MinPrice, Max: q.MaxPrice}}
	}

	items, total, err := s.products.FindMany(ctx, filter, ports.Page{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, storeFault("list products", err)
	}

	details, err := s.populate(ctx, items)
	if err != nil {
		return nil, err
	}
	return &ports.ProductPage{TotalProduct: total, Products: details}, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.ProductDetail, error) {
	p, found, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeFault("find product", err)
	}
	if !found {
		return nil, domain.ErrProductNotFound
	}

	details, err := s.populate(ctx, []domain.Product{p})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *ProductService) Create(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	p := domain.Product{
		Price:       domain.DefaultProductPrice,
		Description: domain.DefaultProductDescription,
		Image:       domain.DefaultProductImage,
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil && *in.Description != "" {
		p.Description = *in.Description
	}
	if in.Image != nil && *in.Image != "" {
		p.Image = *in.Image
	}
	if in.CategoryID != nil {
		oid, err := s.categoryRef(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		p.CategoryID = oid
	}

	created, err := s.products.Insert(ctx, p)
	if err != nil {
		return nil, storeFault("create product", err)
	}
	s.logger.Info().Str("product_id", created.ID.Hex()).Msg("product created")
	return &created, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in ports.ProductInput) (*domain.Product, error) {
	fields := ports.Fields{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.CategoryID != nil {
		oid, err := s.categoryRef(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		fields["categoryId"] = oid
	}

	updated, found, err := s.products.UpdateByID(ctx, id, fields)
	if err != nil {
		return nil, storeFault("update product", err)
	}
	if !found {
		return nil, domain.ErrProductNotFound
	}
	return &updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	_, found, err := s.products.DeleteByID(ctx, id)
	if err != nil {
		return storeFault("delete product", err)
	}
	if !found {
		return domain.ErrProductNotFound
	}
	return nil
}

// categoryRef checks that id names an existing category.
func (s *ProductService) categoryRef(ctx context.Context, id string) (primitive.ObjectID, error) {
	oid, err := parseRef("categoryId", id)
	if err != nil {
		return oid, err
	}
	if _, found, err := s.categories.FindByID(ctx, id); err != nil {
		return oid, storeFault("find category", err)
	} else if !found {
		return oid, domain.ErrCategoryNotFound
	}
	return oid, nil
}

// populate resolves each product's category to {_id, name}. A dangling
// reference leaves the category nil.
func (s *ProductService) populate(ctx context.Context, items []domain.Product) ([]domain.ProductDetail, error) {
	refs := make(map[primitive.ObjectID]*domain.CategoryRef)
	out := make([]domain.ProductDetail, 0, len(items))

	for _, p := range items {
		d := domain.ProductDetail{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Description: p.Description,
			Image:       p.Image,
		}

		if !p.CategoryID.IsZero() {
			ref, seen := refs[p.CategoryID]
			if !seen {
				c, found, err := s.categories.FindByID(ctx, p.CategoryID.Hex())
				if err != nil {
					return nil, storeFault("find category", err)
				}
				if found {
					ref = &domain.CategoryRef{ID: c.ID, Name: c.Name}
				}
				refs[p.CategoryID] = ref
			}
			d.Category = ref
		}
		out = append(out, d)
	}
	return out, nil
}
