package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type CategoryService struct {
	categories ports.Store[domain.Category]
	logger     zerolog.Logger
}

func NewCategoryService(categories ports.Store[domain.Category], logger zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	items, _, err := s.categories.FindMany(ctx, ports.Filter{}, ports.Page{})
	if err != nil {
		return nil, storeFault("list categories", err)
	}
	return items, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	c, found, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, storeFault("find category", err)
	}
	if !found {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (s *CategoryService) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	c := domain.Category{}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Image != nil {
		c.Image = *in.Image
	}

	created, err := s.categories.Insert(ctx, c)
	if err != nil {
		return nil, storeFault("create category", err)
	}
	s.logger.Info().Str("category_id", created.ID.Hex()).Msg("category created")
	return &created, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in ports.CategoryInput) (*domain.Category, error) {
	fields := ports.Fields{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}

	updated, found, err := s.categories.UpdateByID(ctx, id, fields)
	if err != nil {
		return nil, storeFault("update category", err)
	}
	if !found {
		return nil, domain.ErrCategoryNotFound
	}
	return &updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	_, found, err := s.categories.DeleteByID(ctx, id)
	if err != nil {
		return storeFault("delete category", err)
	}
	if !found {
		return domain.ErrCategoryNotFound
	}
	return nil
}
