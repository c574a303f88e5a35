package handler

import (
	"github.com/storefront/storefront-api/internal/api/validation"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// --- Validated payload → Service input ---

func toRegisterInput(p validation.Payload) ports.RegisterInput {
	return ports.RegisterInput{
		Firstname: p.String("firstname"),
		Lastname:  p.String("lastname"),
		Email:     p.String("email"),
		Password:  p.String("password"),
		Role:      domain.Role(p.String("role")),
		Avatar:    p.String("avatar"),
	}
}

func toUpdateUserInput(p validation.Payload) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Firstname: p.StringPtr("firstname"),
		Lastname:  p.StringPtr("lastname"),
		Email:     p.StringPtr("email"),
		Avatar:    p.StringPtr("avatar"),
	}
}

func toCategoryInput(p validation.Payload) ports.CategoryInput {
	return ports.CategoryInput{
		Name:  p.StringPtr("name"),
		Image: p.StringPtr("image"),
	}
}

func toProductInput(p validation.Payload) ports.ProductInput {
	return ports.ProductInput{
		Title:       p.StringPtr("title"),
		Price:       p.FloatPtr("price"),
		Description: p.StringPtr("description"),
		Image:       p.StringPtr("image"),
		CategoryID:  p.StringPtr("categoryId"),
	}
}

func toOrderLines(p validation.Payload) []ports.OrderLineInput {
	return []ports.OrderLineInput{{
		ProductID: p.String("productId"),
		Quantity:  p.Int("quantity"),
	}}
}

func toUpdateOrderInput(p validation.Payload) ports.UpdateOrderInput {
	return ports.UpdateOrderInput{
		ProductID: p.StringPtr("productId"),
		Quantity:  p.IntPtr("quantity"),
	}
}
