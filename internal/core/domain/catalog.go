package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	DefaultProductPrice       = 10
	DefaultProductDescription = "This is a product"
	DefaultProductImage       = "https://picsum.photos/800"
)

// Category groups products in the storefront.
type Category struct {
	ID    primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Image string             `json:"image" bson:"image"`
}

// Product is a sellable item. CategoryID references a Category.
type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image" bson:"image"`
	CategoryID  primitive.ObjectID `json:"categoryId" bson:"categoryId,omitempty"`
}

// CategoryRef is the slice of a category embedded in product responses.
type CategoryRef struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}

// ProductDetail is a product with its category reference resolved.
type ProductDetail struct {
	ID          primitive.ObjectID `json:"_id"`
	Title       string             `json:"title"`
	Price       float64            `json:"price"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Category    *CategoryRef       `json:"categoryId"`
}
