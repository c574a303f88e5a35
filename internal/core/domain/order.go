package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderLine is one product and its quantity within an order.
type OrderLine struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// Order belongs to the user identified by UserID.
type Order struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Products  []OrderLine        `json:"products" bson:"products"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
