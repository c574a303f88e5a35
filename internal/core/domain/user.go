package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the authorization level carried by an Identity.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

const DefaultAvatar = "https://picsum.photos/800"

// User is the persisted account record.
type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Firstname    string             `json:"firstname" bson:"firstname"`
	Lastname     string             `json:"lastname" bson:"lastname"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Role         Role               `json:"role" bson:"role"`
	Avatar       string             `json:"avatar" bson:"avatar"`
	Banned       bool               `json:"banStatus" bson:"banStatus"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Identity projects the user onto the fields a token may carry.
func (u *User) Identity() Identity {
	return Identity{
		ID:     u.ID.Hex(),
		Email:  u.Email,
		Role:   u.Role,
		Banned: u.Banned,
	}
}
