package ports

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by Insert and UpdateByID when a unique index rejects the write.
var ErrDuplicate = errors.New("duplicate key")

// Fields is a partial update keyed by stored (bson) field name.
type Fields map[string]any

// Range bounds a numeric field. Nil ends are open.
type Range struct {
	Min *float64
	Max *float64
}

// Filter narrows FindMany. All conditions must hold.
type Filter struct {
	// Equals matches fields by exact value.
	Equals map[string]any
	// Contains matches string fields by case-insensitive substring.
	Contains map[string]string
	// Ranges matches numeric fields within inclusive bounds.
	Ranges map[string]Range
}

// Page selects a window of results. Limit <= 0 means no limit.
type Page struct {
	Limit  int64
	Offset int64
}

// Store is the persistence collaborator for one entity type.
//
// Lookups report absence with found=false rather than an error so callers can
// tell "not there" apart from a failing store. Malformed ids count as absent.
type Store[T any] interface {
	FindMany(ctx context.Context, filter Filter, page Page) ([]T, int64, error)
	FindByID(ctx context.Context, id string) (T, bool, error)
	FindByField(ctx context.Context, field string, value any) (T, bool, error)
	Insert(ctx context.Context, item T) (T, error)
	UpdateByID(ctx context.Context, id string, fields Fields) (T, bool, error)
	DeleteByID(ctx context.Context, id string) (T, bool, error)
}
