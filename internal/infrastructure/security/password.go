package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// BcryptHasher hashes passwords with bcrypt. The salt is embedded in the
// resulting hash, so nothing else needs storing.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, falling back to
// bcrypt.DefaultCost when cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", domain.NewInternal("hash password", err)
	}
	return string(hash), nil
}

// Verify compares in constant time. There is no fallback path: a stored value
// that is not a bcrypt hash never matches.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
