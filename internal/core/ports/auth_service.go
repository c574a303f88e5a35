package ports

import (
	"context"
	"time"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// PasswordHasher hashes and verifies credentials. Verify never fails loudly:
// a mismatch or a malformed hash both report false.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs identities into bearer tokens and verifies them back.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, time.Time, error)
	Verify(token string) (domain.Identity, error)
}

// LoginLimiter throttles repeated failed logins per email.
type LoginLimiter interface {
	Allowed(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuditSink accepts audit events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// RegisterInput carries a validated registration payload.
type RegisterInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
	Role      domain.Role
	Avatar    string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService covers the credential-handling use cases.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ChangePassword(ctx context.Context, email, current, next string) (*domain.User, error)
	ResetPassword(ctx context.Context, actor domain.Identity, email string) (string, error)
}
