package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/infrastructure/db/memory"
	"github.com/storefront/storefront-api/internal/infrastructure/security"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubTokens struct{}

func (stubTokens) Issue(id domain.Identity) (string, time.Time, error) {
	return "token-" + id.ID + "-" + string(id.Role), time.Now().Add(time.Hour), nil
}

func (stubTokens) Verify(string) (domain.Identity, error) {
	return domain.Identity{}, domain.ErrInvalidToken
}

type stubLimiter struct {
	failures map[string]int
	max      int
	err      error
	resets   int
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{failures: make(map[string]int), max: max}
}

func (l *stubLimiter) Allowed(_ context.Context, email string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[email] < l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	delete(l.failures, email)
	l.resets++
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

type authFixture struct {
	svc     *AuthService
	users   *memory.Store[domain.User]
	limiter *stubLimiter
	audit   *recordingAudit
}

func newAuthFixture(cfg AuthConfig) *authFixture {
	f := &authFixture{
		users:   memory.NewStore[domain.User]("email"),
		limiter: newStubLimiter(3),
		audit:   &recordingAudit{},
	}
	if cfg.DefaultResetPassword == "" {
		cfg.DefaultResetPassword = "123"
	}
	cfg.Limiter = f.limiter
	cfg.Audit = f.audit
	f.svc = NewAuthService(f.users, security.NewBcryptHasher(bcrypt.MinCost), stubTokens{}, cfg, zerolog.Nop())
	return f
}

func (f *authFixture) register(t *testing.T, email, password string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Firstname: "Test", Lastname: "User", Email: email, Password: password, Role: role,
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return u
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture(AuthConfig{})

	user := f.register(t, "User1@Gmail.com", "123", "")

	if user.ID.IsZero() {
		t.Fatalf("expected generated id")
	}
	if user.PasswordHash == "123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleCustomer {
		t.Fatalf("expected default role customer, got %s", user.Role)
	}
	if user.Avatar != domain.DefaultAvatar {
		t.Fatalf("expected default avatar, got %q", user.Avatar)
	}
	if user.Email != "user1@gmail.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if got := f.audit.actions(); len(got) != 1 || got[0] != domain.AuditRegistered {
		t.Fatalf("unexpected audit trail %v", got)
	}
}

func TestAuthService_Register_AdminBlockedByDefault(t *testing.T) {
	f := newAuthFixture(AuthConfig{})

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "a@b.co", Password: "123", Role: domain.RoleAdmin})
	if !errors.Is(err, domain.ErrAdminSignupBlocked) {
		t.Fatalf("expected ErrAdminSignupBlocked, got %v", err)
	}
	if f.users.Len() != 0 {
		t.Fatalf("no user should be stored")
	}

	allowed := newAuthFixture(AuthConfig{AllowAdminRegistration: true})
	if u := allowed.register(t, "a@b.co", "123", domain.RoleAdmin); u.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", u.Role)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture(AuthConfig{})
	f.register(t, "bob@example.com", "pass", "")

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "BOB@example.com", Password: "pass2"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict kind, got %v", domain.KindOf(err))
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(AuthConfig{})
	u := f.register(t, "user1@gmail.com", "123", "")
	f.limiter.failures["user1@gmail.com"] = 2

	res, err := f.svc.Login(context.Background(), "user1@gmail.com", "123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token != "token-"+u.ID.Hex()+"-customer" {
		t.Fatalf("unexpected token %q", res.Token)
	}
	if res.User == nil || res.User.Email != "user1@gmail.com" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if _, still := f.limiter.failures["user1@gmail.com"]; still {
		t.Fatalf("successful login should reset the failure counter")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(AuthConfig{})
	f.register(t, "user1@gmail.com", "123", "")

	_, err := f.svc.Login(context.Background(), "user1@gmail.com", "1234")
	if !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if domain.KindOf(err) != domain.KindBadRequest || !strings.Contains(err.Error(), "Wrong password") {
		t.Fatalf("unexpected error %v", err)
	}
	if f.limiter.failures["user1@gmail.com"] != 1 {
		t.Fatalf("expected one recorded failure, got %d", f.limiter.failures["user1@gmail.com"])
	}
}

func TestAuthService_Login_StoredPlaintextDoesNotAuthenticate(t *testing.T) {
	f := newAuthFixture(AuthConfig{})
	_, _ = f.users.Insert(context.Background(), domain.User{Email: "legacy@example.com", PasswordHash: "123", Role: domain.RoleCustomer})

	if _, err := f.svc.Login(context.Background(), "legacy@example.com", "123"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newAuthFixture(AuthConfig{})

	if _, err := f.svc.Login(context.Background(), "ghost@example.com", "123"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if f.limiter.failures["ghost@example.com"] != 1 {
		t.Fatalf("unknown emails should count towards the lockout")
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture(AuthConfig{})
	f.register(t, "user1@gmail.com", "123", "")

	for i := 0; i < 3; i++ {
		_, _ = f.svc.Login(context.Background(), "user1@gmail.com", "bad")
	}

	// Even the right password is refused while locked.
	_, err := f.svc.Login(context.Background(), "user1@gmail.com", "123")
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if domain.KindOf(err) != domain.KindTooManyRequests {
		t.Fatalf("expected too-many-requests kind, got %v", domain.KindOf(err))
	}
}

func TestAuthService_Login_LimiterFailureFailsOpen(t *testing.T) {
	f := newAuthFixture(AuthConfig{})
	f.register(t, "user1@gmail.com", "123", "")
	f.limiter.err = errors.New("redis down")

	if _, err := f.svc.Login(context.Background(), "user1@gmail.com", "123"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
}

func TestAuthService_Login_WithoutLimiter(t *testing.T) {
	users := memory.NewStore[domain.User]("email")
	svc := NewAuthService(users, security.NewBcryptHasher(bcrypt.MinCost), stubTokens{}, AuthConfig{}, zerolog.Nop())
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "a@b.co", Password: "123"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, err := svc.Login(context.Background(), "a@b.co", "bad"); !errors.Is(err, domain.ErrWrongPassword) {
			t.Fatalf("attempt %d: expected ErrWrongPassword, got %v", i, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Passwords
// ---------------------------------------------------------------------------

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(AuthConfig{})
	f.register(t, "user1@gmail.com", "123", "")

	if _, err := f.svc.ChangePassword(context.Background(), "user1@gmail.com", "wrong", "456"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}

	if _, err := f.svc.ChangePassword(context.Background(), "user1@gmail.com", "123", "456"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "user1@gmail.com", "123"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "user1@gmail.com", "456"); err != nil {
		t.Fatalf("new password should work, got %v", err)
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	f := newAuthFixture(AuthConfig{DefaultResetPassword: "reset-me"})
	owner := f.register(t, "owner@example.com", "secret", "")
	other := f.register(t, "other@example.com", "secret", "")

	ownerID := owner.ID.Hex()
	cases := []struct {
		name  string
		actor domain.Identity
		email string
		want  error
	}{
		{"stranger", domain.Identity{ID: other.ID.Hex(), Role: domain.RoleCustomer}, "owner@example.com", domain.ErrForbidden},
		{"unknown email", domain.Identity{ID: ownerID, Role: domain.RoleCustomer}, "ghost@example.com", domain.ErrUserNotFound},
		{"self", domain.Identity{ID: ownerID, Role: domain.RoleCustomer}, "owner@example.com", nil},
		{"admin", domain.Identity{ID: "admin", Role: domain.RoleAdmin}, "other@example.com", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := f.svc.ResetPassword(context.Background(), tc.actor, tc.email)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.want != nil {
				return
			}
			if !strings.Contains(msg, "reset-me") {
				t.Fatalf("unexpected message %q", msg)
			}
			if _, err := f.svc.Login(context.Background(), tc.email, "reset-me"); err != nil {
				t.Fatalf("login with reset password: %v", err)
			}
		})
	}
}
