package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// AuthConfig holds the optional collaborators and policy switches of AuthService.
type AuthConfig struct {
	AllowAdminRegistration bool
	// DefaultResetPassword is the one-time password set by ResetPassword.
	DefaultResetPassword string
	// Limiter may be nil, in which case logins are never throttled.
	Limiter ports.LoginLimiter
	Audit   ports.AuditSink
}

// AuthService implements registration, login and password management.
type AuthService struct {
	users  ports.Store[domain.User]
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	cfg    AuthConfig
	audit  ports.AuditSink
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.Store[domain.User], hasher ports.PasswordHasher, tokens ports.TokenIssuer, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		cfg:    cfg,
		audit:  auditOrNop(cfg.Audit),
		logger: logger,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() {
		return nil, domain.NewBadRequest("role must be one of: customer admin")
	}
	if role == domain.RoleAdmin && !s.cfg.AllowAdminRegistration {
		return nil, domain.ErrAdminSignupBlocked
	}

	email := normalizeEmail(in.Email)
	if _, found, err := s.users.FindByField(ctx, "email", email); err != nil {
		return nil, storeFault("find user", err)
	} else if found {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	avatar := in.Avatar
	if avatar == "" {
		avatar = domain.DefaultAvatar
	}

	now := s.now().UTC()
	created, err := s.users.Insert(ctx, domain.User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Avatar:       avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, domain.ErrUserExists
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, storeFault("create user", err)
	}

	s.audit.Record(domain.AuditEvent{Action: domain.AuditRegistered, SubjectID: created.ID.Hex(), Email: email})
	s.logger.Info().Str("user_id", created.ID.Hex()).Str("role", string(role)).Msg("user registered")
	return &created, nil
}

// Login verifies the credentials and issues a token. Failed attempts count
// towards the per-email lockout.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)

	if err := s.checkThrottle(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, err
	}

	s.resetThrottle(ctx, email)
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.audit.Record(domain.AuditEvent{Action: domain.AuditLoginSucceeded, SubjectID: user.ID.Hex(), Email: email})

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, email, current, next string) (*domain.User, error) {
	email = normalizeEmail(email)

	if err := s.checkThrottle(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.verify(ctx, email, current)
	if err != nil {
		return nil, err
	}
	s.resetThrottle(ctx, email)

	updated, err := s.setPassword(ctx, user, next)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{Action: domain.AuditPasswordChanged, SubjectID: user.ID.Hex(), ActorID: user.ID.Hex()})
	return updated, nil
}

// ResetPassword sets the configured one-time password on the account and
// returns the message telling the user what it is. Only the account owner or
// an admin may reset it.
func (s *AuthService) ResetPassword(ctx context.Context, actor domain.Identity, email string) (string, error) {
	email = normalizeEmail(email)

	user, found, err := s.users.FindByField(ctx, "email", email)
	if err != nil {
		return "", storeFault("find user", err)
	}
	if !found {
		return "", domain.ErrUserNotFound
	}
	if !actor.CanActOn(user.ID.Hex()) {
		return "", domain.ErrForbidden
	}

	if _, err := s.setPassword(ctx, &user, s.cfg.DefaultResetPassword); err != nil {
		return "", err
	}

	s.audit.Record(domain.AuditEvent{Action: domain.AuditPasswordReset, SubjectID: user.ID.Hex(), ActorID: actor.ID})
	s.logger.Info().Str("user_id", user.ID.Hex()).Str("actor_id", actor.ID).Msg("password reset")
	return fmt.Sprintf("Your one-time password is %s, please log in and change immediately!", s.cfg.DefaultResetPassword), nil
}

// verify loads the account and checks password against its stored hash.
func (s *AuthService) verify(ctx context.Context, email, password string) (*domain.User, error) {
	user, found, err := s.users.FindByField(ctx, "email", email)
	if err != nil {
		return nil, storeFault("find user", err)
	}
	if !found {
		s.recordFailure(ctx, email, "", "unknown_email")
		return nil, domain.ErrUserNotFound
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, email, user.ID.Hex(), "wrong_password")
		return nil, domain.ErrWrongPassword
	}
	return &user, nil
}

func (s *AuthService) setPassword(ctx context.Context, user *domain.User, plaintext string) (*domain.User, error) {
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	updated, found, err := s.users.UpdateByID(ctx, user.ID.Hex(), ports.Fields{
		"password":  hash,
		"updatedAt": s.now().UTC(),
	})
	if err != nil {
		return nil, storeFault("update password", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return &updated, nil
}

func (s *AuthService) checkThrottle(ctx context.Context, email string) error {
	if s.cfg.Limiter == nil {
		return nil
	}
	ok, err := s.cfg.Limiter.Allowed(ctx, email)
	if err != nil {
		// Fail open while Redis is unreachable.
		s.logger.Warn().Err(err).Msg("login throttle unavailable")
		return nil
	}
	if !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		s.audit.Record(domain.AuditEvent{Action: domain.AuditLoginThrottled, Email: email})
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email, userID, reason string) {
	metrics.LoginAttemptsTotal.WithLabelValues(reason).Inc()
	s.audit.Record(domain.AuditEvent{Action: domain.AuditLoginFailed, SubjectID: userID, Email: email})
	if s.cfg.Limiter == nil {
		return
	}
	if err := s.cfg.Limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) resetThrottle(ctx context.Context, email string) {
	if s.cfg.Limiter == nil {
		return
	}
	if err := s.cfg.Limiter.Reset(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("failed to reset login throttle")
	}
}
