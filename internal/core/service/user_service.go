package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// UserService manages existing accounts.
type UserService struct {
	users  ports.Store[domain.User]
	audit  ports.AuditSink
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(users ports.Store[domain.User], audit ports.AuditSink, logger zerolog.Logger) *UserService {
	return &UserService{users: users, audit: auditOrNop(audit), logger: logger, now: time.Now}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, _, err := s.users.FindMany(ctx, ports.Filter{}, ports.Page{})
	if err != nil {
		return nil, storeFault("list users", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, found, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeFault("find user", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

// Update applies profile changes. Only the account owner or an admin may
// update an account; role, password and ban status are never touched here.
func (s *UserService) Update(ctx context.Context, actor domain.Identity, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if !actor.CanActOn(id) {
		return nil, domain.ErrForbidden
	}

	fields := ports.Fields{"updatedAt": s.now().UTC()}
	if in.Firstname != nil {
		fields["firstname"] = *in.Firstname
	}
	if in.Lastname != nil {
		fields["lastname"] = *in.Lastname
	}
	if in.Email != nil {
		fields["email"] = normalizeEmail(*in.Email)
	}
	if in.Avatar != nil {
		avatar := *in.Avatar
		if avatar == "" {
			avatar = domain.DefaultAvatar
		}
		fields["avatar"] = avatar
	}

	updated, found, err := s.users.UpdateByID(ctx, id, fields)
	if err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, domain.ErrUserExists
		}
		return nil, storeFault("update user", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return &updated, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if !actor.CanActOn(id) {
		return domain.ErrForbidden
	}

	_, found, err := s.users.DeleteByID(ctx, id)
	if err != nil {
		return storeFault("delete user", err)
	}
	if !found {
		return domain.ErrUserNotFound
	}

	s.audit.Record(domain.AuditEvent{Action: domain.AuditDeleted, SubjectID: id, ActorID: actor.ID})
	s.logger.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user deleted")
	return nil
}

// SetBanned bans or unbans an account. Tokens already issued to the account
// are rejected by the role gate from the next request on.
func (s *UserService) SetBanned(ctx context.Context, actor domain.Identity, id string, banned bool) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	updated, found, err := s.users.UpdateByID(ctx, id, ports.Fields{
		"banStatus": banned,
		"updatedAt": s.now().UTC(),
	})
	if err != nil {
		return nil, storeFault("update user", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}

	action := domain.AuditUnbanned
	if banned {
		action = domain.AuditBanned
	}
	s.audit.Record(domain.AuditEvent{Action: action, SubjectID: id, ActorID: actor.ID})
	s.logger.Info().Str("user_id", id).Bool("banned", banned).Msg("ban status changed")
	return &updated, nil
}

func (s *UserService) CurrentIdentity(ctx context.Context, id string) (domain.Identity, bool, error) {
	user, found, err := s.users.FindByID(ctx, id)
	if err != nil || !found {
		return domain.Identity{}, false, err
	}
	return user.Identity(), true, nil
}
