package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
)

const DefaultTokenTTL = time.Hour

var ErrEmptySecret = errors.New("security: token signing secret is empty")

// claims is the token payload: the identity fields plus registered claims.
type claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Banned bool        `json:"banned,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens with a process-wide secret.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewJWTIssuer fails when secret is empty; callers treat that as fatal at startup.
func NewJWTIssuer(secret string, ttl time.Duration, log zerolog.Logger) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}, nil
}

func (j *JWTIssuer) Issue(identity domain.Identity) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role,
		Banned: identity.Banned,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := t.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, domain.NewInternal("sign token", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, then expiry. Every failure collapses to
// domain.ErrInvalidToken; only the log and metrics tell the causes apart.
func (j *JWTIssuer) Verify(token string) (domain.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "expired"
		}
		metrics.TokenVerificationsTotal.WithLabelValues(reason).Inc()
		j.log.Debug().Err(err).Str("reason", reason).Msg("token rejected")
		return domain.Identity{}, domain.ErrInvalidToken
	}

	if c.UserID == "" || !c.Role.Valid() {
		metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		j.log.Debug().Str("reason", "incomplete claims").Msg("token rejected")
		return domain.Identity{}, domain.ErrInvalidToken
	}

	metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
	return domain.Identity{
		ID:     c.UserID,
		Email:  c.Email,
		Role:   c.Role,
		Banned: c.Banned,
	}, nil
}
