package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultLockout     = 15 * time.Minute
)

// LoginThrottle counts failed logins per email and locks the email once the
// count reaches the limit. The counter expires lockout after the first failure.
// Key format: login:fail:<lowercased email>
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	lockout     time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client, maxAttempts int, lockout time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = defaultLockout
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), lockout: lockout}
}

// Allowed reports whether another login attempt may be made for email.
func (t *LoginThrottle) Allowed(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n < t.maxAttempts, nil
}

// RecordFailure increments the failure counter, starting the lockout window
// on the first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.lockout).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(email string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(email))
}
