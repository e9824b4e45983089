package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"employee-feedback/src/utils"
)

const (
	revokedKeyPrefix = "auth:revoked:"
	loginKeyPrefix   = "auth:login:"
)

// Revocations is the Redis-backed list of logged-out token ids. A nil
// client disables revocation and every token stays valid until expiry.
type Revocations struct {
	client *redis.Client
	now    func() time.Time
}

func NewRevocations(client *redis.Client, now func() time.Time) *Revocations {
	if now == nil {
		now = time.Now
	}
	return &Revocations{client: client, now: now}
}

// Enabled reports whether revocations are persisted.
func (r *Revocations) Enabled() bool {
	return r != nil && r.client != nil
}

// Revoke stores the token id until the token would have expired anyway.
func (r *Revocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if !r.Enabled() {
		return nil
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether the token id was revoked.
func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LoginThrottle counts failed logins per username in a fixed window.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

func (t *LoginThrottle) enabled() bool {
	return t != nil && t.client != nil && t.maxAttempts > 0
}

func loginKey(username string) string {
	return loginKeyPrefix + strings.ToLower(strings.TrimSpace(username))
}

// Allow returns a rate-limited error once the username used up its attempts.
func (t *LoginThrottle) Allow(ctx context.Context, username string) error {
	if !t.enabled() {
		return nil
	}
	n, err := t.client.Get(ctx, loginKey(username)).Int()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if n >= t.maxAttempts {
		return utils.NewRateLimited("Too many login attempts. Please try again later")
	}
	return nil
}

// Failed records one failed attempt. The window starts at the first failure.
func (t *LoginThrottle) Failed(ctx context.Context, username string) error {
	if !t.enabled() {
		return nil
	}
	key := loginKey(username)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return t.client.Expire(ctx, key, t.window).Err()
	}
	return nil
}

// Reset forgets the failures of username.
func (t *LoginThrottle) Reset(ctx context.Context, username string) error {
	if !t.enabled() {
		return nil
	}
	return t.client.Del(ctx, loginKey(username)).Err()
}
