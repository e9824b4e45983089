package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"employee-feedback/src/models"
	"employee-feedback/src/utils"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestParseCredentials(t *testing.T) {
	raw := "alice:" + hash(t, "s3cret") + ", bob:" + hash(t, "hunter2") + ":viewer"
	creds, err := ParseCredentials(raw)
	require.NoError(t, err)

	p, ok := creds.Check("alice", "s3cret")
	require.True(t, ok)
	assert.Equal(t, models.Principal{ID: "1", Username: "alice", Role: models.RoleAdmin}, *p)

	p, ok = creds.Check("bob", "hunter2")
	require.True(t, ok)
	assert.Equal(t, "viewer", p.Role)
	assert.Equal(t, "2", p.ID)

	_, ok = creds.Check("alice", "hunter2")
	assert.False(t, ok)
	_, ok = creds.Check("mallory", "s3cret")
	assert.False(t, ok)
}

func TestParseCredentialsRejectsBadEntries(t *testing.T) {
	good := hash(t, "pw")
	for _, raw := range []string{
		"alice",
		"alice:not-a-hash",
		":" + good,
		"alice:" + good + ",alice:" + good,
		"a:b:c:d",
		" , ",
	} {
		_, err := ParseCredentials(raw)
		assert.Error(t, err, raw)
	}
}

func TestDevelopmentCredentials(t *testing.T) {
	creds, err := ParseCredentials("")
	require.NoError(t, err)

	p, ok := creds.Check("admin", "admin123")
	require.True(t, ok)
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, models.RoleAdmin, p.Role)

	_, ok = creds.Check("admin", "admin")
	assert.False(t, ok)
}

func TestJWTIssuerRoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour, clockAt(testNow))
	admin := models.Principal{ID: "1", Username: "admin", Role: models.RoleAdmin}

	token, err := issuer.Issue(admin)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), token.ExpiresAt)
	assert.NotEmpty(t, token.ID)

	claims, err := issuer.Verify(token.Value)
	require.NoError(t, err)
	assert.Equal(t, admin, claims.Principal())
	assert.Equal(t, token.ID, claims.ID)

	other, err := issuer.Issue(admin)
	require.NoError(t, err)
	assert.NotEqual(t, token.ID, other.ID)
}

func TestJWTIssuerRejectsBadTokens(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour, clockAt(testNow))
	admin := models.Principal{ID: "1", Username: "admin", Role: models.RoleAdmin}
	token, err := issuer.Issue(admin)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := NewJWTIssuer("other", time.Hour, clockAt(testNow)).Issue(admin)
		require.NoError(t, err)
		_, err = issuer.Verify(forged.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		viewer, err := issuer.Issue(models.Principal{ID: "2", Username: "bob", Role: "viewer"})
		require.NoError(t, err)
		a := strings.Split(token.Value, ".")
		b := strings.Split(viewer.Value, ".")
		_, err = issuer.Verify(strings.Join([]string{a[0], b[1], a[2]}, "."))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTIssuer("secret", time.Hour, clockAt(testNow.Add(2*time.Hour)))
		_, err := later.Verify(token.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			Username: "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "x",
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Verify(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = issuer.Verify("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRevocations(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rev := NewRevocations(db, clockAt(testNow))
	ctx := context.Background()

	mock.ExpectSet("auth:revoked:abc", "1", 30*time.Minute).SetVal("OK")
	require.NoError(t, rev.Revoke(ctx, "abc", testNow.Add(30*time.Minute)))

	require.NoError(t, rev.Revoke(ctx, "old", testNow.Add(-time.Minute)), "expired tokens are not stored")

	mock.ExpectExists("auth:revoked:abc").SetVal(1)
	revoked, err := rev.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mock.ExpectExists("auth:revoked:def").SetVal(0)
	revoked, err = rev.IsRevoked(ctx, "def")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevocationsDisabled(t *testing.T) {
	rev := NewRevocations(nil, nil)
	assert.False(t, rev.Enabled())
	assert.NoError(t, rev.Revoke(context.Background(), "abc", testNow.Add(time.Hour)))
	revoked, err := rev.IsRevoked(context.Background(), "abc")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestLoginThrottle(t *testing.T) {
	db, mock := redismock.NewClientMock()
	throttle := NewLoginThrottle(db, 3, 15*time.Minute)
	ctx := context.Background()

	mock.ExpectGet("auth:login:admin").RedisNil()
	assert.NoError(t, throttle.Allow(ctx, "Admin"))

	mock.ExpectIncr("auth:login:admin").SetVal(1)
	mock.ExpectExpire("auth:login:admin", 15*time.Minute).SetVal(true)
	assert.NoError(t, throttle.Failed(ctx, "admin"))

	mock.ExpectIncr("auth:login:admin").SetVal(2)
	assert.NoError(t, throttle.Failed(ctx, "admin"))

	mock.ExpectGet("auth:login:admin").SetVal("3")
	err := throttle.Allow(ctx, "admin")
	assert.True(t, utils.IsKind(err, utils.KindRateLimited))

	mock.ExpectDel("auth:login:admin").SetVal(1)
	assert.NoError(t, throttle.Reset(ctx, "admin"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func newTestService(t *testing.T, deps Dependencies) *Service {
	t.Helper()
	creds, err := ParseCredentials("admin:" + hash(t, "admin123"))
	require.NoError(t, err)
	deps.Credentials = creds
	deps.Issuer = NewJWTIssuer("secret", time.Hour, clockAt(testNow))
	return NewService(deps)
}

func TestServiceLoginWithoutRedis(t *testing.T) {
	svc := newTestService(t, Dependencies{})
	ctx := context.Background()

	session, err := svc.Login(ctx, models.LoginRequest{Username: " admin ", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Admin.Username)
	assert.Equal(t, testNow.Add(time.Hour), session.ExpiresAt)

	claims, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Admin, claims.Principal())

	require.NoError(t, svc.Logout(ctx, claims))
	_, err = svc.Authenticate(ctx, session.Token)
	assert.NoError(t, err, "without redis logout cannot revoke")

	_, err = svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "nope"})
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))
	assert.EqualError(t, err, "Invalid username or password")

	_, err = svc.Login(ctx, models.LoginRequest{Username: "admin"})
	assert.EqualError(t, err, "Username and password are required")

	_, err = svc.Authenticate(ctx, "")
	assert.EqualError(t, err, "No token provided")
	_, err = svc.Authenticate(ctx, "abc")
	assert.EqualError(t, err, "Invalid or expired token")
}

func TestServiceLogoutRevokes(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := newTestService(t, Dependencies{Revocations: NewRevocations(db, clockAt(testNow))})
	ctx := context.Background()

	session, err := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	claims, err := svc.issuer.Verify(session.Token)
	require.NoError(t, err)

	key := "auth:revoked:" + claims.ID
	mock.ExpectSet(key, "1", time.Hour).SetVal("OK")
	require.NoError(t, svc.Logout(ctx, claims))

	mock.ExpectExists(key).SetVal(1)
	_, err = svc.Authenticate(ctx, session.Token)
	assert.EqualError(t, err, "Token has been revoked")

	mock.ExpectExists(key).SetErr(errors.New("connection refused"))
	_, err = svc.Authenticate(ctx, session.Token)
	assert.True(t, utils.IsKind(err, utils.KindStoreUnavailable))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceLoginThrottled(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := newTestService(t, Dependencies{Throttle: NewLoginThrottle(db, 5, time.Minute)})

	mock.ExpectGet("auth:login:admin").SetVal("5")
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
	assert.True(t, utils.IsKind(err, utils.KindRateLimited))

	mock.ExpectGet("auth:login:admin").SetVal("1")
	mock.ExpectIncr("auth:login:admin").SetVal(2)
	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))

	assert.NoError(t, mock.ExpectationsWereMet())
}
