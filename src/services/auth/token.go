package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"employee-feedback/src/models"
)

const tokenIssuer = "employee-feedback"

// ErrInvalidToken is returned for malformed, tampered or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the JWT claims of an admin session.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Principal returns the admin the token was issued to.
func (c *Claims) Principal() models.Principal {
	return models.Principal{ID: c.Subject, Username: c.Username, Role: c.Role}
}

// Token is a signed session token.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// TokenIssuer issues and verifies session tokens.
type TokenIssuer interface {
	Issue(p models.Principal) (Token, error)
	Verify(token string) (*Claims, error)
}

// JWTIssuer signs HS256 tokens with a shared secret.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates an issuer. A nil clock defaults to time.Now.
func NewJWTIssuer(secret string, ttl time.Duration, now func() time.Time) *JWTIssuer {
	if now == nil {
		now = time.Now
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: now}
}

func (j *JWTIssuer) Issue(p models.Principal) (Token, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl).Truncate(time.Second)
	id := uuid.NewString()

	claims := Claims{
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    tokenIssuer,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ID: id, ExpiresAt: expiresAt}, nil
}

func (j *JWTIssuer) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
