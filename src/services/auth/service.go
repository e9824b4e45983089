package auth

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"employee-feedback/src/models"
	"employee-feedback/src/utils"
)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Admin     models.Principal
}

// Service implements login, logout and token verification.
type Service struct {
	credentials CredentialStore
	issuer      TokenIssuer
	revocations *Revocations
	throttle    *LoginThrottle
	logger      *zap.Logger
}

// Dependencies bundles the collaborators of Service. Revocations and
// Throttle may be nil when Redis is not configured.
type Dependencies struct {
	Credentials CredentialStore
	Issuer      TokenIssuer
	Revocations *Revocations
	Throttle    *LoginThrottle
	Logger      *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		credentials: deps.Credentials,
		issuer:      deps.Issuer,
		revocations: deps.Revocations,
		throttle:    deps.Throttle,
		logger:      logger,
	}
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := utils.Validate(&req); err != nil {
		return nil, utils.NewValidationError("Username and password are required", utils.AsAppError(err).Details)
	}

	if err := s.throttle.Allow(ctx, req.Username); err != nil {
		if utils.IsKind(err, utils.KindRateLimited) {
			s.logger.Warn("login throttled", zap.String("username", req.Username))
			return nil, err
		}
		s.logger.Warn("login throttle unavailable", zap.Error(err))
	}

	principal, ok := s.credentials.Check(req.Username, req.Password)
	if !ok {
		if err := s.throttle.Failed(ctx, req.Username); err != nil {
			s.logger.Warn("failed to record login attempt", zap.Error(err))
		}
		s.logger.Info("login rejected", zap.String("username", req.Username))
		return nil, utils.NewUnauthorized("Invalid username or password")
	}
	if err := s.throttle.Reset(ctx, req.Username); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	token, err := s.issuer.Issue(*principal)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	s.logger.Info("admin logged in", zap.String("username", principal.Username), zap.String("tokenId", token.ID))
	return &Session{Token: token.Value, ExpiresAt: token.ExpiresAt, Admin: *principal}, nil
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, utils.NewUnauthorized("No token provided")
	}
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, utils.NewUnauthorized("Invalid or expired token")
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, utils.NewStoreUnavailable("check token revocation", err)
	}
	if revoked {
		return nil, utils.NewUnauthorized("Token has been revoked")
	}
	return claims, nil
}

// Logout revokes the token behind claims.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if !s.revocations.Enabled() {
		s.logger.Warn("logout without redis; token stays valid until expiry", zap.String("tokenId", claims.ID))
		return nil
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revocations.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return utils.NewStoreUnavailable("revoke token", err)
	}
	s.logger.Info("admin logged out", zap.String("username", claims.Username), zap.String("tokenId", claims.ID))
	return nil
}
