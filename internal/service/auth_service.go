package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/recipe-service/internal/auth"
	"github.com/spec-kit/recipe-service/internal/config"
	"github.com/spec-kit/recipe-service/internal/domain"
	"github.com/spec-kit/recipe-service/internal/events"
	"github.com/spec-kit/recipe-service/internal/ratelimit"
	"github.com/spec-kit/recipe-service/internal/repository"
)

// uniqueViolation is the Postgres error code raised when a concurrent signup
// slips past the existence check and hits the unique index on email.
const uniqueViolation = "23505"

// AuthService coordinates signup, login, and token refresh.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	limiter    *ratelimit.LoginLimiter
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Limiter    *ratelimit.LoginLimiter
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service. Token manager construction validates the
// signing secret, so a weak or malformed secret fails here at startup.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	tokenMgr, err := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tokenMgr,
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
	}, nil
}

// Signup registers a new account and issues its first token pair.
//
// The existence check below is not atomic with Create: two concurrent signups
// for the same email can both pass it. The unique index on users.email is the
// backstop; its violation is mapped back to ErrDuplicateIdentity.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateIdentity
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventUserRegistered, user)
	return session, nil
}

// Login authenticates credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	if !s.limiter.Allow(ctx, email) {
		return nil, ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}
	s.limiter.Reset(ctx, email)
	s.publish(ctx, events.EventUserLoggedIn, user)
	return session, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// submitted refresh token is returned unchanged; refresh tokens are not
// rotated here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthSession, error) {
	if !s.tokenMgr.IsRefreshValid(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	email := s.tokenMgr.ExtractSubject(refreshToken)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	accessToken, _, err := s.tokenMgr.ReissueAccessFromRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	s.publish(ctx, events.EventTokenRefreshed, user)
	return &domain.AuthSession{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthService) issueSession(user *domain.User) (*domain.AuthSession, error) {
	accessToken, _, err := s.tokenMgr.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.tokenMgr.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthSession{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, user *domain.User) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, user.ID, user.Email))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
