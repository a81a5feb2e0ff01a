package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecoelite/booking-backend/internal/users"
	pkgAuth "github.com/ecoelite/booking-backend/pkg/auth"
	"github.com/ecoelite/booking-backend/pkg/auth/session"
	"github.com/ecoelite/booking-backend/pkg/config"
	"github.com/ecoelite/booking-backend/pkg/db/models"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/metrics"
	"github.com/ecoelite/booking-backend/pkg/security"
	"github.com/ecoelite/booking-backend/pkg/types"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the session controllers and the
// auth middleware.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) (*LogoutResponse, error)
	ResolvePrincipal(ctx context.Context, token string) (*pkgAuth.Principal, error)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type profileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo    userRepository
	ProfileRepo profileRepository
	Sessions    session.Store
	JWTConfig   config.JWTConfig
	Metrics     *metrics.BookingMetrics
	Clock       func() time.Time
}

type service struct {
	users    userRepository
	profiles profileRepository
	sessions session.Store
	jwtCfg   config.JWTConfig
	metrics  *metrics.BookingMetrics
	now      func() time.Time
}

// NewService constructs the login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &service{
		users:    params.UserRepo,
		profiles: params.ProfileRepo,
		sessions: params.Sessions,
		jwtCfg:   params.JWTConfig,
		metrics:  params.Metrics,
		now:      params.Clock,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			s.metrics.IncLogin(metrics.LoginOutcomeFailure)
		}
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	sessionID, err := s.sessions.Open(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}
	token, err := pkgAuth.MintSessionToken(s.jwtCfg, now, pkgAuth.SessionTokenPayload{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	s.metrics.IncLogin(metrics.LoginOutcomeSuccess)
	return &LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.SessionTTL()),
		User:      users.FromModel(user),
		Navigation: types.Navigation{
			RedirectTo: RedirectAfterLogin,
			Message:    WelcomeMessage(user.Email),
		},
	}, nil
}

// authenticate resolves an email-shaped identifier to its account's username
// and falls back to the raw input when no account has that email. Every
// failure is reported as the same unauthorized error.
func (s *service) authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	username := strings.TrimSpace(identifier)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if strings.Contains(username, "@") {
		byEmail, err := s.users.FindByEmail(ctx, users.NormalizeEmail(username))
		switch {
		case err == nil:
			username = byEmail.Username
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user by email")
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// Logout revokes the session behind token when there is one. A missing or
// unusable token still produces a redirect.
func (s *service) Logout(ctx context.Context, token string) (*LogoutResponse, error) {
	resp := &LogoutResponse{Navigation: types.Navigation{RedirectTo: RedirectAfterLogout}}
	if strings.TrimSpace(token) == "" {
		return resp, nil
	}

	claims, err := pkgAuth.ParseSessionToken(s.jwtCfg, token)
	if err != nil {
		return resp, nil
	}
	revoked, err := s.sessions.Revoke(ctx, claims.SessionID())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	if revoked {
		resp.Message = LogoutMessage
	}
	return resp, nil
}

// ResolvePrincipal verifies token, checks its session is still open and loads
// the caller's account and client profile.
func (s *service) ResolvePrincipal(ctx context.Context, token string) (*pkgAuth.Principal, error) {
	claims, err := pkgAuth.ParseSessionToken(s.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}

	owner, err := s.sessions.Lookup(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}
	if owner != claims.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	profile, err := s.profiles.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client profile required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load client profile")
	}

	return &pkgAuth.Principal{
		UserID:    user.ID,
		ClientID:  profile.ID,
		Email:     user.Email,
		SessionID: claims.SessionID(),
	}, nil
}
