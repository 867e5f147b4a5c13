package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/clientdesk/clientdesk/internal/models"
	"github.com/clientdesk/clientdesk/internal/repository"
	"github.com/clientdesk/clientdesk/internal/services"
	"github.com/clientdesk/clientdesk/pkg/crypto"
	apperrors "github.com/clientdesk/clientdesk/pkg/errors"
	"github.com/clientdesk/clientdesk/pkg/logger"
	"github.com/clientdesk/clientdesk/pkg/metrics"
)

// DefaultSessionTTL is how long a session record issued at login stays cached.
const DefaultSessionTTL = 24 * time.Hour

// DefaultProfileRefreshTTL is the shorter lifetime applied when a session
// record is repopulated from the database after a cache miss.
const DefaultProfileRefreshTTL = time.Hour

// SessionConfig describes tunable behaviour for the SessionService.
type SessionConfig struct {
	SessionTTL        time.Duration
	ProfileRefreshTTL time.Duration
	Clock             func() time.Time
	Cache             SessionCache
}

// LoginResult bundles the signed token with the public view of the account.
type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicView `json:"user"`
}

// SessionService manages login, token validation, and the cached session
// records behind the profile endpoint.
type SessionService struct {
	users      *services.UserService
	jwt        *JWTService
	cache      SessionCache
	sessionTTL time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	log        *zap.Logger
}

// NewSessionService constructs a session manager backed by the user service
// and JWT issuer.
func NewSessionService(users *services.UserService, jwtService *JWTService, cfg SessionConfig) (*SessionService, error) {
	if users == nil {
		return nil, errors.New("session service: user service is required")
	}
	if jwtService == nil {
		return nil, errors.New("session service: jwt service is required")
	}

	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}

	refreshTTL := cfg.ProfileRefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = DefaultProfileRefreshTTL
	}

	clock := time.Now
	if cfg.Clock != nil {
		clock = cfg.Clock
	}

	return &SessionService{
		users:      users,
		jwt:        jwtService,
		cache:      cfg.Cache,
		sessionTTL: sessionTTL,
		refreshTTL: refreshTTL,
		now:        clock,
		log:        logger.WithModule("auth.session"),
	}, nil
}

// Register provisions a new account and signs it in immediately.
func (s *SessionService) Register(ctx context.Context, input services.CreateUserInput) (*LoginResult, error) {
	user, err := s.users.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, user)
}

// Login verifies credentials against the authoritative user record and issues
// a token. Unknown emails and bad passwords are indistinguishable to callers.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.AuthAttempts.WithLabelValues("failure").Inc()
			return nil, invalidCredentials()
		}
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, err
	}

	if !crypto.VerifyPassword(user.PasswordHash, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, invalidCredentials()
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return s.issueSession(ctx, user)
}

// Authenticate validates a bearer token and returns its claims. Every failure
// mode collapses into Unauthorized so callers leak nothing about the cause.
func (s *SessionService) Authenticate(token string) (*Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized.WithInternal(err)
	}
	return claims, nil
}

// Profile returns the session view for the authenticated subject. Warm
// sessions are served from cache untouched; on a miss the record is rebuilt
// from the database with the shorter refresh lifetime so deactivated accounts
// age out quickly.
func (s *SessionService) Profile(ctx context.Context, userID string) (models.PublicView, repository.Source, error) {
	if s.cache != nil {
		record, err := s.cache.Get(ctx, userID)
		if err == nil {
			metrics.CacheLookups.WithLabelValues("sessions", string(repository.SourceCache)).Inc()
			return publicViewFromRecord(record), repository.SourceCache, nil
		}
		if !errors.Is(err, errSessionCacheMiss) {
			s.log.Warn("session cache read failed", zap.Error(err))
		}
	}

	user, _, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.PublicView{}, "", apperrors.New(apperrors.ErrUnauthorized.Code, "account no longer exists", http.StatusUnauthorized)
		}
		return models.PublicView{}, "", err
	}

	metrics.CacheLookups.WithLabelValues("sessions", string(repository.SourceStore)).Inc()
	s.cacheSession(ctx, user, s.refreshTTL)
	return user.Public(), repository.SourceStore, nil
}

// Logout drops the cached session record. Logging out twice is a no-op.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn("session cache delete failed", zap.Error(err))
	}
	return nil
}

func (s *SessionService) issueSession(ctx context.Context, user *models.User) (*LoginResult, error) {
	view := user.Public()

	token, err := s.jwt.GenerateAccessToken(AccessTokenInput{
		UserID: view.ID,
		Email:  view.Email,
		Roles:  view.Roles,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "issue access token")
	}

	s.cacheSession(ctx, user, s.sessionTTL)
	return &LoginResult{Token: token, User: view}, nil
}

// cacheSession best-effort writes the session record; a failed cache never
// fails the request.
func (s *SessionService) cacheSession(ctx context.Context, user *models.User, ttl time.Duration) {
	if s.cache == nil {
		return
	}

	record := &SessionRecord{
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Roles:        append([]string(nil), user.Roles...),
		LastActivity: s.now(),
	}
	if err := s.cache.Set(ctx, record, ttl); err != nil {
		s.log.Warn("session cache write failed", zap.Error(err))
	}
}

// invalidCredentials is returned for both unknown emails and bad passwords so
// login probing cannot tell the two apart.
func invalidCredentials() *apperrors.AppError {
	return apperrors.New(apperrors.ErrUnauthorized.Code, "invalid credentials", http.StatusUnauthorized)
}

func publicViewFromRecord(record *SessionRecord) models.PublicView {
	return models.PublicView{
		ID:    record.UserID,
		Name:  record.Name,
		Email: record.Email,
		Roles: append([]string(nil), record.Roles...),
	}
}
