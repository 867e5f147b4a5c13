package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/database/testutil"
	"github.com/clientdesk/clientdesk/internal/repository"
	"github.com/clientdesk/clientdesk/internal/services"
	apperrors "github.com/clientdesk/clientdesk/pkg/errors"
)

type sessionFixture struct {
	sessions *SessionService
	users    *services.UserService
	store    cache.Store
}

func setupSessionService(t *testing.T) sessionFixture {
	db := testutil.MustOpenTestDB(t)
	return setupSessionServiceWithStore(t, db, cache.NewDatabaseStore(db))
}

func setupSessionServiceWithStore(t *testing.T, db *gorm.DB, store cache.Store) sessionFixture {
	t.Helper()

	users, err := services.NewUserService(db, cache.NewDatabaseStore(db), services.DefaultUserTTLs)
	require.NoError(t, err)

	jwtService, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "clientdesk"})
	require.NoError(t, err)

	sessions, err := NewSessionService(users, jwtService, SessionConfig{
		Cache: NewSessionCache(store),
	})
	require.NoError(t, err)

	return sessionFixture{sessions: sessions, users: users, store: store}
}

func registerAna(t *testing.T, fx sessionFixture) *LoginResult {
	t.Helper()

	result, err := fx.sessions.Register(context.Background(), services.CreateUserInput{
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return result
}

func TestRegisterIssuesTokenAndCachesSession(t *testing.T) {
	fx := setupSessionService(t)
	ctx := context.Background()

	result := registerAna(t, fx)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "ana@x.com", result.User.Email)
	require.Equal(t, []string{"user"}, result.User.Roles)

	claims, err := fx.sessions.Authenticate(result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)
	require.Equal(t, "ana@x.com", claims.Email)

	_, found, err := fx.store.Get(ctx, "session:"+result.User.ID)
	require.NoError(t, err)
	require.True(t, found)
}

func TestLoginVerifiesCredentials(t *testing.T) {
	fx := setupSessionService(t)
	ctx := context.Background()

	registerAna(t, fx)

	result, err := fx.sessions.Login(ctx, "ANA@x.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	// wrong password and unknown account are indistinguishable
	_, badPass := fx.sessions.Login(ctx, "ana@x.com", "wrong")
	require.ErrorIs(t, badPass, apperrors.ErrUnauthorized)

	_, noUser := fx.sessions.Login(ctx, "nobody@x.com", "s3cret-pass")
	require.ErrorIs(t, noUser, apperrors.ErrUnauthorized)
	require.Equal(t, badPass.Error(), noUser.Error())
}

func TestAuthenticateRejectsGarbageTokens(t *testing.T) {
	fx := setupSessionService(t)

	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		_, err := fx.sessions.Authenticate(token)
		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	}
}

func TestProfileServedFromCacheWhileWarm(t *testing.T) {
	fx := setupSessionService(t)
	ctx := context.Background()

	result := registerAna(t, fx)

	view, source, err := fx.sessions.Profile(ctx, result.User.ID)
	require.NoError(t, err)
	require.Equal(t, repository.SourceCache, source)
	require.Equal(t, result.User, view)
}

func TestProfileRepopulatesAfterLogout(t *testing.T) {
	fx := setupSessionService(t)
	ctx := context.Background()

	result := registerAna(t, fx)
	require.NoError(t, fx.sessions.Logout(ctx, result.User.ID))

	view, source, err := fx.sessions.Profile(ctx, result.User.ID)
	require.NoError(t, err)
	require.Equal(t, repository.SourceStore, source)
	require.Equal(t, result.User, view)

	// the miss rebuilt the session record
	_, source, err = fx.sessions.Profile(ctx, result.User.ID)
	require.NoError(t, err)
	require.Equal(t, repository.SourceCache, source)
}

func TestProfileForDeletedAccountIsUnauthorized(t *testing.T) {
	fx := setupSessionService(t)
	ctx := context.Background()

	result := registerAna(t, fx)
	require.NoError(t, fx.sessions.Logout(ctx, result.User.ID))
	require.NoError(t, fx.users.Delete(ctx, result.User.ID))

	_, _, err := fx.sessions.Profile(ctx, result.User.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogoutIsIdempotent(t *testing.T) {
	fx := setupSessionService(t)
	ctx := context.Background()

	result := registerAna(t, fx)
	require.NoError(t, fx.sessions.Logout(ctx, result.User.ID))
	require.NoError(t, fx.sessions.Logout(ctx, result.User.ID))
}

// brokenStore fails every operation, standing in for an unreachable Redis.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func (brokenStore) Delete(context.Context, ...string) error { return errors.New("cache down") }

func (brokenStore) FlushAll(context.Context) error { return errors.New("cache down") }

func TestSessionFlowsSurviveCacheOutage(t *testing.T) {
	fx := setupSessionServiceWithStore(t, testutil.MustOpenTestDB(t), brokenStore{})
	ctx := context.Background()

	result := registerAna(t, fx)
	require.NotEmpty(t, result.Token)

	view, source, err := fx.sessions.Profile(ctx, result.User.ID)
	require.NoError(t, err)
	require.Equal(t, repository.SourceStore, source)
	require.Equal(t, result.User, view)

	require.NoError(t, fx.sessions.Logout(ctx, result.User.ID))
}
