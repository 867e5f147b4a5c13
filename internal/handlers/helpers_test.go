package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/clientdesk/clientdesk/internal/auth"
	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/database/testutil"
	"github.com/clientdesk/clientdesk/internal/middleware"
	"github.com/clientdesk/clientdesk/internal/services"
	"github.com/clientdesk/clientdesk/pkg/response"
)

type handlerFixture struct {
	engine   *gin.Engine
	sessions *iauth.SessionService
}

func setupHandlers(t *testing.T) handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)
	store := cache.NewDatabaseStore(db)

	users, err := services.NewUserService(db, store, services.DefaultUserTTLs)
	require.NoError(t, err)
	customers, err := services.NewCustomerService(db, store, services.DefaultCustomerTTLs)
	require.NoError(t, err)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret", Issuer: "clientdesk"})
	require.NoError(t, err)
	sessions, err := iauth.NewSessionService(users, jwtSvc, iauth.SessionConfig{
		Cache: iauth.NewSessionCache(store),
	})
	require.NoError(t, err)

	authHandler := NewAuthHandler(sessions)
	customerHandler := NewCustomerHandler(customers)
	userHandler := NewUserHandler(users)

	r := gin.New()
	r.POST("/api/auth/register", authHandler.Register)
	r.POST("/api/auth/login", authHandler.Login)

	requireAuth := middleware.Auth(sessions)
	r.GET("/api/auth/me", requireAuth, authHandler.Me)
	r.POST("/api/auth/logout", requireAuth, authHandler.Logout)

	r.GET("/api/customers", requireAuth, customerHandler.List)
	r.GET("/api/customers/stats", requireAuth, customerHandler.Stats)
	r.GET("/api/customers/:id", requireAuth, customerHandler.Get)
	r.POST("/api/customers", requireAuth, customerHandler.Create)
	r.PUT("/api/customers/:id", requireAuth, customerHandler.Update)
	r.DELETE("/api/customers/:id", requireAuth, customerHandler.Delete)

	r.GET("/api/users", requireAuth, userHandler.List)
	r.GET("/api/users/:id", requireAuth, userHandler.Get)
	r.PUT("/api/users/:id", requireAuth, userHandler.Update)
	r.DELETE("/api/users/:id", requireAuth, userHandler.Delete)

	return handlerFixture{engine: r, sessions: sessions}
}

func (fx handlerFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	fx.engine.ServeHTTP(rec, req)

	var envelope response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func (fx handlerFixture) registerAndLogin(t *testing.T) (string, string) {
	t.Helper()

	rec, envelope := fx.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Ana",
		"email":    "ana@x.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := envelope.Data.(map[string]any)
	token := data["token"].(string)
	user := data["user"].(map[string]any)
	return token, user["id"].(string)
}
