package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCustomerCRUDFlow(t *testing.T) {
	fx := setupHandlers(t)
	token, _ := fx.registerAndLogin(t)

	rec, envelope := fx.do(t, http.MethodPost, "/api/customers", token, gin.H{
		"name":  "Ana Souza",
		"email": "ana.souza@example.com",
		"phone": "555-0101",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := envelope.Data.(map[string]any)
	customerID := created["id"].(string)
	require.NotEmpty(t, customerID)

	// first read comes from the store, second from cache
	rec, envelope = fx.do(t, http.MethodGet, "/api/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "store", envelope.Source)

	rec, envelope = fx.do(t, http.MethodGet, "/api/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cache", envelope.Source)

	rec, envelope = fx.do(t, http.MethodPut, "/api/customers/"+customerID, token, gin.H{
		"phone": "555-0202",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := envelope.Data.(map[string]any)
	require.Equal(t, "555-0202", updated["phone"])

	// the write invalidated the cached entry
	rec, envelope = fx.do(t, http.MethodGet, "/api/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "store", envelope.Source)
	require.Equal(t, "555-0202", envelope.Data.(map[string]any)["phone"])

	rec, _ = fx.do(t, http.MethodDelete, "/api/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope = fx.do(t, http.MethodGet, "/api/customers/"+customerID, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestCustomerListAndStats(t *testing.T) {
	fx := setupHandlers(t)
	token, _ := fx.registerAndLogin(t)

	for _, payload := range []gin.H{
		{"name": "Ana", "email": "ana.c@example.com", "phone": "555-0101"},
		{"name": "Bruno", "email": "bruno@example.com", "notes": "prefers email"},
	} {
		rec, _ := fx.do(t, http.MethodPost, "/api/customers", token, payload)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, envelope := fx.do(t, http.MethodGet, "/api/customers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "store", envelope.Source)
	require.Len(t, envelope.Data.([]any), 2)

	rec, envelope = fx.do(t, http.MethodGet, "/api/customers/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := envelope.Data.(map[string]any)
	require.EqualValues(t, 2, stats["total"])
	require.EqualValues(t, 1, stats["withPhone"])
	require.EqualValues(t, 1, stats["withNotes"])

	rec, envelope = fx.do(t, http.MethodGet, "/api/customers/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cache", envelope.Source)
}

func TestCustomerValidationAndConflicts(t *testing.T) {
	fx := setupHandlers(t)
	token, _ := fx.registerAndLogin(t)

	rec, envelope := fx.do(t, http.MethodPost, "/api/customers", token, gin.H{
		"email": "missing.name@example.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)

	rec, _ = fx.do(t, http.MethodPost, "/api/customers", token, gin.H{
		"name":  "Ana",
		"email": "ana.c@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, envelope = fx.do(t, http.MethodPost, "/api/customers", token, gin.H{
		"name":  "Clone",
		"email": "ana.c@example.com",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestCustomerEndpointsRequireAuth(t *testing.T) {
	fx := setupHandlers(t)

	rec, _ := fx.do(t, http.MethodGet, "/api/customers", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = fx.do(t, http.MethodPost, "/api/customers", "", gin.H{"name": "Ana", "email": "a@b.c"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
