package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	appErrors "github.com/clientdesk/clientdesk/pkg/errors"
)

func performJSON(t *testing.T, write func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	write(c)

	var body Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, body
}

func TestSuccessEnvelope(t *testing.T) {
	rec, body := performJSON(t, func(c *gin.Context) {
		Success(c, http.StatusOK, map[string]string{"name": "Ana"})
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !body.Success {
		t.Fatal("expected success=true")
	}
	if body.Timestamp == "" {
		t.Fatal("expected timestamp to be set")
	}
}

func TestSuccessWithSourceTag(t *testing.T) {
	_, body := performJSON(t, func(c *gin.Context) {
		SuccessWithSource(c, http.StatusOK, []string{}, "cache")
	})

	if body.Source != "cache" {
		t.Fatalf("expected source=cache, got %q", body.Source)
	}
}

func TestErrorMapsAppError(t *testing.T) {
	rec, body := performJSON(t, func(c *gin.Context) {
		Error(c, appErrors.ErrConflict)
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body.Success {
		t.Fatal("expected success=false")
	}
	if body.Error == nil || body.Error.Code != appErrors.ErrConflict.Code {
		t.Fatalf("unexpected error info: %+v", body.Error)
	}
}

func TestErrorDefaultsToInternal(t *testing.T) {
	rec, body := performJSON(t, func(c *gin.Context) {
		Error(c, errors.New("boom"))
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.Error == nil || body.Error.Code != appErrors.ErrInternalServer.Code {
		t.Fatalf("unexpected error info: %+v", body.Error)
	}
}
