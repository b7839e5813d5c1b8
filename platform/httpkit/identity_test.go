package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func sessionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/sessions/:id", SessionAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sessionId": c.GetString(ContextSessionIDKey)})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionAuthAcceptsMatchingToken(t *testing.T) {
	r := sessionRouter(t)
	sessionID := uuid.New()

	token, err := NewSessionToken(testSecret, sessionID, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	w := doGet(r, "/sessions/"+sessionID.String(), token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSessionAuthRejectsMissingToken(t *testing.T) {
	r := sessionRouter(t)

	w := doGet(r, "/sessions/"+uuid.NewString(), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSessionAuthRejectsForeignSession(t *testing.T) {
	r := sessionRouter(t)

	token, err := NewSessionToken(testSecret, uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	w := doGet(r, "/sessions/"+uuid.NewString(), token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a token bound to another session, got %d", w.Code)
	}
}

func TestSessionAuthRejectsExpiredToken(t *testing.T) {
	r := sessionRouter(t)
	sessionID := uuid.New()

	token, err := NewSessionToken(testSecret, sessionID, -time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	w := doGet(r, "/sessions/"+sessionID.String(), token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for an expired token, got %d", w.Code)
	}
}

func TestSessionAuthRejectsWrongAudience(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", OperatorAuth(testSecret, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// A chat-session token must not open the operator surface.
	token, err := NewSessionToken(testSecret, uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	w := doGet(r, "/admin", token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong audience, got %d", w.Code)
	}
}

func TestOperatorAuthDisabledWithoutSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", OperatorAuth("", nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doGet(r, "/admin", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when the admin surface is disabled, got %d", w.Code)
	}
}
