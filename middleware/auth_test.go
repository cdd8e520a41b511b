package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"velora/utils"

	"github.com/gin-gonic/gin"
)

func authRouter(allowedRoles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(allowedRoles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": ActorID(c), "role": ActorRole(c)})
	})
	return r
}

func doAuthRequest(t *testing.T, r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	token, err := utils.GenerateToken("cust-1", RoleCustomer, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	t.Run("valid token admits actor", func(t *testing.T) {
		w := doAuthRequest(t, authRouter(), "Bearer "+token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "cust-1") {
			t.Errorf("body = %s, want actor cust-1", w.Body.String())
		}
	})

	t.Run("role gate admits matching role", func(t *testing.T) {
		w := doAuthRequest(t, authRouter(RoleCustomer), "Bearer "+token)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("role gate rejects other role", func(t *testing.T) {
		w := doAuthRequest(t, authRouter(RoleProvider), "Bearer "+token)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		w := doAuthRequest(t, authRouter(), "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		w := doAuthRequest(t, authRouter(), "Bearer not-a-jwt")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := utils.GenerateToken("cust-1", RoleCustomer, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateToken() error: %v", err)
		}
		w := doAuthRequest(t, authRouter(), "Bearer "+expired)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}
