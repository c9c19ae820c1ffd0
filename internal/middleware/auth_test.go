package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mini-rec/backend/internal/auth"
	"github.com/mini-rec/backend/internal/middleware"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	verifier := &auth.StaticVerifier{Tokens: map[string]string{"good": "uid-1"}}
	router := gin.New()
	router.Use(middleware.Auth(verifier))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet(middleware.ContextUserID).(string))
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthRouter()

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer good", http.StatusOK, "uid-1"},
		{"lowercase scheme", "bearer good", http.StatusOK, "uid-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic good", http.StatusUnauthorized, ""},
		{"no token part", "Bearer", http.StatusUnauthorized, ""},
		{"forged token", "Bearer bad", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, w.Body.String())
			}
		})
	}
}
