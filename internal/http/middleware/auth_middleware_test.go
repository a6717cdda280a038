package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/config"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/cookies"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/mocks"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func cookiePolicy(enabled bool) *cookies.Policy {
	return cookies.NewPolicy(config.CookieConfig{Enabled: enabled}, 15*time.Minute, time.Hour)
}

// echoIdentity responds with the identity attached by the middleware
func echoIdentity(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusTeapot, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": identity.UserID, "role": identity.Role, "user_id": c.GetString(ContextUserID)})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		cookiesEnabled bool
		setupRequest   func(r *http.Request)
		expectedStatus int
		expectedMsg    string
		expectedID     string
	}{
		{
			name:           "valid bearer token",
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer access_u1_ADMIN") },
			expectedStatus: http.StatusOK,
			expectedID:     "u1",
		},
		{
			name:           "scheme is case-insensitive",
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "bearer access_u1_USER") },
			expectedStatus: http.StatusOK,
			expectedID:     "u1",
		},
		{
			name:           "missing header",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "missing or invalid token",
		},
		{
			name:           "wrong scheme",
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") },
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "missing or invalid token",
		},
		{
			name:           "empty bearer",
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") },
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "missing or invalid token",
		},
		{
			name:           "invalid token",
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer forged") },
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "invalid or expired token",
		},
		{
			name:           "refresh token is not an access token",
			setupRequest:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer refresh_u1_USER") },
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "invalid or expired token",
		},
		{
			name:           "cookie fallback",
			cookiesEnabled: true,
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: "access_u2_USER"})
			},
			expectedStatus: http.StatusOK,
			expectedID:     "u2",
		},
		{
			name:           "cookie ignored when transport disabled",
			cookiesEnabled: false,
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: "access_u2_USER"})
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "missing or invalid token",
		},
		{
			name:           "malformed header does not fall back to cookie",
			cookiesEnabled: true,
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Token abc")
				r.AddCookie(&http.Cookie{Name: "access_token", Value: "access_u2_USER"})
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "missing or invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAuthMW(mocks.NewMockTokenService(), cookiePolicy(tt.cookiesEnabled), quietLogger())
			r := gin.New()
			r.GET("/protected", mw.WithJWT(), echoIdentity)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.setupRequest(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedMsg != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.expectedMsg, body["message"])
			}
			if tt.expectedID != "" {
				assert.Equal(t, tt.expectedID, body["id"])
				assert.Equal(t, tt.expectedID, body["user_id"])
			}
		})
	}
}

func TestAuthMiddleware_LogsExpiry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	log, hook := test.NewNullLogger()
	tokens := mocks.NewMockTokenService()
	tokens.VerifyAccessFunc = func(string) (*domain.TokenClaims, error) { return nil, domain.ErrTokenExpired }

	r := gin.New()
	r.GET("/protected", NewAuthMW(tokens, nil, log).WithJWT(), echoIdentity)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid or expired token", decode(t, w)["message"], "clients never learn why")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "expired", hook.LastEntry().Data["reason"])
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		token          string
		min            domain.Role
		expectedStatus int
	}{
		{"admin on admin route", "access_a_ADMIN", domain.RoleAdmin, http.StatusOK},
		{"root on admin route", "access_r_ROOT", domain.RoleAdmin, http.StatusOK},
		{"user on admin route", "access_u_USER", domain.RoleAdmin, http.StatusForbidden},
		{"admin on root route", "access_a_ADMIN", domain.RoleRoot, http.StatusForbidden},
		{"user on user route", "access_u_USER", domain.RoleUser, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAuthMW(mocks.NewMockTokenService(), nil, quietLogger())
			r := gin.New()
			r.GET("/guarded", mw.WithJWT(), RequireRole(tt.min), echoIdentity)

			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusForbidden {
				assert.Equal(t, "insufficient role permissions", decode(t, w)["message"])
			}
		})
	}
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/guarded", RequireRole(domain.RoleUser), echoIdentity)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
