package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/mocks"
)

func TestCasbinMW_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupPolicies  func(m *mocks.MockPolicyService)
		token          string
		method         string
		path           string
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "user reads own profile",
			token:          "access_u_USER",
			method:         http.MethodGet,
			path:           "/auth/me",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "user denied admin route",
			token:          "access_u_USER",
			method:         http.MethodGet,
			path:           "/admin/policies",
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "access denied",
		},
		{
			name:           "admin allowed admin route",
			token:          "access_a_ADMIN",
			method:         http.MethodGet,
			path:           "/admin/policies",
			expectedStatus: http.StatusOK,
		},
		{
			name: "enforcer error",
			setupPolicies: func(m *mocks.MockPolicyService) {
				m.CheckPermissionFunc = func(string, string, string) (bool, error) {
					return false, errors.New("adapter closed")
				}
			},
			token:          "access_a_ADMIN",
			method:         http.MethodGet,
			path:           "/admin/policies",
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "authorization check failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policies := mocks.NewMockPolicyService()
			if tt.setupPolicies != nil {
				tt.setupPolicies(policies)
			}
			auth := NewAuthMW(mocks.NewMockTokenService(), nil, quietLogger())
			cb := NewCasbinMW(policies, quietLogger())

			r := gin.New()
			r.Handle(tt.method, tt.path, auth.WithJWT(), cb.Enforce(), echoIdentity)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, decode(t, w)["message"])
			}
		})
	}
}

func TestCasbinMW_PassesRoleAndRequestPath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotRole, gotPath, gotMethod string
	policies := mocks.NewMockPolicyService()
	policies.CheckPermissionFunc = func(role, resource, action string) (bool, error) {
		gotRole, gotPath, gotMethod = role, resource, action
		return true, nil
	}

	r := gin.New()
	r.DELETE("/admin/policies/:id",
		NewAuthMW(mocks.NewMockTokenService(), nil, quietLogger()).WithJWT(),
		NewCasbinMW(policies, quietLogger()).Enforce(),
		echoIdentity)

	req := httptest.NewRequest(http.MethodDelete, "/admin/policies/42", nil)
	req.Header.Set("Authorization", "Bearer access_r_ROOT")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ROOT", gotRole)
	assert.Equal(t, "/admin/policies/42", gotPath)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestCasbinMW_WithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/auth/me", NewCasbinMW(mocks.NewMockPolicyService(), quietLogger()).Enforce(), echoIdentity)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLoggerAndClientContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	log, hook := test.NewNullLogger()
	var client *domain.ClientContext

	r := gin.New()
	r.Use(RequestLogger(log), ClientContext())
	r.GET("/ping", func(c *gin.Context) {
		client = domain.ClientFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("User-Agent", "curl/8.4.0")
	req.RemoteAddr = "203.0.113.7:4242"
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, client)
	assert.Equal(t, "203.0.113.7", client.IPAddress)
	assert.Equal(t, "curl/8.4.0", client.UserAgent)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "http_request", entry.Message)
	assert.Equal(t, http.StatusNoContent, entry.Data["status"])
	assert.Equal(t, "/ping", entry.Data["path"])

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, "warning", hook.LastEntry().Level.String())
}
