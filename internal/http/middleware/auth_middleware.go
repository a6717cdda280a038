package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/cookies"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/response"
)

// Context keys set for authenticated requests
const (
	ContextIdentity  = "identity"
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

const (
	msgMissingToken = "missing or invalid token"
	msgInvalidToken = "invalid or expired token"
)

// AuthMiddleware verifies the access token from the Authorization header,
// falling back to the access cookie when cookie transport is enabled.
func AuthMiddleware(tokenSvc domain.TokenService, policy *cookies.Policy, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c, policy)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, msgMissingToken)
			return
		}

		claims, err := tokenSvc.VerifyAccess(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, domain.ErrTokenExpired) {
				reason = "expired"
			}
			log.WithFields(logrus.Fields{
				"reason":    reason,
				"path":      c.Request.URL.Path,
				"client_ip": c.ClientIP(),
			}).Warn("access token rejected")
			response.Fail(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		c.Set(ContextIdentity, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role.String())

		c.Next()
	}
}

// extractToken reads "Authorization: Bearer <token>". A present but
// malformed header never falls back to the cookie.
func extractToken(c *gin.Context, policy *cookies.Policy) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		token := policy.AccessToken(c)
		return token, token != ""
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentIdentity returns the claims attached by AuthMiddleware
func CurrentIdentity(c *gin.Context) (*domain.TokenClaims, bool) {
	v, exists := c.Get(ContextIdentity)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*domain.TokenClaims)
	return claims, ok && claims != nil
}
