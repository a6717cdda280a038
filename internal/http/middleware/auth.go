package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/cookies"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/response"
)

// AuthMW wraps the token service and cookie policy for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
	cookies  *cookies.Policy
	log      *logrus.Logger
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, policy *cookies.Policy, log *logrus.Logger) *AuthMW {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthMW{
		tokenSvc: tokenSvc,
		cookies:  policy,
		log:      log,
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.cookies, mw.log)
}

// RequireRole rejects callers below min. It must run after WithJWT.
func RequireRole(min domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, msgMissingToken)
			return
		}
		if !identity.Role.IsAtLeast(min) {
			response.Fail(c, http.StatusForbidden, domain.ErrInsufficientRole.Message)
			return
		}
		c.Next()
	}
}
