package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/response"
)

// CasbinMW checks (role, path, method) against the route policies
type CasbinMW struct {
	policies domain.PolicyService
	log      *logrus.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policies domain.PolicyService, log *logrus.Logger) *CasbinMW {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CasbinMW{policies: policies, log: log}
}

// Enforce returns the casbin authorization middleware. It must run after WithJWT.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, msgMissingToken)
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		allowed, err := mw.policies.CheckPermission(identity.Role.String(), path, method)
		if err != nil {
			mw.log.WithError(err).WithFields(logrus.Fields{"path": path, "method": method}).Error("authorization check failed")
			response.Fail(c, http.StatusInternalServerError, "authorization check failed")
			return
		}
		if !allowed {
			mw.log.WithFields(logrus.Fields{
				"user_id": identity.UserID,
				"role":    identity.Role,
				"path":    path,
				"method":  method,
			}).Info("access denied by policy")
			response.Fail(c, http.StatusForbidden, "access denied")
			return
		}

		c.Next()
	}
}
