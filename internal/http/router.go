package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/handlers"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, rh *handlers.RoleHandlers, ph *handlers.PolicyHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.ClientContext())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/signup", ah.Signup)
	auth.POST("/signin", ah.Signin)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/verify-otp", ah.VerifyOTP)
	auth.POST("/reset-password", ah.ResetPassword)
	auth.POST("/refresh", ah.Refresh)

	session := auth.Group("").Use(jwtmw.WithJWT(), cb.Enforce())
	session.GET("/me", ah.Me)
	session.POST("/logout", ah.Logout)

	// hierarchy checks for role changes live in the role service
	roles := r.Group("/roles").Use(jwtmw.WithJWT())
	roles.POST("/assign", rh.Assign)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), middleware.RequireRole(domain.RoleAdmin), cb.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
