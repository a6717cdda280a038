package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/middleware"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/response"
)

// RoleHandlers handles role assignment
type RoleHandlers struct {
	roleSvc domain.RoleService
	resp    *response.Writer
}

func NewRoleHandlers(roleSvc domain.RoleService, resp *response.Writer) *RoleHandlers {
	return &RoleHandlers{roleSvc: roleSvc, resp: resp}
}

// Assign handles POST /roles/assign. The hierarchy rules live in the role
// service; this handler only needs an authenticated caller.
func (h *RoleHandlers) Assign(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	var req domain.AssignRoleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.resp.Error(c, err)
		return
	}

	user, err := h.roleSvc.AssignRole(c.Request.Context(), identity.UserID, req.UserID, req.Role)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Role updated successfully",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
