package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/response"
)

type PolicyHandlers struct {
	policySvc domain.PolicyService
	resp      *response.Writer
}

func NewPolicyHandlers(policySvc domain.PolicyService, resp *response.Writer) *PolicyHandlers {
	return &PolicyHandlers{policySvc: policySvc, resp: resp}
}

type policyReq struct {
	Sub string `json:"sub"`
	Obj string `json:"obj"`
	Act string `json:"act"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	policies := h.policySvc.GetPolicies()
	out := make([]policyReq, 0, len(policies))
	for _, p := range policies {
		if len(p) < 3 {
			continue
		}
		out = append(out, policyReq{Sub: p[0], Obj: p[1], Act: p[2]})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "policies": out})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadBody(c, err)
		return
	}
	if err := h.policySvc.AddPolicy(r.Sub, r.Obj, r.Act); err != nil {
		h.resp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Policy added"})
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadBody(c, err)
		return
	}
	if err := h.policySvc.RemovePolicy(r.Sub, r.Obj, r.Act); err != nil {
		h.resp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Policy removed"})
}
