package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quantdeck/quantdeck/internal/application"
	"github.com/quantdeck/quantdeck/internal/domain/entity"
	"github.com/quantdeck/quantdeck/pkg/response"
	"github.com/quantdeck/quantdeck/pkg/validation"
)

type AdminHandler struct {
	Svc    *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin trader"`
}

type approvalRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

// ListUsers GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":           u.ID,
			"email":        u.Email,
			"display_name": u.DisplayName,
			"avatar_url":   u.AvatarURL,
			"role":         u.Role,
			"created_at":   u.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "users", nil)
}

// UpdateUserRole PUT /api/admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	targetID := c.Param("id")
	if err := h.Svc.UpdateUserRole(c.Request.Context(), actorFrom(c), targetID, entity.Role(req.Role)); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": targetID, "role": req.Role}, "role updated", nil)
}

// ListPendingStrategies GET /api/admin/strategies
func (h *AdminHandler) ListPendingStrategies(c *gin.Context) {
	list, err := h.Svc.ListStrategiesForApproval(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, strategyListJSON(list), "pending strategies", nil)
}

// UpdateStrategyApproval PUT /api/admin/strategies/:id/approval
func (h *AdminHandler) UpdateStrategyApproval(c *gin.Context) {
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	strategyID := c.Param("id")
	if err := h.Svc.UpdateStrategyApproval(c.Request.Context(), actorFrom(c), strategyID, entity.ApprovalState(req.Decision)); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": strategyID, "approval_state": req.Decision}, "approval updated", nil)
}

// Stats GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "system stats", nil)
}

// SearchStrategies GET /api/admin/strategies/search?q=&size=
func (h *AdminHandler) SearchStrategies(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", gin.H{"q": "query string is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchStrategies(c.Request.Context(), actorFrom(c), q, size)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}
