package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/quantdeck/quantdeck/internal/application"
	"github.com/quantdeck/quantdeck/internal/domain/entity"
	"github.com/quantdeck/quantdeck/pkg/response"
	"github.com/quantdeck/quantdeck/pkg/validation"
)

type StrategyHandler struct {
	Svc    *application.StrategyService
	Logger *logrus.Logger
}

func NewStrategyHandler(svc *application.StrategyService, logger *logrus.Logger) *StrategyHandler {
	return &StrategyHandler{Svc: svc, Logger: logger}
}

type submitStrategyRequest struct {
	Name         string `json:"name" binding:"max=100"`
	StrategyCode string `json:"strategy_code" binding:"required,min=10"`
}

type runStateRequest struct {
	Status string `json:"status" binding:"required,oneof=running stopped"`
}

func strategyJSON(s *entity.Strategy) gin.H {
	return gin.H{
		"id":             s.ID,
		"user_id":        s.UserID,
		"name":           s.Name,
		"strategy_code":  s.StrategyCode,
		"analysis":       s.Analysis,
		"status":         s.RunState,
		"approval_state": s.ApprovalState,
		"owner_name":     s.OwnerName,
		"owner_email":    s.OwnerEmail,
		"created_at":     s.CreatedAt,
	}
}

func strategyListJSON(list []*entity.Strategy) []gin.H {
	out := make([]gin.H, 0, len(list))
	for _, s := range list {
		out = append(out, strategyJSON(s))
	}
	return out
}

// Submit POST /api/strategies
func (h *StrategyHandler) Submit(c *gin.Context) {
	var req submitStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	s, err := h.Svc.Submit(c.Request.Context(), actorFrom(c), req.Name, req.StrategyCode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, strategyJSON(s), "strategy analyzed", nil)
}

// ListMine GET /api/strategies
func (h *StrategyHandler) ListMine(c *gin.Context) {
	list, err := h.Svc.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, strategyListJSON(list), "strategies", nil)
}

// Get GET /api/strategies/:id
func (h *StrategyHandler) Get(c *gin.Context) {
	s, err := h.Svc.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, strategyJSON(s), "strategy", nil)
}

// UpdateRunState PUT /api/strategies/:id/status
func (h *StrategyHandler) UpdateRunState(c *gin.Context) {
	var req runStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.UpdateRunState(c.Request.Context(), actorFrom(c), c.Param("id"), entity.RunState(req.Status))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status}, "run state updated", nil)
}
