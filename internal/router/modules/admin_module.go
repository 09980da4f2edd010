package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantdeck/quantdeck/internal/container"
	"github.com/quantdeck/quantdeck/internal/domain/entity"
	handlers "github.com/quantdeck/quantdeck/internal/interface/http"
	"github.com/quantdeck/quantdeck/internal/interface/middleware"
	"github.com/quantdeck/quantdeck/pkg/helpers"
)

// AdminModule wires the approval-desk routes. Every route sits behind
// the session middleware plus a role floor of admin; the services
// re-check the actor's role so a stale route table cannot widen access.

type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	admin.Use(
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.PUT("/users/:id/role", m.Handler.UpdateUserRole)
		admin.GET("/strategies", m.Handler.ListPendingStrategies)
		admin.PUT("/strategies/:id/approval", m.Handler.UpdateStrategyApproval)
		admin.GET("/strategies/search", m.Handler.SearchStrategies)
		admin.GET("/stats", m.Handler.Stats)
	}
}
