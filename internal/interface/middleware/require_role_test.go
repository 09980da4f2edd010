package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
)

func performWithRole(t *testing.T, role string, min entity.Role) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", func(c *gin.Context) {
		if role != "" {
			c.Set(CtxUserRoleKey, role)
		}
		c.Next()
	}, RequireRole(min), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	t.Run("admin_passes_admin_floor", func(t *testing.T) {
		w := performWithRole(t, "admin", entity.RoleAdmin)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("owner_passes_admin_floor", func(t *testing.T) {
		w := performWithRole(t, "owner", entity.RoleAdmin)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("trader_blocked", func(t *testing.T) {
		w := performWithRole(t, "trader", entity.RoleAdmin)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing_role_blocked", func(t *testing.T) {
		w := performWithRole(t, "", entity.RoleAdmin)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("garbage_role_blocked", func(t *testing.T) {
		w := performWithRole(t, "root", entity.RoleAdmin)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
