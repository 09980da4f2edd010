package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
	"github.com/quantdeck/quantdeck/pkg/response"
)

// RequireRole gates a route group behind a minimum privilege tier.
// Must run after Auth. This is the caller-boundary check; the
// application services re-validate privilege on every mutation.
func RequireRole(min entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := entity.ParseRole(c.GetString(CtxUserRoleKey))
		if err != nil || !role.AtLeast(min) {
			response.AbortError(c, http.StatusForbidden, "not permitted", nil)
			return
		}
		c.Next()
	}
}
