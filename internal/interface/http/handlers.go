package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantdeck/quantdeck/internal/application"
	"github.com/quantdeck/quantdeck/internal/domain/entity"
	"github.com/quantdeck/quantdeck/internal/interface/middleware"
	"github.com/quantdeck/quantdeck/pkg/response"
)

// actorFrom rebuilds the acting identity from the context populated by
// the auth middleware.
func actorFrom(c *gin.Context) application.Actor {
	role, _ := entity.ParseRole(c.GetString(middleware.CtxUserRoleKey))
	return application.Actor{
		ID:    c.GetString(middleware.CtxUserIDKey),
		Email: c.GetString(middleware.CtxUserEmailKey),
		Role:  role,
	}
}

// writeServiceError maps the application error taxonomy onto HTTP
// statuses and writes the envelope.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		response.Error[any](c, http.StatusUnauthorized, "access denied", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "not permitted", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrPrecondition):
		response.Error[any](c, http.StatusConflict, "precondition failed", err.Error())
	case errors.Is(err, application.ErrUpstream):
		response.Error[any](c, http.StatusServiceUnavailable, "temporarily unavailable, retry later", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
