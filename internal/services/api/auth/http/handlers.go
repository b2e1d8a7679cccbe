// Package http provides http transport for auth
package http

import (
	stdhttp "net/http"

	"curately/internal/modkit/httpkit"
	"curately/internal/services/api/auth/domain"
)

// Register mounts auth endpoints on the given router
func Register(r httpkit.Router) {
	h := &handlers{}

	httpkit.Get(r, "/me", h.me)
}

type handlers struct{}

// @Summary Who am I
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Identity "ok"
// @Failure 401 {object} errors.Wire "missing or invalid token"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	return domain.Identity{UserID: httpkit.MustUser(r)}, nil
}
