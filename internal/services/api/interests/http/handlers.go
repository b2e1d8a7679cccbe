// Package http provides http transport for interests
package http

import (
	stdhttp "net/http"

	"curately/internal/modkit/httpkit"
	svc "curately/internal/services/api/interests/service"
)

// Register mounts interests endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
}

type handlers struct{ svc svc.Service }

// @Summary Interest profile sorted by weight
// @Tags Interests
// @Produce json
// @Success 200 {array} domain.Interest "ok"
// @Router /interests [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), httpkit.MustUser(r))
}
