// Package http provides http transport for feeds
package http

import (
	stdhttp "net/http"

	"curately/internal/modkit/httpkit"
	phttp "curately/internal/platform/net/http"
	"curately/internal/platform/net/http/bind"
	"curately/internal/services/api/feeds/domain"
	svc "curately/internal/services/api/feeds/service"
)

// Register mounts feeds endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.list)
	r.Post("/", phttp.Handle(h.create))
	httpkit.PatchJSON[domain.UpdateInput](r, "/{id}", h.update)
	r.Delete("/{id}", phttp.Handle(h.remove))
}

type handlers struct{ svc svc.Service }

// @Summary List feed subscriptions
// @Tags Feeds
// @Produce json
// @Success 200 {array} domain.Feed "ok"
// @Router /feeds [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// @Summary Register a feed subscription
// @Tags Feeds
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Feed"
// @Success 201 {object} domain.Feed "created"
// @Failure 409 {object} errors.Wire "duplicate url"
// @Failure 422 {object} errors.Wire "not a feed"
// @Router /feeds [post]
func (h *handlers) create(r *stdhttp.Request) phttp.Response {
	in, err := bind.ParseJSON[domain.CreateInput](r)
	if err != nil {
		return phttp.Response{Body: err}
	}
	f, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return phttp.Response{Body: err}
	}
	return phttp.Response{Status: stdhttp.StatusCreated, Body: f}
}

// @Summary Toggle a feed's active flag
// @Tags Feeds
// @Accept json
// @Produce json
// @Param id path int true "Feed id"
// @Param payload body domain.UpdateInput true "Flag"
// @Success 200 {object} domain.Feed "ok"
// @Failure 404 {object} errors.Wire "unknown feed"
// @Router /feeds/{id} [patch]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.SetActive(r.Context(), id, in.IsActive)
}

// @Summary Delete a feed subscription
// @Tags Feeds
// @Param id path int true "Feed id"
// @Success 204 "deleted"
// @Failure 404 {object} errors.Wire "unknown feed"
// @Router /feeds/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) phttp.Response {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return phttp.Response{Body: err}
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		return phttp.Response{Body: err}
	}
	return phttp.Response{Status: stdhttp.StatusNoContent}
}
