// Package http provides http transport for rewind
package http

import (
	stdhttp "net/http"

	"curately/internal/modkit/httpkit"
	phttp "curately/internal/platform/net/http"
	"curately/internal/services/api/rewind/domain"
	svc "curately/internal/services/api/rewind/service"
)

// Register mounts rewind endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// session view and report reads
	httpkit.Get(r, "/", h.view)
	httpkit.Get(r, "/latest", h.latest)
	httpkit.Get(r, "/{id}", h.byID)

	// session mutations
	r.Post("/generate", phttp.Handle(h.generate))
	httpkit.PostJSON[domain.SelectInput](r, "/select", h.sel)
	httpkit.Post(r, "/refresh", h.refresh)
}

type handlers struct{ svc svc.Service }

// @Summary Current rewind view
// @Tags Rewind
// @Produce json
// @Success 200 {object} domain.View "ok"
// @Router /rewind [get]
func (h *handlers) view(r *stdhttp.Request) (any, error) {
	return h.svc.View(r.Context(), httpkit.MustUser(r))
}

// @Summary Latest rewind report
// @Tags Rewind
// @Produce json
// @Success 200 {object} rewind.Report "ok"
// @Failure 404 {object} errors.Wire "no reports yet"
// @Router /rewind/latest [get]
func (h *handlers) latest(r *stdhttp.Request) (any, error) {
	return h.svc.Latest(r.Context(), httpkit.MustUser(r))
}

// @Summary One rewind report by id
// @Tags Rewind
// @Produce json
// @Param id path int true "Report id"
// @Success 200 {object} rewind.Report "ok"
// @Failure 404 {object} errors.Wire "unknown id"
// @Router /rewind/{id} [get]
func (h *handlers) byID(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.ByID(r.Context(), httpkit.MustUser(r), id)
}

// @Summary Generate a fresh rewind report
// @Tags Rewind
// @Produce json
// @Success 201 {object} rewind.Report "created"
// @Failure 503 {object} errors.Wire "analyzer unavailable"
// @Router /rewind/generate [post]
func (h *handlers) generate(r *stdhttp.Request) phttp.Response {
	rep, err := h.svc.Regenerate(r.Context(), httpkit.MustUser(r))
	if err != nil {
		return phttp.Response{Body: err}
	}
	return phttp.Response{Status: stdhttp.StatusCreated, Body: rep}
}

// @Summary Pin or clear the active report
// @Tags Rewind
// @Accept json
// @Produce json
// @Param payload body domain.SelectInput true "Selection"
// @Success 200 {object} domain.View "ok"
// @Router /rewind/select [post]
func (h *handlers) sel(r *stdhttp.Request, in domain.SelectInput) (any, error) {
	return h.svc.Select(r.Context(), httpkit.MustUser(r), in.ReportID)
}

// @Summary Reload latest and history from the analyzer
// @Tags Rewind
// @Produce json
// @Success 200 {object} domain.View "ok"
// @Router /rewind/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	return h.svc.Refresh(r.Context(), httpkit.MustUser(r))
}
