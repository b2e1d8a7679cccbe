// Package http provides http transport for newsletters
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"curately/internal/modkit/httpkit"
	perr "curately/internal/platform/errors"
	"curately/internal/services/api/newsletters/domain"
	svc "curately/internal/services/api/newsletters/service"
)

// Register mounts newsletters endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/today", h.today)
	httpkit.Get(r, "/{date}", h.byDate)
}

type handlers struct{ svc svc.Service }

// @Summary Newsletter archive, newest first
// @Tags Newsletters
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} domain.Edition "ok"
// @Router /newsletters [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), pageFrom(r))
}

// @Summary Today's newsletter
// @Tags Newsletters
// @Produce json
// @Success 200 {object} domain.Newsletter "ok"
// @Failure 404 {object} errors.Wire "no edition today"
// @Router /newsletters/today [get]
func (h *handlers) today(r *stdhttp.Request) (any, error) {
	return h.svc.Today(r.Context(), httpkit.MustUser(r))
}

// @Summary Newsletter for a date
// @Tags Newsletters
// @Produce json
// @Param date path string true "Edition date (YYYY-MM-DD)"
// @Success 200 {object} domain.Newsletter "ok"
// @Failure 404 {object} errors.Wire "no edition for date"
// @Router /newsletters/{date} [get]
func (h *handlers) byDate(r *stdhttp.Request) (any, error) {
	raw := httpkit.Param(r, "date")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, perr.InvalidArgf("invalid date %q", raw)
	}
	return h.svc.ByDate(r.Context(), httpkit.MustUser(r), date)
}

func pageFrom(r *stdhttp.Request) domain.Page {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return domain.Page{Limit: limit, Offset: offset}
}
