// Package http provides http transport for digests
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"curately/internal/modkit/httpkit"
	perr "curately/internal/platform/errors"
	phttp "curately/internal/platform/net/http"
	svc "curately/internal/services/api/digests/service"
)

// Register mounts digests endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/today", h.today)
	httpkit.Get(r, "/{date}", h.byDate)

	r.Post("/generate", phttp.Handle(h.generateToday))
	r.Post("/generate/{date}", phttp.Handle(h.generateFor))
}

type handlers struct{ svc svc.Service }

// @Summary Digest archive, newest first
// @Tags Digests
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} domain.Digest "ok"
// @Router /digests [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return h.svc.List(r.Context(), limit, offset)
}

// @Summary Today's digest
// @Tags Digests
// @Produce json
// @Success 200 {object} domain.Digest "ok"
// @Failure 404 {object} errors.Wire "no digest today"
// @Router /digests/today [get]
func (h *handlers) today(r *stdhttp.Request) (any, error) {
	return h.svc.Today(r.Context())
}

// @Summary Digest for a date
// @Tags Digests
// @Produce json
// @Param date path string true "Digest date (YYYY-MM-DD)"
// @Success 200 {object} domain.Digest "ok"
// @Failure 404 {object} errors.Wire "no digest for date"
// @Router /digests/{date} [get]
func (h *handlers) byDate(r *stdhttp.Request) (any, error) {
	date, err := dateParam(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ByDate(r.Context(), date)
}

// @Summary Generate today's digest
// @Tags Digests
// @Produce json
// @Success 201 {object} domain.Digest "created"
// @Failure 404 {object} errors.Wire "no articles today"
// @Router /digests/generate [post]
func (h *handlers) generateToday(r *stdhttp.Request) phttp.Response {
	now := time.Now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return h.generate(r, date)
}

// @Summary Generate the digest for a date
// @Tags Digests
// @Produce json
// @Param date path string true "Digest date (YYYY-MM-DD)"
// @Success 201 {object} domain.Digest "created"
// @Failure 404 {object} errors.Wire "no articles for date"
// @Router /digests/generate/{date} [post]
func (h *handlers) generateFor(r *stdhttp.Request) phttp.Response {
	date, err := dateParam(r)
	if err != nil {
		return phttp.Response{Body: err}
	}
	return h.generate(r, date)
}

func (h *handlers) generate(r *stdhttp.Request, date time.Time) phttp.Response {
	d, err := h.svc.Generate(r.Context(), date)
	if err != nil {
		return phttp.Response{Body: err}
	}
	return phttp.Response{Status: stdhttp.StatusCreated, Body: d}
}

func dateParam(r *stdhttp.Request) (time.Time, error) {
	raw := httpkit.Param(r, "date")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, perr.InvalidArgf("invalid date %q", raw)
	}
	return date, nil
}
