// Package http provides http transport for the pipeline worker
package http

import (
	stdhttp "net/http"
	"time"

	"curately/internal/modkit/httpkit"
	phttp "curately/internal/platform/net/http"
	"curately/internal/services/pipeline/domain"
)

// Register mounts the manual trigger endpoint
func Register(r httpkit.Router, runner domain.RunnerPort) {
	h := &handlers{runner: runner}

	r.Post("/run", phttp.Handle(h.run))
}

type handlers struct{ runner domain.RunnerPort }

// @Summary Run the collection pipeline now
// @Description Executes one full pass outside the schedule and reports the outcome
// @Tags Pipeline
// @Produce json
// @Success 200 {object} domain.Summary "run summary"
// @Router /pipeline/run [post]
func (h *handlers) run(r *stdhttp.Request) phttp.Response {
	sum := h.runner.RunOnce(r.Context(), time.Now())
	return phttp.Response{Status: stdhttp.StatusOK, Body: sum}
}
