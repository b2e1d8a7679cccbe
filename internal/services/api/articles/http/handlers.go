// Package http provides http transport for articles
package http

import (
	stdhttp "net/http"

	"curately/internal/modkit/httpkit"
	svc "curately/internal/services/api/articles/service"
)

// Register mounts articles endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// static path first so chi never shadows it with {id}
	httpkit.Get(r, "/bookmarked", h.bookmarked)
	httpkit.Get(r, "/{id}", h.detail)

	httpkit.Post(r, "/{id}/like", h.like)
	httpkit.Post(r, "/{id}/bookmark", h.bookmark)
}

type handlers struct{ svc svc.Service }

// @Summary Article detail with interaction flags
// @Tags Articles
// @Produce json
// @Param id path int true "Article id"
// @Success 200 {object} domain.Article "ok"
// @Failure 404 {object} errors.Wire "unknown article"
// @Router /articles/{id} [get]
func (h *handlers) detail(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Detail(r.Context(), httpkit.MustUser(r), id)
}

// @Summary Toggle like
// @Tags Articles
// @Produce json
// @Param id path int true "Article id"
// @Success 200 {object} domain.Interaction "ok"
// @Failure 404 {object} errors.Wire "unknown article"
// @Router /articles/{id}/like [post]
func (h *handlers) like(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.ToggleLike(r.Context(), httpkit.MustUser(r), id)
}

// @Summary Toggle bookmark
// @Tags Articles
// @Produce json
// @Param id path int true "Article id"
// @Success 200 {object} domain.Interaction "ok"
// @Failure 404 {object} errors.Wire "unknown article"
// @Router /articles/{id}/bookmark [post]
func (h *handlers) bookmark(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.ToggleBookmark(r.Context(), httpkit.MustUser(r), id)
}

// @Summary Bookmarked articles newest first
// @Tags Articles
// @Produce json
// @Success 200 {array} domain.ListItem "ok"
// @Router /articles/bookmarked [get]
func (h *handlers) bookmarked(r *stdhttp.Request) (any, error) {
	return h.svc.Bookmarked(r.Context(), httpkit.MustUser(r))
}
