package httpkit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	perr "curately/internal/platform/errors"
)

// Param returns the named route parameter
func Param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// ParamInt64 parses the named route parameter as int64
func ParamInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, perr.InvalidArgf("invalid %s %q", name, raw)
	}
	return v, nil
}
