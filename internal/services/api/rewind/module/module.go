// Package module wires rewind into the API using modkit
package module

import (
	"net/http"

	"curately/internal/adapters/trends"
	modkit "curately/internal/modkit"
	"curately/internal/modkit/httpkit"
	"curately/internal/platform/config"
	str "curately/internal/platform/strings"
	rewindhttp "curately/internal/services/api/rewind/http"
	rewindsvc "curately/internal/services/api/rewind/service"
)

// Module implements the rewind module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc rewindsvc.Service
}

// New constructs the rewind module. The analyzer client is built from
// TRENDS_* config unless a source is injected via WithPorts (tests)
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("rewind"), modkit.WithPrefix("/rewind")}, opts...)...)

	src := sourceFrom(b.Ports)
	if src == nil {
		src = trends.NewClient(trendsOptions())
	}
	svc := rewindsvc.New(src)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptRewindPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		rewindhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// the analyzer env block lives at the root (TRENDS_BASE_URL and friends)
// so the API and the worker read the same names
func trendsOptions() trends.Options {
	cfg := config.New().Prefix("TRENDS_")
	return trends.Options{
		BaseURL:      cfg.MustString("BASE_URL"),
		ServiceToken: cfg.MayString("SERVICE_TOKEN", ""),
		Timeout:      cfg.MayDuration("HTTP_TIMEOUT", 0),
		MaxRetries:   cfg.MayInt("MAX_RETRIES", 0),
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
