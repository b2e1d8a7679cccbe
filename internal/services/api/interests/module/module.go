// Package module wires interests into the API using modkit
package module

import (
	"net/http"

	modkit "curately/internal/modkit"
	"curately/internal/modkit/httpkit"
	str "curately/internal/platform/strings"
	interestshttp "curately/internal/services/api/interests/http"
	interestsrepo "curately/internal/services/api/interests/repo"
	interestssvc "curately/internal/services/api/interests/service"
)

// Module implements the interests module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc interestssvc.Service
}

// New constructs the interests module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("interests"), modkit.WithPrefix("/interests")}, opts...)...)

	repo := interestsrepo.NewPG()
	svc := interestssvc.New(deps.PG, repo, configFrom(deps))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Adjuster: svc, Decayer: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		interestshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

func configFrom(deps modkit.Deps) interestssvc.Config {
	cfg := deps.Cfg.Prefix("INTERESTS_")
	return interestssvc.Config{
		DecayFactor:       cfg.MayFloat64("DECAY_FACTOR", 0),
		DecayIntervalDays: cfg.MayInt("DECAY_INTERVAL_DAYS", 0),
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
