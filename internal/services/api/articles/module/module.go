// Package module wires articles into the API using modkit
package module

import (
	"net/http"

	modkit "curately/internal/modkit"
	"curately/internal/modkit/httpkit"
	str "curately/internal/platform/strings"
	articleshttp "curately/internal/services/api/articles/http"
	articlesrepo "curately/internal/services/api/articles/repo"
	articlessvc "curately/internal/services/api/articles/service"
)

// Module implements the articles module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc articlessvc.Service
}

// New constructs the articles module. The activity publisher and interest
// adjuster come in through WithPorts(Ports{...}) from api wiring
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("articles"), modkit.WithPrefix("/articles")}, opts...)...)

	in, _ := b.Ports.(Ports)
	repo := articlesrepo.NewPG()
	svc := articlessvc.New(deps.PG, repo, in.Publisher, in.Adjuster)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptArticlesPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		articleshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
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
