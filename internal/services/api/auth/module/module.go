// Package module wires auth into the API using modkit
package module

import (
	"net/http"

	modkit "curately/internal/modkit"
	"curately/internal/modkit/httpkit"
	"curately/internal/platform/config"
	str "curately/internal/platform/strings"
	authhttp "curately/internal/services/api/auth/http"
	authsvc "curately/internal/services/api/auth/service"
)

// Module implements the auth module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the auth module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("auth"), modkit.WithPrefix("/auth")}, opts...)...)

	verifier := authsvc.NewVerifier(optionsFrom(deps.Cfg))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
	}
	m.ports = Ports{Auth: httpkit.NewPortFunc(verifier.ParseToken)}

	external := b.Register
	m.register = func(r httpkit.Router) {
		authhttp.Register(r)
		if external != nil {
			external(r)
		}
	}
	return m
}

func optionsFrom(cfg config.Conf) authsvc.Options {
	v := cfg.Prefix("AUTH_")
	return authsvc.Options{
		Secret: v.MustString("JWT_SECRET"),
		Leeway: v.MayDuration("JWT_LEEWAY", 0),
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
