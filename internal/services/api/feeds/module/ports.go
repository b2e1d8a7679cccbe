package module

import (
	"context"

	"curately/internal/services/api/feeds/domain"
	feedssvc "curately/internal/services/api/feeds/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptFeedsPort struct{ svc feedssvc.Service }

// List returns all feed subscriptions
func (a adaptFeedsPort) List(ctx context.Context) ([]domain.Feed, error) {
	return a.svc.List(ctx)
}
