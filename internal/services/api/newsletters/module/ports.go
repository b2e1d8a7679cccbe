package module

import (
	"context"
	"time"

	"curately/internal/services/api/newsletters/domain"
	newssvc "curately/internal/services/api/newsletters/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptNewslettersPort struct{ svc newssvc.Service }

// ByDate returns one edition with its articles
func (a adaptNewslettersPort) ByDate(ctx context.Context, userID string, date time.Time) (domain.Newsletter, error) {
	return a.svc.ByDate(ctx, userID, date)
}
