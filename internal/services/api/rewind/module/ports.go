package module

import (
	"context"

	"curately/internal/core/rewind"
	"curately/internal/services/api/rewind/domain"
	rewindsvc "curately/internal/services/api/rewind/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// sourceFrom unwraps an injected ReportSource, if any
func sourceFrom(ports any) domain.ReportSource {
	if src, ok := ports.(domain.ReportSource); ok {
		return src
	}
	return nil
}

type adaptRewindPort struct{ svc rewindsvc.Service }

// View returns the user's current rewind view
func (a adaptRewindPort) View(ctx context.Context, userID string) (domain.View, error) {
	return a.svc.View(ctx, userID)
}

// Latest returns the user's newest rewind report
func (a adaptRewindPort) Latest(ctx context.Context, userID string) (rewind.Report, error) {
	return a.svc.Latest(ctx, userID)
}

// Regenerate asks the analyzer for a fresh report for the user
func (a adaptRewindPort) Regenerate(ctx context.Context, userID string) (rewind.Report, error) {
	return a.svc.Regenerate(ctx, userID)
}

// Reset drops the user's rewind session
func (a adaptRewindPort) Reset(userID string) {
	a.svc.Reset(userID)
}
