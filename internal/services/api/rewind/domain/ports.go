package domain

import (
	"context"

	"curately/internal/core/rewind"
)

// ReportSource is the outbound port to the trend analyzer
type ReportSource interface {
	Latest(ctx context.Context, userID string) (rewind.RawReport, error)
	History(ctx context.Context, userID string) ([]rewind.RawReport, error)
	Generate(ctx context.Context, userID string) (rewind.RawReport, error)
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	// View returns the current session view, loading it on first touch
	View(ctx context.Context, userID string) (View, error)

	// Refresh re-runs the concurrent latest+history load. All-or-nothing:
	// any failure leaves the previous session data untouched and surfaces
	// one message on the view
	Refresh(ctx context.Context, userID string) (View, error)

	// Latest returns the newest report or not-found when none exist yet
	Latest(ctx context.Context, userID string) (rewind.Report, error)

	// ByID returns one report from the session by id
	ByID(ctx context.Context, userID string, id int64) (rewind.Report, error)

	// Regenerate asks the analyzer for a fresh report and merges it in,
	// resetting the selection so the new report becomes active
	Regenerate(ctx context.Context, userID string) (rewind.Report, error)

	// Select pins the active report. Unknown ids are accepted and resolved
	// with latest-fallback at read time
	Select(ctx context.Context, userID string, reportID *int64) (View, error)

	// Reset drops the session. In-flight loads against the old session
	// commit nothing
	Reset(userID string)
}
