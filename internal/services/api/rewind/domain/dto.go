// Package domain holds DTOs for rewind http and service contracts
package domain

import "curately/internal/core/rewind"

// View states. Error from ready keeps the prior ready data next to the message
const (
	StateLoading = "loading"
	StateReady   = "ready"
	StateError   = "error"
)

// View is the full rewind presentation payload. Everything here is derived
// from the per-user session; there is no separately cached view state
type View struct {
	State      string `json:"state" example:"ready"`
	Error      string `json:"error,omitempty" example:"trends unavailable"`
	Loading    bool   `json:"loading"`
	Generating bool   `json:"generating"`

	SelectedID *int64          `json:"selected_id,omitempty" example:"42"`
	Active     *rewind.Report  `json:"active_report,omitempty"`
	Latest     *rewind.Report  `json:"latest_report,omitempty"`
	History    []rewind.Report `json:"history"`

	// Recurring lists the active report's hot topics that already showed up
	// in an older report, matched on their folded form
	Recurring []string `json:"recurring_topics,omitempty"`
}

// SelectInput pins or clears the active report. A null report_id returns the
// view to follow-latest behavior
type SelectInput struct {
	ReportID *int64 `json:"report_id" example:"42"`
}
