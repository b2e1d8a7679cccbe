// Package domain holds the activity event shape
package domain

import "time"

// Event types mirror the interaction kinds the analyzer aggregates
const (
	EventLike       = "like"
	EventUnlike     = "unlike"
	EventBookmark   = "bookmark"
	EventUnbookmark = "unbookmark"
)

// Event is one append-only user interaction record
type Event struct {
	EventID    string
	UserID     string
	ArticleID  int64
	Type       string
	Keywords   []string
	OccurredAt time.Time
}
