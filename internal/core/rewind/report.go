// Package rewind normalizes the loosely shaped weekly trend reports the
// analyzer emits into stable renderable structures.
//
// The payload shape has drifted over time: hot topics arrive as plain strings
// or {topic,count} objects, trend changes as a flat list or a legacy
// {rising,declining} grouping, and report_content is a free-form blob. All of
// that shape knowledge lives here and nowhere else. Nothing in this package
// performs I/O or returns an error; malformed input degrades to the empty or
// absent case.
package rewind

import (
	"encoding/json"
	"time"
)

// RawReport is the analyzer payload as it appears on the wire. The three
// shape-ambiguous fields stay raw until Normalize.
type RawReport struct {
	ID            int64           `json:"id"`
	UserID        string          `json:"user_id"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	CreatedAt     string          `json:"created_at"`
	HotTopics     json.RawMessage `json:"hot_topics"`
	TrendChanges  json.RawMessage `json:"trend_changes"`
	ReportContent json.RawMessage `json:"report_content"`
}

// HotTopic is a keyword with its mention count for the period.
// Count is 0 when the source supplied a bare string (unscored, not fabricated)
type HotTopic struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Direction values a TrendChange may carry. Anything else is dropped during
// normalization, never coerced
const (
	DirectionRising    = "rising"
	DirectionDeclining = "declining"
)

// TrendChange is one keyword whose interest weight moved during the period
type TrendChange struct {
	Keyword      string  `json:"keyword"`
	Direction    string  `json:"direction"`
	WeightChange float64 `json:"weight_change"`
}

// Report is the normalized domain entity. It is constructed by Normalize on
// every fetch and never mutated in place; a regenerate produces a new Report
type Report struct {
	ID           int64         `json:"id"`
	UserID       string        `json:"user_id"`
	PeriodStart  time.Time     `json:"period_start"`
	PeriodEnd    time.Time     `json:"period_end"`
	CreatedAt    time.Time     `json:"created_at"`
	HotTopics    []HotTopic    `json:"hot_topics"`
	TrendChanges []TrendChange `json:"trend_changes"`
	Overview     *string       `json:"overview,omitempty"`
	Suggestions  []string      `json:"suggestions"`
}
