// Package domain holds the pipeline worker contracts
package domain

import (
	"context"
	"time"
)

// DigestGenerator assembles the digest for a date
type DigestGenerator interface {
	Generate(ctx context.Context, date time.Time) error
}

// RewindRegenerator refreshes one user's rewind report
type RewindRegenerator interface {
	Regenerate(ctx context.Context, userID string) error
}

// InterestDecayer down-weights one user's stale interests and
// reports how many keywords were touched
type InterestDecayer interface {
	Decay(ctx context.Context, userID string) (int, error)
}

// FeedFetcher pulls and parses one feed URL
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// FeedItem is one parsed feed entry. Entries without a link or title
// are dropped by the fetcher
type FeedItem struct {
	Title       string
	Link        string
	Author      *string
	PublishedAt *time.Time
	Summary     *string
	Categories  []string
}

// Feed is a subscribed source the collector pulls from
type Feed struct {
	ID   int64
	Name string
	URL  string
}

// FeedsRepo is the slice of the feed store the collector needs
type FeedsRepo interface {
	ListActive(ctx context.Context) ([]Feed, error)
	TouchFetched(ctx context.Context, id int64) error
}

// InterestWeight is one keyword of the aggregate interest profile,
// weights summed across all users
type InterestWeight struct {
	Keyword string
	Weight  float64
}

// CollectedArticle is a scored entry the collector persists
type CollectedArticle struct {
	SourceFeed     string
	SourceURL      string
	Title          string
	Author         *string
	PublishedAt    *time.Time
	RawContent     *string
	Summary        *string
	RelevanceScore float64
	Categories     []string
	Keywords       []string
	NewsletterDate time.Time
}

// Repo is the pipeline's own persistence surface
type Repo interface {
	// ActiveUsers lists the users the scheduled jobs fan out over
	ActiveUsers(ctx context.Context) ([]string, error)
	// ExistingURLs reports which of the given source URLs are already stored
	ExistingURLs(ctx context.Context, urls []string) (map[string]struct{}, error)
	// CountForDate counts articles already assigned to a newsletter date
	CountForDate(ctx context.Context, date time.Time) (int, error)
	// TopInterests returns the heaviest aggregate interest keywords
	TopInterests(ctx context.Context, limit int) ([]InterestWeight, error)
	// UpsertArticle inserts or refreshes one collected article by source URL
	UpsertArticle(ctx context.Context, a CollectedArticle) error
}

// RunnerPort is what the worker binary drives
type RunnerPort interface {
	Run(ctx context.Context) error
	RunOnce(ctx context.Context, now time.Time) Summary
}

// Summary is the per-run outcome. Logged once per run and returned
// verbatim by the manual trigger endpoint
type Summary struct {
	RunAt        time.Time `json:"run_at"`
	DigestDate   string    `json:"digest_date"`
	DigestOK     bool      `json:"digest_ok"`
	FeedsOK      int       `json:"feeds_ok"`
	FeedsFailed  int       `json:"feeds_failed"`
	Collected    int       `json:"articles_collected"`
	Scored       int       `json:"articles_scored"`
	Saved        int       `json:"articles_saved"`
	Users        int       `json:"users"`
	DecayedUsers int       `json:"decayed_users"`
	DecayedTotal int       `json:"decayed_total"`
	DecayFailed  int       `json:"decay_failed"`
	RewindRan    bool      `json:"rewind_ran"`
	RewindOK     int       `json:"rewind_ok"`
	RewindFailed int       `json:"rewind_failed"`
}
