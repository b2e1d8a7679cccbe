package domain

import (
	"context"
	"time"
)

// ServicePort is consumed by handlers and the pipeline worker
type ServicePort interface {
	// Today returns the current day's digest or not-found
	Today(ctx context.Context) (Digest, error)

	// List returns digests newest first
	List(ctx context.Context, limit, offset int) ([]Digest, error)

	// ByDate returns the digest for one date or not-found
	ByDate(ctx context.Context, date time.Time) (Digest, error)

	// Generate assembles the digest for the date from that day's
	// top-relevance articles, replacing any existing digest
	Generate(ctx context.Context, date time.Time) (Digest, error)
}
