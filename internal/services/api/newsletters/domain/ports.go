package domain

import (
	"context"
	"time"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	// List returns the edition archive, newest date first
	List(ctx context.Context, page Page) ([]Edition, error)

	// ByDate returns one edition with articles sorted by relevance;
	// a date without articles is not-found
	ByDate(ctx context.Context, userID string, date time.Time) (Newsletter, error)

	// Today returns the current day's edition
	Today(ctx context.Context, userID string) (Newsletter, error)
}
