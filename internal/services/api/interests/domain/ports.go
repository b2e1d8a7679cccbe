package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	// List returns the profile sorted by weight descending
	List(ctx context.Context, userID string) ([]Interest, error)

	// AdjustOnLike bumps each keyword's weight by the like delta
	AdjustOnLike(ctx context.Context, userID string, keywords []string) error

	// AdjustOnUnlike reverses a like; weights at or below zero are removed
	AdjustOnUnlike(ctx context.Context, userID string, keywords []string) error

	// Decay down-weights interests untouched for the decay interval and
	// removes the ones that fall below the floor. Returns how many changed
	Decay(ctx context.Context, userID string) (int, error)
}
