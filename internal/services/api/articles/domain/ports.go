package domain

import (
	"context"

	activity "curately/internal/services/activity/domain"
)

// Publisher accepts interaction events for the analyzer stream
type Publisher interface {
	Publish(ctx context.Context, ev activity.Event) error
}

// InterestAdjuster reacts to like and unlike interactions
type InterestAdjuster interface {
	AdjustOnLike(ctx context.Context, userID string, keywords []string) error
	AdjustOnUnlike(ctx context.Context, userID string, keywords []string) error
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	// Detail returns one article with the user's interaction flags
	Detail(ctx context.Context, userID string, id int64) (Article, error)

	// ToggleLike flips the like state. The interaction write is reverted
	// when the activity event cannot be accepted
	ToggleLike(ctx context.Context, userID string, id int64) (Interaction, error)

	// ToggleBookmark flips the bookmark state with the same revert rule
	ToggleBookmark(ctx context.Context, userID string, id int64) (Interaction, error)

	// Bookmarked lists the user's bookmarked articles newest first
	Bookmarked(ctx context.Context, userID string) ([]ListItem, error)
}
