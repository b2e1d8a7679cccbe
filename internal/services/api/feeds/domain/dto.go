// Package domain holds DTOs for feeds http and service contracts
package domain

import "time"

// Feed is a registered RSS subscription
type Feed struct {
	ID            int64      `json:"id" example:"12"`
	Name          string     `json:"name" example:"TechCrunch"`
	URL           string     `json:"url" example:"https://techcrunch.com/feed/"`
	IsActive      bool       `json:"is_active"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateInput registers a new feed subscription
type CreateInput struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	URL  string `json:"url" validate:"required,url,max=2000"`
}

// UpdateInput toggles a feed's active flag
type UpdateInput struct {
	IsActive bool `json:"is_active"`
}
