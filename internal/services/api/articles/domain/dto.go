// Package domain holds DTOs for articles http and service contracts
package domain

import "time"

// Interaction kinds
const (
	TypeLike     = "like"
	TypeBookmark = "bookmark"
)

// Article is the full detail payload
type Article struct {
	ID              int64      `json:"id" example:"42"`
	SourceFeed      string     `json:"source_feed" example:"TechCrunch"`
	SourceURL       string     `json:"source_url" example:"https://example.com/article"`
	Title           string     `json:"title"`
	Author          *string    `json:"author,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	RawContent      *string    `json:"raw_content,omitempty"`
	Summary         *string    `json:"summary,omitempty"`
	DetailedSummary *string    `json:"detailed_summary,omitempty"`
	RelevanceScore  *float64   `json:"relevance_score,omitempty" example:"0.87"`
	Categories      []string   `json:"categories"`
	Keywords        []string   `json:"keywords"`
	NewsletterDate  *time.Time `json:"newsletter_date,omitempty"`
	IsLiked         bool       `json:"is_liked"`
	IsBookmarked    bool       `json:"is_bookmarked"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ListItem is the trimmed article used in lists
type ListItem struct {
	ID             int64      `json:"id" example:"42"`
	SourceFeed     string     `json:"source_feed"`
	SourceURL      string     `json:"source_url"`
	Title          string     `json:"title"`
	Author         *string    `json:"author,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	Summary        *string    `json:"summary,omitempty"`
	RelevanceScore *float64   `json:"relevance_score,omitempty"`
	Categories     []string   `json:"categories"`
	Keywords       []string   `json:"keywords"`
	NewsletterDate *time.Time `json:"newsletter_date,omitempty"`
	IsLiked        bool       `json:"is_liked"`
	IsBookmarked   bool       `json:"is_bookmarked"`
}

// Interaction is the state returned after a toggle
type Interaction struct {
	ArticleID int64      `json:"article_id" example:"42"`
	Type      string     `json:"type" example:"like"`
	Active    bool       `json:"active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
