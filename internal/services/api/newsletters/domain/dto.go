// Package domain holds DTOs for newsletter editions
package domain

import (
	articles "curately/internal/services/api/articles/domain"
)

// Edition is one newsletter day in the archive list
type Edition struct {
	Date         string `json:"date" example:"2026-08-23"`
	ArticleCount int    `json:"article_count" example:"12"`
}

// Newsletter is a full edition with its articles sorted by relevance
type Newsletter struct {
	Date         string              `json:"date" example:"2026-08-23"`
	ArticleCount int                 `json:"article_count" example:"12"`
	Articles     []articles.ListItem `json:"articles"`
}

// Page bounds archive pagination
type Page struct {
	Limit  int
	Offset int
}

// Clamp normalizes the page to the allowed window
func (p Page) Clamp() Page {
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
