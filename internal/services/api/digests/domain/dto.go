// Package domain holds DTOs for daily digests
package domain

import "time"

// Section is one thematic block inside a digest
type Section struct {
	Theme      string  `json:"theme" example:"ai"`
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	ArticleIDs []int64 `json:"article_ids"`
}

// Content is the structured digest body
type Content struct {
	Headline     string    `json:"headline"`
	Sections     []Section `json:"sections"`
	KeyTakeaways []string  `json:"key_takeaways"`
	Connections  string    `json:"connections"`
}

// Digest is the full API payload for one day
type Digest struct {
	ID           int64     `json:"id" example:"5"`
	Date         string    `json:"digest_date" example:"2026-08-23"`
	Content      Content   `json:"content"`
	ArticleIDs   []int64   `json:"article_ids"`
	ArticleCount int       `json:"article_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SourceArticle is the slice of an article the assembler works from
type SourceArticle struct {
	ID             int64
	Title          string
	Summary        *string
	Categories     []string
	Keywords       []string
	RelevanceScore *float64
}
