// Package domain holds auth DTOs
package domain

// Identity is the authenticated caller as seen by the API
type Identity struct {
	UserID string `json:"user_id"`
}
