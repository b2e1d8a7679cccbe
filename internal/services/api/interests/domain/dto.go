// Package domain holds DTOs for the interest profile
package domain

import "time"

// Interest is one keyword weight in a user's profile
type Interest struct {
	ID        int64     `json:"id" example:"3"`
	Keyword   string    `json:"keyword" example:"kubernetes"`
	Weight    float64   `json:"weight" example:"1.3"`
	Source    *string   `json:"source,omitempty" example:"interaction"`
	UpdatedAt time.Time `json:"updated_at"`
}
