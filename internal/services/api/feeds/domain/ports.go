package domain

import "context"

// Checker verifies that a URL serves a parseable RSS or Atom document
type Checker interface {
	Check(ctx context.Context, url string) error
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	List(ctx context.Context) ([]Feed, error)
	Create(ctx context.Context, in CreateInput) (Feed, error)
	SetActive(ctx context.Context, id int64, active bool) (Feed, error)
	Delete(ctx context.Context, id int64) error
}
