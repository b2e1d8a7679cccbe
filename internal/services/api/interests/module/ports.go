package module

import (
	"context"
)

// Adjuster reacts to like and unlike interactions
type Adjuster interface {
	AdjustOnLike(ctx context.Context, userID string, keywords []string) error
	AdjustOnUnlike(ctx context.Context, userID string, keywords []string) error
}

// Decayer runs the periodic down-weighting pass
type Decayer interface {
	Decay(ctx context.Context, userID string) (int, error)
}

// Ports exposed by the interests module
type Ports struct {
	Adjuster Adjuster
	Decayer  Decayer
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
