package module

import (
	"context"
	"time"

	"curately/internal/services/api/digests/domain"
)

// Generator builds the digest for a date; the pipeline worker drives it
type Generator interface {
	Generate(ctx context.Context, date time.Time) (domain.Digest, error)
}

// Ports exposed by the digests module
type Ports struct {
	Generator Generator
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
