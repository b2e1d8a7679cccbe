package module

import (
	"curately/internal/platform/net/middleware"
)

// Ports exposed by the auth module
type Ports struct {
	// Auth guards protected route groups
	Auth middleware.AuthPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
