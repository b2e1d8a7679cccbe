package module

import (
	"context"

	"curately/internal/services/api/articles/domain"
	articlessvc "curately/internal/services/api/articles/service"
)

// Ports are the inbound dependencies injected by api wiring
type Ports struct {
	Publisher domain.Publisher
	Adjuster  domain.InterestAdjuster
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptArticlesPort struct{ svc articlessvc.Service }

// Detail returns one article with the caller's interaction flags
func (a adaptArticlesPort) Detail(ctx context.Context, userID string, id int64) (domain.Article, error) {
	return a.svc.Detail(ctx, userID, id)
}

// Bookmarked lists the caller's bookmarked articles
func (a adaptArticlesPort) Bookmarked(ctx context.Context, userID string) ([]domain.ListItem, error) {
	return a.svc.Bookmarked(ctx, userID)
}
