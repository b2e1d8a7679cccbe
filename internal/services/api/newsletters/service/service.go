// Package service contains newsletter archive workflows
package service

import (
	"context"
	"time"

	"curately/internal/modkit/repokit"
	perr "curately/internal/platform/errors"
	"curately/internal/services/api/newsletters/domain"
	"curately/internal/services/api/newsletters/repo"
)

// Service defines the newsletters service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the newsletters service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	now    func() time.Time
}

// New constructs a newsletters service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("newsletters.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("newsletters.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, now: time.Now}
}

// List returns the edition archive, newest date first
func (s *Svc) List(ctx context.Context, page domain.Page) ([]domain.Edition, error) {
	p := page.Clamp()
	out, err := s.Repo.Editions(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Edition{}
	}
	return out, nil
}

// ByDate returns one edition with its articles sorted by relevance
func (s *Svc) ByDate(ctx context.Context, userID string, date time.Time) (domain.Newsletter, error) {
	items, err := s.Repo.ArticlesFor(ctx, userID, date)
	if err != nil {
		return domain.Newsletter{}, err
	}
	if len(items) == 0 {
		return domain.Newsletter{}, perr.NotFoundf("no newsletter found for %s", date.Format("2006-01-02"))
	}
	return domain.Newsletter{
		Date:         date.Format("2006-01-02"),
		ArticleCount: len(items),
		Articles:     items,
	}, nil
}

// Today returns the current day's edition
func (s *Svc) Today(ctx context.Context, userID string) (domain.Newsletter, error) {
	y, m, d := s.now().UTC().Date()
	return s.ByDate(ctx, userID, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
