// Package service contains daily digest workflows
package service

import (
	"context"
	"time"

	"curately/internal/modkit/repokit"
	perr "curately/internal/platform/errors"
	"curately/internal/services/api/digests/domain"
	"curately/internal/services/api/digests/repo"
)

const maxDigestArticles = 20

// Service defines the digests service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the digests service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	now    func() time.Time
}

// New constructs a digests service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("digests.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("digests.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, now: time.Now}
}

// Today returns the current day's digest or not-found
func (s *Svc) Today(ctx context.Context) (domain.Digest, error) {
	d, err := s.ByDate(ctx, s.today())
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Digest{}, perr.NotFoundf("no digest found for today")
		}
		return domain.Digest{}, err
	}
	return d, nil
}

// List returns digests newest first
func (s *Svc) List(ctx context.Context, limit, offset int) ([]domain.Digest, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Digest{}
	}
	return out, nil
}

// ByDate returns the digest for one date or not-found
func (s *Svc) ByDate(ctx context.Context, date time.Time) (domain.Digest, error) {
	d, err := s.Repo.ByDate(ctx, date)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Digest{}, perr.NotFoundf("no digest found for %s", date.Format("2006-01-02"))
		}
		return domain.Digest{}, err
	}
	return d, nil
}

// Generate assembles the digest from the date's top-relevance articles and
// replaces any existing digest for that date
func (s *Svc) Generate(ctx context.Context, date time.Time) (domain.Digest, error) {
	arts, err := s.Repo.TopArticles(ctx, date, maxDigestArticles)
	if err != nil {
		return domain.Digest{}, err
	}
	if len(arts) == 0 {
		return domain.Digest{}, perr.NotFoundf("no articles found for %s, cannot generate digest", date.Format("2006-01-02"))
	}

	content, ids := Assemble(date, arts)
	return s.Repo.Upsert(ctx, date, content, ids)
}

func (s *Svc) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
