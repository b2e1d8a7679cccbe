// Package service contains feed subscription workflows
package service

import (
	"context"

	"curately/internal/modkit/repokit"
	perr "curately/internal/platform/errors"
	"curately/internal/services/api/feeds/domain"
	"curately/internal/services/api/feeds/repo"
)

// Service defines the feeds service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the feeds service
type Svc struct {
	Repo    repo.Repo
	binder  repokit.Binder[repo.Repo]
	db      repokit.TxRunner
	checker domain.Checker
}

// New constructs a feeds service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], checker domain.Checker) *Svc {
	if db == nil {
		panic("feeds.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("feeds.Service requires a non nil Repo binder")
	}
	if checker == nil {
		panic("feeds.Service requires a non nil Checker")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, checker: checker}
}

// List returns all subscriptions newest first
func (s *Svc) List(ctx context.Context) ([]domain.Feed, error) {
	feeds, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if feeds == nil {
		feeds = []domain.Feed{}
	}
	return feeds, nil
}

// Create validates the URL against the live feed and registers it.
// Duplicate URLs are conflicts; unreachable or unparseable URLs answer 422
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.Feed, error) {
	if err := s.checker.Check(ctx, in.URL); err != nil {
		return domain.Feed{}, err
	}
	f, err := s.Repo.Insert(ctx, in.Name, in.URL)
	if err != nil {
		if perr.IsDuplicateKey(err) {
			return domain.Feed{}, perr.Conflictf("feed with this url already exists")
		}
		return domain.Feed{}, err
	}
	return f, nil
}

// SetActive toggles the subscription's active flag
func (s *Svc) SetActive(ctx context.Context, id int64, active bool) (domain.Feed, error) {
	f, err := s.Repo.SetActive(ctx, id, active)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Feed{}, perr.NotFoundf("feed %d not found", id)
		}
		return domain.Feed{}, err
	}
	return f, nil
}

// Delete removes the subscription
func (s *Svc) Delete(ctx context.Context, id int64) error {
	n, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return perr.NotFoundf("feed %d not found", id)
	}
	return nil
}
