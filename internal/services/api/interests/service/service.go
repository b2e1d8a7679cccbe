// Package service contains interest profile workflows
package service

import (
	"context"
	"time"

	"curately/internal/core/keywords"
	"curately/internal/modkit/repokit"
	"curately/internal/services/api/interests/domain"
	"curately/internal/services/api/interests/repo"
)

const (
	likeDelta   = 0.1
	maxWeight   = 5.0
	floorWeight = 0.01

	sourceInteraction = "interaction"
)

// Config tunes the decay pass
type Config struct {
	DecayFactor       float64
	DecayIntervalDays int
}

func (c Config) withDefaults() Config {
	if c.DecayFactor <= 0 || c.DecayFactor >= 1 {
		c.DecayFactor = 0.9
	}
	if c.DecayIntervalDays <= 0 {
		c.DecayIntervalDays = 14
	}
	return c
}

// Service defines the interests service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the interests service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	cfg    Config
	now    func() time.Time
}

// New constructs an interests service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("interests.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("interests.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, cfg: cfg.withDefaults(), now: time.Now}
}

// List returns the profile sorted by weight descending
func (s *Svc) List(ctx context.Context, userID string) ([]domain.Interest, error) {
	out, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Interest{}
	}
	return out, nil
}

// AdjustOnLike bumps each keyword by the like delta, clamped to the ceiling.
// Keywords are folded first so "Docker" and "docker" share one row
func (s *Svc) AdjustOnLike(ctx context.Context, userID string, kws []string) error {
	folded := canonicalKeywords(kws)
	if len(folded) == 0 {
		return nil
	}
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		current, err := r.WeightsFor(ctx, userID, folded)
		if err != nil {
			return err
		}
		for _, kw := range folded {
			w := current[kw] + likeDelta
			if w > maxWeight {
				w = maxWeight
			}
			if err := r.Upsert(ctx, userID, kw, w, sourceInteraction); err != nil {
				return err
			}
		}
		return nil
	})
}

// AdjustOnUnlike reverses a like. Keywords the profile never had are
// skipped; weights at or below zero are removed outright
func (s *Svc) AdjustOnUnlike(ctx context.Context, userID string, kws []string) error {
	folded := canonicalKeywords(kws)
	if len(folded) == 0 {
		return nil
	}
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		current, err := r.WeightsFor(ctx, userID, folded)
		if err != nil {
			return err
		}
		for _, kw := range folded {
			cur, ok := current[kw]
			if !ok {
				continue
			}
			w := cur - likeDelta
			if w <= 0 {
				if err := r.DeleteKeyword(ctx, userID, kw); err != nil {
					return err
				}
				continue
			}
			if err := r.Upsert(ctx, userID, kw, w, sourceInteraction); err != nil {
				return err
			}
		}
		return nil
	})
}

// Decay multiplies stale weights by the decay factor and removes entries
// below the floor
func (s *Svc) Decay(ctx context.Context, userID string) (int, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -s.cfg.DecayIntervalDays)

	var changed int
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		stale, err := r.StaleOlderThan(ctx, userID, cutoff)
		if err != nil {
			return err
		}
		for _, it := range stale {
			w := it.Weight * s.cfg.DecayFactor
			if w < floorWeight {
				if err := r.DeleteByID(ctx, it.ID); err != nil {
					return err
				}
			} else if err := r.SetWeightByID(ctx, it.ID, w); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	return changed, err
}

// canonicalKeywords folds each keyword to its comparison key and drops
// empties and duplicates, keeping first-seen order
func canonicalKeywords(kws []string) []string {
	out := make([]string, 0, len(kws))
	seen := make(map[string]struct{}, len(kws))
	for _, kw := range kws {
		c := keywords.Canonical(kw)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
