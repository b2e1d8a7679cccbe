// Package repo provides postgres access for the interest profile
package repo

import (
	"context"
	"time"

	"curately/internal/modkit/repokit"
	"curately/internal/platform/store"
	"curately/internal/services/api/interests/domain"
)

// Repo is the minimal persistence surface for interests
type Repo interface {
	List(ctx context.Context, userID string) ([]domain.Interest, error)
	WeightsFor(ctx context.Context, userID string, keywords []string) (map[string]float64, error)
	Upsert(ctx context.Context, userID, keyword string, weight float64, source string) error
	DeleteKeyword(ctx context.Context, userID, keyword string) error
	StaleOlderThan(ctx context.Context, userID string, cutoff time.Time) ([]domain.Interest, error)
	SetWeightByID(ctx context.Context, id int64, weight float64) error
	DeleteByID(ctx context.Context, id int64) error
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func scanInterest(r store.Row) (domain.Interest, error) {
	var it domain.Interest
	err := r.Scan(&it.ID, &it.Keyword, &it.Weight, &it.Source, &it.UpdatedAt)
	return it, err
}

func (r *queries) List(ctx context.Context, userID string) ([]domain.Interest, error) {
	const sql = `
select id, keyword, weight, source, updated_at
from user_interests
where user_id = $1
order by weight desc, keyword asc
`
	return store.Many(ctx, r.q, scanInterest, sql, userID)
}

func (r *queries) WeightsFor(ctx context.Context, userID string, keywords []string) (map[string]float64, error) {
	const sql = `
select keyword, weight
from user_interests
where user_id = $1 and keyword = any($2)
`
	rows, err := r.q.Query(ctx, sql, userID, keywords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]float64, len(keywords))
	for rows.Next() {
		var kw string
		var w float64
		if err := rows.Scan(&kw, &w); err != nil {
			return nil, err
		}
		out[kw] = w
	}
	return out, rows.Err()
}

func (r *queries) Upsert(ctx context.Context, userID, keyword string, weight float64, source string) error {
	const sql = `
insert into user_interests (user_id, keyword, weight, source, updated_at)
values ($1, $2, $3, $4, now())
on conflict (user_id, keyword)
do update set weight = excluded.weight, source = excluded.source, updated_at = now()
`
	_, err := r.q.Exec(ctx, sql, userID, keyword, weight, source)
	return err
}

func (r *queries) DeleteKeyword(ctx context.Context, userID, keyword string) error {
	_, err := r.q.Exec(ctx, `delete from user_interests where user_id = $1 and keyword = $2`, userID, keyword)
	return err
}

func (r *queries) StaleOlderThan(ctx context.Context, userID string, cutoff time.Time) ([]domain.Interest, error) {
	const sql = `
select id, keyword, weight, source, updated_at
from user_interests
where user_id = $1 and updated_at < $2
`
	return store.Many(ctx, r.q, scanInterest, sql, userID, cutoff)
}

func (r *queries) SetWeightByID(ctx context.Context, id int64, weight float64) error {
	_, err := r.q.Exec(ctx, `update user_interests set weight = $2, updated_at = now() where id = $1`, id, weight)
	return err
}

func (r *queries) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `delete from user_interests where id = $1`, id)
	return err
}
