// Package repo provides postgres access for feeds
package repo

import (
	"context"

	"curately/internal/modkit/repokit"
	"curately/internal/platform/store"
	"curately/internal/services/api/feeds/domain"
)

// Repo is the minimal persistence surface for feeds
type Repo interface {
	List(ctx context.Context) ([]domain.Feed, error)
	Insert(ctx context.Context, name, url string) (domain.Feed, error)
	SetActive(ctx context.Context, id int64, active bool) (domain.Feed, error)
	Delete(ctx context.Context, id int64) (int64, error)
	TouchFetched(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]domain.Feed, error)
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

const feedCols = `id, name, url, is_active, last_fetched_at, created_at`

func scanFeed(r store.Row) (domain.Feed, error) {
	var f domain.Feed
	err := r.Scan(&f.ID, &f.Name, &f.URL, &f.IsActive, &f.LastFetchedAt, &f.CreatedAt)
	return f, err
}

func (r *queries) List(ctx context.Context) ([]domain.Feed, error) {
	const sql = `
select ` + feedCols + `
from feeds
order by created_at desc
`
	return store.Many(ctx, r.q, scanFeed, sql)
}

func (r *queries) ListActive(ctx context.Context) ([]domain.Feed, error) {
	const sql = `
select ` + feedCols + `
from feeds
where is_active
order by created_at desc
`
	return store.Many(ctx, r.q, scanFeed, sql)
}

func (r *queries) Insert(ctx context.Context, name, url string) (domain.Feed, error) {
	const sql = `
insert into feeds (name, url)
values ($1, $2)
returning ` + feedCols + `
`
	return store.One(ctx, r.q, scanFeed, sql, name, url)
}

func (r *queries) SetActive(ctx context.Context, id int64, active bool) (domain.Feed, error) {
	const sql = `
update feeds
set is_active = $2
where id = $1
returning ` + feedCols + `
`
	return store.One(ctx, r.q, scanFeed, sql, id, active)
}

func (r *queries) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `delete from feeds where id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *queries) TouchFetched(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `update feeds set last_fetched_at = now() where id = $1`, id)
	return err
}
