// Package repo provides postgres access for digests
package repo

import (
	"context"
	"encoding/json"
	"time"

	"curately/internal/modkit/repokit"
	"curately/internal/platform/store"
	"curately/internal/services/api/digests/domain"
)

// Repo is the minimal persistence surface for digests
type Repo interface {
	ByDate(ctx context.Context, date time.Time) (domain.Digest, error)
	List(ctx context.Context, limit, offset int) ([]domain.Digest, error)
	Upsert(ctx context.Context, date time.Time, content domain.Content, articleIDs []int64) (domain.Digest, error)
	TopArticles(ctx context.Context, date time.Time, limit int) ([]domain.SourceArticle, error)
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

const digestCols = `id, digest_date::text, content, article_ids, article_count, created_at, updated_at`

func scanDigest(row store.Row) (domain.Digest, error) {
	var d domain.Digest
	var content []byte
	if err := row.Scan(&d.ID, &d.Date, &content, &d.ArticleIDs, &d.ArticleCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return d, err
	}
	if err := json.Unmarshal(content, &d.Content); err != nil {
		return d, err
	}
	return d, nil
}

func (r *queries) ByDate(ctx context.Context, date time.Time) (domain.Digest, error) {
	const sql = `
select ` + digestCols + `
from digests
where digest_date = $1
`
	return store.One(ctx, r.q, scanDigest, sql, date)
}

func (r *queries) List(ctx context.Context, limit, offset int) ([]domain.Digest, error) {
	const sql = `
select ` + digestCols + `
from digests
order by digest_date desc
limit $1 offset $2
`
	return store.Many(ctx, r.q, scanDigest, sql, limit, offset)
}

func (r *queries) Upsert(ctx context.Context, date time.Time, content domain.Content, articleIDs []int64) (domain.Digest, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return domain.Digest{}, err
	}
	const sql = `
insert into digests (digest_date, content, article_ids, article_count)
values ($1, $2, $3, $4)
on conflict (digest_date)
do update set content = excluded.content,
              article_ids = excluded.article_ids,
              article_count = excluded.article_count,
              updated_at = now()
returning ` + digestCols + `
`
	return store.One(ctx, r.q, scanDigest, sql, date, raw, articleIDs, len(articleIDs))
}

func (r *queries) TopArticles(ctx context.Context, date time.Time, limit int) ([]domain.SourceArticle, error) {
	const sql = `
select id, title, summary, categories, keywords, relevance_score
from articles
where newsletter_date = $1
order by relevance_score desc nulls last, id asc
limit $2
`
	return store.Many(ctx, r.q, func(row store.Row) (domain.SourceArticle, error) {
		var a domain.SourceArticle
		err := row.Scan(&a.ID, &a.Title, &a.Summary, &a.Categories, &a.Keywords, &a.RelevanceScore)
		return a, err
	}, sql, date, limit)
}
