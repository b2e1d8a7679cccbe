// Package repo provides postgres access for the pipeline worker
package repo

import (
	"context"
	"time"

	"curately/internal/modkit/repokit"
	"curately/internal/platform/store"
	"curately/internal/services/pipeline/domain"
)

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements domain.Repo
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// ActiveUsers returns every user that has interacted or holds an
// interest profile. Scheduled jobs fan out over this set
func (r *queries) ActiveUsers(ctx context.Context) ([]string, error) {
	const sql = `
select user_id from interactions
union
select user_id from user_interests
order by user_id
`
	return store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	}, sql)
}

// ExistingURLs reports which of the given source URLs are already stored,
// so the collector skips entries it has seen on a previous run
func (r *queries) ExistingURLs(ctx context.Context, urls []string) (map[string]struct{}, error) {
	if len(urls) == 0 {
		return map[string]struct{}{}, nil
	}
	const sql = `select source_url from articles where source_url = any($1)`
	seen, err := store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var u string
		err := row.Scan(&u)
		return u, err
	}, sql, urls)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(seen))
	for _, u := range seen {
		out[u] = struct{}{}
	}
	return out, nil
}

// CountForDate counts articles already assigned to a newsletter date
func (r *queries) CountForDate(ctx context.Context, date time.Time) (int, error) {
	const sql = `select count(1) from articles where newsletter_date = $1`
	return store.One(ctx, r.q, func(row store.Row) (int, error) {
		var n int
		err := row.Scan(&n)
		return n, err
	}, sql, date)
}

// TopInterests returns the heaviest interest keywords with weights
// summed across all users. The collector scores against this profile
func (r *queries) TopInterests(ctx context.Context, limit int) ([]domain.InterestWeight, error) {
	const sql = `
select keyword, sum(weight) as weight
from user_interests
group by keyword
order by weight desc, keyword
limit $1
`
	return store.Many(ctx, r.q, func(row store.Row) (domain.InterestWeight, error) {
		var iw domain.InterestWeight
		err := row.Scan(&iw.Keyword, &iw.Weight)
		return iw, err
	}, sql, limit)
}

// UpsertArticle inserts one collected article, refreshing score and
// newsletter date when the source URL was stored before
func (r *queries) UpsertArticle(ctx context.Context, a domain.CollectedArticle) error {
	const sql = `
insert into articles (source_feed, source_url, title, author, published_at,
                      raw_content, summary, relevance_score, categories,
                      keywords, newsletter_date)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
on conflict (source_url) do update set
  summary = excluded.summary,
  relevance_score = excluded.relevance_score,
  categories = excluded.categories,
  keywords = excluded.keywords,
  newsletter_date = excluded.newsletter_date,
  updated_at = now()
`
	_, err := store.Exec(ctx, r.q, sql,
		a.SourceFeed, a.SourceURL, a.Title, a.Author, a.PublishedAt,
		a.RawContent, a.Summary, a.RelevanceScore, a.Categories,
		a.Keywords, a.NewsletterDate,
	)
	return err
}
