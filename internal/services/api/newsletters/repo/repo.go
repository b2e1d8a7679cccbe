// Package repo provides postgres access for newsletter editions
package repo

import (
	"context"
	"time"

	"curately/internal/modkit/repokit"
	"curately/internal/platform/store"
	articles "curately/internal/services/api/articles/domain"
	"curately/internal/services/api/newsletters/domain"
)

// Repo is the minimal persistence surface for newsletters
type Repo interface {
	Editions(ctx context.Context, limit, offset int) ([]domain.Edition, error)
	ArticlesFor(ctx context.Context, userID string, date time.Time) ([]articles.ListItem, error)
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

func (r *queries) Editions(ctx context.Context, limit, offset int) ([]domain.Edition, error) {
	const sql = `
select newsletter_date::text, count(1)
from articles
where newsletter_date is not null
group by newsletter_date
order by newsletter_date desc
limit $1 offset $2
`
	return store.Many(ctx, r.q, func(row store.Row) (domain.Edition, error) {
		var e domain.Edition
		err := row.Scan(&e.Date, &e.ArticleCount)
		return e, err
	}, sql, limit, offset)
}

func (r *queries) ArticlesFor(ctx context.Context, userID string, date time.Time) ([]articles.ListItem, error) {
	const sql = `
select a.id, a.source_feed, a.source_url, a.title, a.author, a.published_at,
       a.summary, a.relevance_score, a.categories, a.keywords, a.newsletter_date,
       exists (
         select 1 from interactions i
         where i.user_id = $1 and i.article_id = a.id and i.type = 'like'
       ) as is_liked,
       exists (
         select 1 from interactions i
         where i.user_id = $1 and i.article_id = a.id and i.type = 'bookmark'
       ) as is_bookmarked
from articles a
where a.newsletter_date = $2
order by a.relevance_score desc nulls last, a.id asc
`
	return store.Many(ctx, r.q, func(row store.Row) (articles.ListItem, error) {
		var it articles.ListItem
		err := row.Scan(
			&it.ID, &it.SourceFeed, &it.SourceURL, &it.Title, &it.Author, &it.PublishedAt,
			&it.Summary, &it.RelevanceScore, &it.Categories, &it.Keywords, &it.NewsletterDate,
			&it.IsLiked, &it.IsBookmarked,
		)
		return it, err
	}, sql, userID, date)
}
