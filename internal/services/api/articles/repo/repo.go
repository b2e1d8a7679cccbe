// Package repo provides postgres access for articles and interactions
package repo

import (
	"context"
	"time"

	"curately/internal/modkit/repokit"
	"curately/internal/platform/store"
	"curately/internal/services/api/articles/domain"
)

// Repo is the minimal persistence surface for articles
type Repo interface {
	Get(ctx context.Context, id int64) (domain.Article, error)
	Flags(ctx context.Context, userID string, id int64) (liked, bookmarked bool, err error)
	HasInteraction(ctx context.Context, userID string, id int64, typ string) (bool, error)
	InsertInteraction(ctx context.Context, userID string, id int64, typ string) (time.Time, error)
	DeleteInteraction(ctx context.Context, userID string, id int64, typ string) error
	Bookmarked(ctx context.Context, userID string) ([]domain.ListItem, error)
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

func (r *queries) Get(ctx context.Context, id int64) (domain.Article, error) {
	const sql = `
select id, source_feed, source_url, title, author, published_at,
       raw_content, summary, detailed_summary, relevance_score,
       categories, keywords, newsletter_date, created_at, updated_at
from articles
where id = $1
`
	return store.One(ctx, r.q, func(row store.Row) (domain.Article, error) {
		var a domain.Article
		err := row.Scan(
			&a.ID, &a.SourceFeed, &a.SourceURL, &a.Title, &a.Author, &a.PublishedAt,
			&a.RawContent, &a.Summary, &a.DetailedSummary, &a.RelevanceScore,
			&a.Categories, &a.Keywords, &a.NewsletterDate, &a.CreatedAt, &a.UpdatedAt,
		)
		return a, err
	}, sql, id)
}

func (r *queries) Flags(ctx context.Context, userID string, id int64) (bool, bool, error) {
	const sql = `
select
  bool_or(type = 'like') as liked,
  bool_or(type = 'bookmark') as bookmarked
from interactions
where user_id = $1 and article_id = $2
`
	var liked, bookmarked *bool
	row := r.q.QueryRow(ctx, sql, userID, id)
	if err := row.Scan(&liked, &bookmarked); err != nil {
		return false, false, err
	}
	// aggregates over zero rows come back null
	return liked != nil && *liked, bookmarked != nil && *bookmarked, nil
}

func (r *queries) HasInteraction(ctx context.Context, userID string, id int64, typ string) (bool, error) {
	const sql = `
select exists (
  select 1 from interactions
  where user_id = $1 and article_id = $2 and type = $3
)
`
	return store.Scalar[bool](ctx, r.q, sql, userID, id, typ)
}

func (r *queries) InsertInteraction(ctx context.Context, userID string, id int64, typ string) (time.Time, error) {
	const sql = `
insert into interactions (user_id, article_id, type)
values ($1, $2, $3)
on conflict (user_id, article_id, type) do update set created_at = interactions.created_at
returning created_at
`
	return store.Scalar[time.Time](ctx, r.q, sql, userID, id, typ)
}

func (r *queries) DeleteInteraction(ctx context.Context, userID string, id int64, typ string) error {
	_, err := r.q.Exec(ctx,
		`delete from interactions where user_id = $1 and article_id = $2 and type = $3`,
		userID, id, typ)
	return err
}

func (r *queries) Bookmarked(ctx context.Context, userID string) ([]domain.ListItem, error) {
	const sql = `
select a.id, a.source_feed, a.source_url, a.title, a.author, a.published_at,
       a.summary, a.relevance_score, a.categories, a.keywords, a.newsletter_date,
       exists (
         select 1 from interactions l
         where l.user_id = $1 and l.article_id = a.id and l.type = 'like'
       ) as is_liked
from articles a
join interactions b on b.article_id = a.id
where b.user_id = $1 and b.type = 'bookmark'
order by b.created_at desc
`
	return store.Many(ctx, r.q, func(row store.Row) (domain.ListItem, error) {
		var it domain.ListItem
		err := row.Scan(
			&it.ID, &it.SourceFeed, &it.SourceURL, &it.Title, &it.Author, &it.PublishedAt,
			&it.Summary, &it.RelevanceScore, &it.Categories, &it.Keywords, &it.NewsletterDate,
			&it.IsLiked,
		)
		it.IsBookmarked = true
		return it, err
	}, sql, userID)
}
