// Package service contains article read and interaction workflows
package service

import (
	"context"

	"curately/internal/modkit/repokit"
	perr "curately/internal/platform/errors"
	"curately/internal/platform/logger"
	"curately/internal/services/activity/domain"
	articles "curately/internal/services/api/articles/domain"
	"curately/internal/services/api/articles/repo"
)

// Service defines the articles service contract
type Service interface {
	articles.ServicePort
}

// Svc implements the articles service
type Svc struct {
	Repo      repo.Repo
	binder    repokit.Binder[repo.Repo]
	db        repokit.TxRunner
	publisher articles.Publisher
	interests articles.InterestAdjuster
}

// New constructs an articles service. The interest adjuster is optional;
// the publisher is not, every toggle must produce an event
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], pub articles.Publisher, adj articles.InterestAdjuster) *Svc {
	if db == nil {
		panic("articles.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("articles.Service requires a non nil Repo binder")
	}
	if pub == nil {
		panic("articles.Service requires a non nil Publisher")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, publisher: pub, interests: adj}
}

// Detail returns one article with the user's interaction flags
func (s *Svc) Detail(ctx context.Context, userID string, id int64) (articles.Article, error) {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return articles.Article{}, perr.NotFoundf("article %d not found", id)
		}
		return articles.Article{}, err
	}
	liked, bookmarked, err := s.Repo.Flags(ctx, userID, id)
	if err != nil {
		return articles.Article{}, err
	}
	a.IsLiked = liked
	a.IsBookmarked = bookmarked
	return a, nil
}

// ToggleLike flips the like state and feeds the interest profile
func (s *Svc) ToggleLike(ctx context.Context, userID string, id int64) (articles.Interaction, error) {
	return s.toggle(ctx, userID, id, articles.TypeLike)
}

// ToggleBookmark flips the bookmark state
func (s *Svc) ToggleBookmark(ctx context.Context, userID string, id int64) (articles.Interaction, error) {
	return s.toggle(ctx, userID, id, articles.TypeBookmark)
}

// toggle computes the target state, writes it, and reverts the write when
// the follow-up activity event cannot be accepted
func (s *Svc) toggle(ctx context.Context, userID string, id int64, typ string) (articles.Interaction, error) {
	art, err := s.Repo.Get(ctx, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return articles.Interaction{}, perr.NotFoundf("article %d not found", id)
		}
		return articles.Interaction{}, err
	}

	had, err := s.Repo.HasInteraction(ctx, userID, id, typ)
	if err != nil {
		return articles.Interaction{}, err
	}

	out := articles.Interaction{ArticleID: id, Type: typ, Active: !had}
	if had {
		if err := s.Repo.DeleteInteraction(ctx, userID, id, typ); err != nil {
			return articles.Interaction{}, err
		}
	} else {
		at, err := s.Repo.InsertInteraction(ctx, userID, id, typ)
		if err != nil {
			return articles.Interaction{}, err
		}
		out.CreatedAt = &at
	}

	ev := domain.Event{
		UserID:    userID,
		ArticleID: id,
		Type:      eventType(typ, out.Active),
		Keywords:  art.Keywords,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.revert(ctx, userID, id, typ, had)
		return articles.Interaction{}, err
	}

	if typ == articles.TypeLike && s.interests != nil {
		// profile updates are best-effort; the toggle already happened
		var ierr error
		if out.Active {
			ierr = s.interests.AdjustOnLike(ctx, userID, art.Keywords)
		} else {
			ierr = s.interests.AdjustOnUnlike(ctx, userID, art.Keywords)
		}
		if ierr != nil {
			logger.C(ctx).Warn().Err(ierr).Int64("article_id", id).Msg("interest adjustment failed")
		}
	}
	return out, nil
}

// revert restores the pre-toggle interaction state
func (s *Svc) revert(ctx context.Context, userID string, id int64, typ string, had bool) {
	var err error
	if had {
		_, err = s.Repo.InsertInteraction(ctx, userID, id, typ)
	} else {
		err = s.Repo.DeleteInteraction(ctx, userID, id, typ)
	}
	if err != nil {
		logger.C(ctx).Error().Err(err).Int64("article_id", id).Str("type", typ).Msg("interaction revert failed")
	}
}

func eventType(typ string, active bool) string {
	switch {
	case typ == articles.TypeLike && active:
		return domain.EventLike
	case typ == articles.TypeLike:
		return domain.EventUnlike
	case active:
		return domain.EventBookmark
	default:
		return domain.EventUnbookmark
	}
}

// Bookmarked lists the user's bookmarked articles newest first
func (s *Svc) Bookmarked(ctx context.Context, userID string) ([]articles.ListItem, error) {
	items, err := s.Repo.Bookmarked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []articles.ListItem{}
	}
	return items, nil
}
