package service

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"curately/internal/core/keywords"
	"curately/internal/modkit/repokit"
	"curately/internal/services/pipeline/domain"
)

// interest weights are clamped to this ceiling by the interests service;
// a single matched top-weight keyword scores a full point
const topInterestWeight = 5.0

const summaryMaxRunes = 280

// candidate is one fresh entry moving through the scoring funnel
type candidate struct {
	feed  string
	item  domain.FeedItem
	score float64
	kws   []string
}

// collect pulls every active feed, scores the fresh entries against the
// aggregate interest profile, and persists the day's top picks. A
// failing feed never aborts the stage
func (s *Svc) collect(ctx context.Context, day time.Time, sum *domain.Summary) {
	if s.fetcher == nil || s.feeds == nil {
		return
	}

	feeds, err := s.activeFeeds(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("pipeline active feeds lookup failed")
		return
	}

	var fresh []candidate
	for _, f := range feeds {
		items, err := s.fetcher.Fetch(ctx, f.URL)
		if err != nil {
			sum.FeedsFailed++
			s.log.Warn().Err(err).Str("feed", f.Name).Str("url", f.URL).Msg("pipeline feed fetch failed")
			continue
		}
		sum.FeedsOK++
		if err := s.touchFeed(ctx, f.ID); err != nil {
			s.log.Warn().Err(err).Str("feed", f.Name).Msg("pipeline feed touch failed")
		}
		for _, it := range items {
			fresh = append(fresh, candidate{feed: f.Name, item: it})
		}
	}
	sum.Collected = len(fresh)
	if len(fresh) == 0 {
		return
	}

	if err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.repo.Bind(q)

		urls := make([]string, 0, len(fresh))
		for _, c := range fresh {
			urls = append(urls, c.item.Link)
		}
		seen, err := r.ExistingURLs(ctx, urls)
		if err != nil {
			return err
		}
		fresh = dropSeen(fresh, seen)

		profile, err := r.TopInterests(ctx, s.cfg.InterestLimit)
		if err != nil {
			return err
		}
		for i := range fresh {
			fresh[i].score, fresh[i].kws = scoreEntry(fresh[i].item, profile)
		}
		sum.Scored = len(fresh)

		taken, err := r.CountForDate(ctx, day)
		if err != nil {
			return err
		}
		picks := pickTop(fresh, s.cfg.RelevanceThreshold, s.cfg.MaxArticlesPerDay-taken)

		for _, c := range picks {
			if err := r.UpsertArticle(ctx, toArticle(c, day)); err != nil {
				return err
			}
			sum.Saved++
		}
		return nil
	}); err != nil {
		s.log.Error().Err(err).Msg("pipeline article persist failed")
	}
}

func (s *Svc) activeFeeds(ctx context.Context) ([]domain.Feed, error) {
	var out []domain.Feed
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		feeds, err := s.feeds.Bind(q).ListActive(ctx)
		out = feeds
		return err
	})
	return out, err
}

func (s *Svc) touchFeed(ctx context.Context, id int64) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		return s.feeds.Bind(q).TouchFetched(ctx, id)
	})
}

// dropSeen removes entries stored on a previous run, and duplicates
// within the batch itself when two feeds carry the same link
func dropSeen(in []candidate, seen map[string]struct{}) []candidate {
	out := in[:0]
	for _, c := range in {
		if _, ok := seen[c.item.Link]; ok {
			continue
		}
		seen[c.item.Link] = struct{}{}
		out = append(out, c)
	}
	return out
}

// scoreEntry rates one entry against the aggregate interest profile.
// Each matched keyword contributes its weight relative to the ceiling,
// capped at 1.0. With no profile every entry scores a neutral 0.5 so
// fresh installs still fill their newsletter
func scoreEntry(it domain.FeedItem, profile []domain.InterestWeight) (float64, []string) {
	if len(profile) == 0 {
		return 0.5, nil
	}

	text := it.Title
	if it.Summary != nil {
		text += " " + *it.Summary
	}
	folded := " " + keywords.Canonical(text) + " "

	var score float64
	var matched []string
	for _, iw := range profile {
		kw := keywords.Canonical(iw.Keyword)
		if kw == "" || !strings.Contains(folded, " "+kw+" ") {
			continue
		}
		score += iw.Weight / topInterestWeight
		matched = append(matched, iw.Keyword)
	}
	if score > 1 {
		score = 1
	}
	return score, matched
}

// pickTop filters by the relevance threshold and keeps the best entries
// that still fit today's newsletter. Ties keep fetch order
func pickTop(in []candidate, threshold float64, slots int) []candidate {
	if slots < 0 {
		slots = 0
	}
	kept := make([]candidate, 0, len(in))
	for _, c := range in {
		if c.score >= threshold {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
	if len(kept) > slots {
		kept = kept[:slots]
	}
	return kept
}

func toArticle(c candidate, day time.Time) domain.CollectedArticle {
	return domain.CollectedArticle{
		SourceFeed:     c.feed,
		SourceURL:      c.item.Link,
		Title:          c.item.Title,
		Author:         c.item.Author,
		PublishedAt:    c.item.PublishedAt,
		RawContent:     c.item.Summary,
		Summary:        summarize(c.item.Summary),
		RelevanceScore: c.score,
		Categories:     c.item.Categories,
		Keywords:       c.kws,
		NewsletterDate: day,
	}
}

// summarize trims the raw content to a short plain line, cutting at a
// word boundary
func summarize(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.Join(strings.Fields(*raw), " ")
	if s == "" {
		return nil
	}
	runes := []rune(s)
	if len(runes) > summaryMaxRunes {
		cut := summaryMaxRunes
		for cut > 0 && !unicode.IsSpace(runes[cut]) {
			cut--
		}
		if cut == 0 {
			cut = summaryMaxRunes
		}
		s = strings.TrimRight(string(runes[:cut]), " ") + "…"
	}
	return &s
}
