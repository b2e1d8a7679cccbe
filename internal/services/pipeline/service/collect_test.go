package service

import (
	"context"
	"testing"
	"time"

	"curately/internal/modkit/repokit"
	perr "curately/internal/platform/errors"
	"curately/internal/services/pipeline/domain"
)

type fakeFeeds struct {
	feeds   []domain.Feed
	touched []int64
}

func (f *fakeFeeds) ListActive(context.Context) ([]domain.Feed, error) { return f.feeds, nil }
func (f *fakeFeeds) TouchFetched(_ context.Context, id int64) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeFetcher struct {
	items  map[string][]domain.FeedItem
	failOn string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]domain.FeedItem, error) {
	if url == f.failOn {
		return nil, perr.Unavailablef("feed down")
	}
	return f.items[url], nil
}

func strp(s string) *string { return &s }

func item(title, link string) domain.FeedItem {
	return domain.FeedItem{Title: title, Link: link}
}

func newCollectSvc(repo *fakeRepo, feeds *fakeFeeds, fetch *fakeFetcher, cfg Config) *Svc {
	feedsBinder := repokit.BindFunc[domain.FeedsRepo](func(repokit.Queryer) domain.FeedsRepo {
		return feeds
	})
	return New(passTx{}, bindRepo(repo), feedsBinder, fetch, &fakeDigests{}, nil, nil, cfg)
}

func TestCollect_ScoresFiltersAndSaves(t *testing.T) {
	repo := &fakeRepo{
		interests: []domain.InterestWeight{
			{Keyword: "golang", Weight: 5},
			{Keyword: "Kubernetes", Weight: 2.5},
		},
	}
	feeds := &fakeFeeds{feeds: []domain.Feed{{ID: 1, Name: "Tech Weekly", URL: "http://a"}}}
	fetch := &fakeFetcher{items: map[string][]domain.FeedItem{
		"http://a": {
			{Title: "GoLang 1.26 ships", Link: "http://a/1", Summary: strp("kubernetes operators too")},
			item("Celebrity gossip", "http://a/2"),
			{Title: "KUBERNETES scaling", Link: "http://a/3"},
		},
	}}
	svc := newCollectSvc(repo, feeds, fetch, Config{})

	sum := svc.RunOnce(context.Background(), sunday)

	if sum.FeedsOK != 1 || sum.Collected != 3 || sum.Scored != 3 {
		t.Fatalf("funnel counts wrong: %+v", sum)
	}
	// gossip scores 0.0 and falls under the threshold
	if sum.Saved != 2 || len(repo.saved) != 2 {
		t.Fatalf("saved = %d (%+v)", sum.Saved, repo.saved)
	}

	// both interests match the first entry regardless of case, score capped at 1
	first := repo.saved[0]
	if first.SourceURL != "http://a/1" || first.RelevanceScore != 1 {
		t.Fatalf("top pick wrong: %+v", first)
	}
	if len(first.Keywords) != 2 || first.Keywords[0] != "golang" || first.Keywords[1] != "Kubernetes" {
		t.Fatalf("matched keywords = %v", first.Keywords)
	}
	if first.SourceFeed != "Tech Weekly" {
		t.Fatalf("source feed = %q", first.SourceFeed)
	}
	if !first.NewsletterDate.Equal(time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("newsletter date = %v", first.NewsletterDate)
	}

	second := repo.saved[1]
	if second.SourceURL != "http://a/3" || second.RelevanceScore != 0.5 {
		t.Fatalf("second pick wrong: %+v", second)
	}

	if len(feeds.touched) != 1 || feeds.touched[0] != 1 {
		t.Fatalf("feed not touched after fetch: %v", feeds.touched)
	}
}

func TestCollect_SkipsAlreadyStoredURLs(t *testing.T) {
	repo := &fakeRepo{existing: map[string]struct{}{"http://a/old": {}}}
	feeds := &fakeFeeds{feeds: []domain.Feed{{ID: 1, Name: "A", URL: "http://a"}}}
	fetch := &fakeFetcher{items: map[string][]domain.FeedItem{
		"http://a": {
			item("Seen before", "http://a/old"),
			item("Brand new", "http://a/new"),
			item("Brand new again", "http://a/new"),
		},
	}}
	svc := newCollectSvc(repo, feeds, fetch, Config{})

	sum := svc.RunOnce(context.Background(), sunday)
	if sum.Collected != 3 || sum.Scored != 1 || sum.Saved != 1 {
		t.Fatalf("dedupe funnel wrong: %+v", sum)
	}
	if repo.saved[0].SourceURL != "http://a/new" {
		t.Fatalf("saved = %+v", repo.saved)
	}
}

func TestCollect_FailingFeedIsIsolated(t *testing.T) {
	repo := &fakeRepo{}
	feeds := &fakeFeeds{feeds: []domain.Feed{
		{ID: 1, Name: "Down", URL: "http://down"},
		{ID: 2, Name: "Up", URL: "http://up"},
	}}
	fetch := &fakeFetcher{
		failOn: "http://down",
		items:  map[string][]domain.FeedItem{"http://up": {item("Story", "http://up/1")}},
	}
	svc := newCollectSvc(repo, feeds, fetch, Config{})

	sum := svc.RunOnce(context.Background(), sunday)
	if sum.FeedsFailed != 1 || sum.FeedsOK != 1 {
		t.Fatalf("feed counts wrong: %+v", sum)
	}
	if sum.Saved != 1 {
		t.Fatalf("healthy feed should still land: %+v", sum)
	}
	// the failing feed keeps its last_fetched_at
	if len(feeds.touched) != 1 || feeds.touched[0] != 2 {
		t.Fatalf("touched = %v", feeds.touched)
	}
}

func TestCollect_EmptyProfileScoresNeutral(t *testing.T) {
	repo := &fakeRepo{}
	feeds := &fakeFeeds{feeds: []domain.Feed{{ID: 1, Name: "A", URL: "http://a"}}}
	fetch := &fakeFetcher{items: map[string][]domain.FeedItem{
		"http://a": {item("Anything", "http://a/1")},
	}}
	svc := newCollectSvc(repo, feeds, fetch, Config{})

	sum := svc.RunOnce(context.Background(), sunday)
	if sum.Saved != 1 || repo.saved[0].RelevanceScore != 0.5 {
		t.Fatalf("fresh install must still collect: %+v / %+v", sum, repo.saved)
	}
}

func TestCollect_RespectsDailyCap(t *testing.T) {
	repo := &fakeRepo{taken: 9}
	feeds := &fakeFeeds{feeds: []domain.Feed{{ID: 1, Name: "A", URL: "http://a"}}}
	fetch := &fakeFetcher{items: map[string][]domain.FeedItem{
		"http://a": {
			item("One", "http://a/1"),
			item("Two", "http://a/2"),
			item("Three", "http://a/3"),
		},
	}}
	svc := newCollectSvc(repo, feeds, fetch, Config{MaxArticlesPerDay: 10})

	sum := svc.RunOnce(context.Background(), sunday)
	if sum.Saved != 1 {
		t.Fatalf("only one slot left today, saved = %d", sum.Saved)
	}

	// a full day saves nothing
	repo2 := &fakeRepo{taken: 10}
	svc2 := newCollectSvc(repo2, feeds, fetch, Config{MaxArticlesPerDay: 10})
	if sum2 := svc2.RunOnce(context.Background(), sunday); sum2.Saved != 0 {
		t.Fatalf("full day must save nothing: %+v", sum2)
	}
}

func TestCollect_SkippedWithoutFetcher(t *testing.T) {
	svc := newSvc(nil, &fakeDigests{}, nil, nil, Config{})

	sum := svc.RunOnce(context.Background(), sunday)
	if sum.Collected != 0 || sum.FeedsOK != 0 || sum.Saved != 0 {
		t.Fatalf("collection should be a no-op without a fetcher: %+v", sum)
	}
}

func TestSummarize_TrimsAtWordBoundary(t *testing.T) {
	if got := summarize(nil); got != nil {
		t.Fatalf("nil raw content must stay nil, got %v", got)
	}
	if got := summarize(strp("  \n ")); got != nil {
		t.Fatalf("blank raw content must stay nil, got %v", got)
	}
	if got := summarize(strp("short  and\nsweet")); got == nil || *got != "short and sweet" {
		t.Fatalf("whitespace should collapse, got %v", got)
	}

	long := ""
	for i := 0; i < 60; i++ {
		long += "wordy "
	}
	got := summarize(&long)
	if got == nil || len([]rune(*got)) > summaryMaxRunes+1 {
		t.Fatalf("summary too long: %q", *got)
	}
	if (*got)[len(*got)-len("…"):] != "…" {
		t.Fatalf("truncated summary should end with an ellipsis: %q", *got)
	}
}
