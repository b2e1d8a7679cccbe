package service

import (
	"context"
	"testing"
	"time"

	"curately/internal/modkit/repokit"
	perr "curately/internal/platform/errors"
	"curately/internal/platform/store"
	activity "curately/internal/services/activity/domain"
	"curately/internal/services/api/articles/domain"
	"curately/internal/services/api/articles/repo"
)

type interactionKey struct {
	userID string
	id     int64
	typ    string
}

type fakeRepo struct {
	articles     map[int64]domain.Article
	interactions map[interactionKey]time.Time
}

func newFakeRepo(arts ...domain.Article) *fakeRepo {
	f := &fakeRepo{articles: map[int64]domain.Article{}, interactions: map[interactionKey]time.Time{}}
	for _, a := range arts {
		f.articles[a.ID] = a
	}
	return f
}

func (f *fakeRepo) Get(_ context.Context, id int64) (domain.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return domain.Article{}, perr.ErrNotFound
	}
	return a, nil
}

func (f *fakeRepo) Flags(_ context.Context, userID string, id int64) (bool, bool, error) {
	_, liked := f.interactions[interactionKey{userID, id, domain.TypeLike}]
	_, marked := f.interactions[interactionKey{userID, id, domain.TypeBookmark}]
	return liked, marked, nil
}

func (f *fakeRepo) HasInteraction(_ context.Context, userID string, id int64, typ string) (bool, error) {
	_, ok := f.interactions[interactionKey{userID, id, typ}]
	return ok, nil
}

func (f *fakeRepo) InsertInteraction(_ context.Context, userID string, id int64, typ string) (time.Time, error) {
	now := time.Now()
	f.interactions[interactionKey{userID, id, typ}] = now
	return now, nil
}

func (f *fakeRepo) DeleteInteraction(_ context.Context, userID string, id int64, typ string) error {
	delete(f.interactions, interactionKey{userID, id, typ})
	return nil
}

func (f *fakeRepo) Bookmarked(_ context.Context, userID string) ([]domain.ListItem, error) {
	var out []domain.ListItem
	for k := range f.interactions {
		if k.userID == userID && k.typ == domain.TypeBookmark {
			out = append(out, domain.ListItem{ID: k.id, IsBookmarked: true})
		}
	}
	return out, nil
}

type fakePublisher struct {
	events []activity.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev activity.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type fakeAdjuster struct {
	liked, unliked [][]string
	err            error
}

func (a *fakeAdjuster) AdjustOnLike(_ context.Context, _ string, kws []string) error {
	a.liked = append(a.liked, kws)
	return a.err
}

func (a *fakeAdjuster) AdjustOnUnlike(_ context.Context, _ string, kws []string) error {
	a.unliked = append(a.unliked, kws)
	return a.err
}

type passTx struct{}

func (passTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error { return fn(nil) }
func (passTx) Exec(context.Context, string, ...any) (store.CommandTag, error)  { return nil, nil }
func (passTx) Query(context.Context, string, ...any) (store.Rows, error)       { return nil, nil }
func (passTx) QueryRow(context.Context, string, ...any) store.Row              { return nil }

func newSvc(r *fakeRepo, p *fakePublisher, a *fakeAdjuster) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r })
	var adj domain.InterestAdjuster
	if a != nil {
		adj = a
	}
	return New(passTx{}, binder, p, adj)
}

func article(id int64, keywords ...string) domain.Article {
	return domain.Article{ID: id, Title: "t", SourceFeed: "f", SourceURL: "u", Keywords: keywords}
}

func TestToggleLike_OnThenOff(t *testing.T) {
	r := newFakeRepo(article(1, "go", "db"))
	p := &fakePublisher{}
	a := &fakeAdjuster{}
	svc := newSvc(r, p, a)
	ctx := context.Background()

	out, err := svc.ToggleLike(ctx, "u-1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Active || out.Type != domain.TypeLike || out.CreatedAt == nil {
		t.Fatalf("unexpected toggle-on result: %+v", out)
	}
	if len(p.events) != 1 || p.events[0].Type != activity.EventLike {
		t.Fatalf("expected one like event, got %+v", p.events)
	}
	if len(a.liked) != 1 || len(a.liked[0]) != 2 {
		t.Fatalf("interests must receive the article keywords: %+v", a.liked)
	}

	out, err = svc.ToggleLike(ctx, "u-1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Active || out.CreatedAt != nil {
		t.Fatalf("unexpected toggle-off result: %+v", out)
	}
	if len(p.events) != 2 || p.events[1].Type != activity.EventUnlike {
		t.Fatalf("expected unlike event, got %+v", p.events)
	}
	if len(a.unliked) != 1 {
		t.Fatalf("interests must see the unlike: %+v", a.unliked)
	}
}

func TestToggle_UnknownArticleIs404(t *testing.T) {
	svc := newSvc(newFakeRepo(), &fakePublisher{}, nil)

	_, err := svc.ToggleLike(context.Background(), "u-1", 99)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestToggle_PublishFailureRevertsWrite(t *testing.T) {
	r := newFakeRepo(article(1, "go"))
	p := &fakePublisher{err: perr.Unavailablef("sink closed")}
	svc := newSvc(r, p, nil)
	ctx := context.Background()

	_, err := svc.ToggleBookmark(ctx, "u-1", 1)
	if err == nil {
		t.Fatal("expected publish failure to surface")
	}
	if has, _ := r.HasInteraction(ctx, "u-1", 1, domain.TypeBookmark); has {
		t.Fatal("interaction write must be reverted when the event is rejected")
	}
}

func TestToggle_PublishFailureRestoresPriorState(t *testing.T) {
	r := newFakeRepo(article(1))
	p := &fakePublisher{}
	svc := newSvc(r, p, nil)
	ctx := context.Background()

	if _, err := svc.ToggleBookmark(ctx, "u-1", 1); err != nil {
		t.Fatal(err)
	}

	p.err = perr.Unavailablef("sink closed")
	if _, err := svc.ToggleBookmark(ctx, "u-1", 1); err == nil {
		t.Fatal("expected publish failure")
	}
	if has, _ := r.HasInteraction(ctx, "u-1", 1, domain.TypeBookmark); !has {
		t.Fatal("prior bookmark must be restored after a failed toggle-off")
	}
}

func TestToggle_InterestFailureDoesNotUndoToggle(t *testing.T) {
	r := newFakeRepo(article(1, "go"))
	a := &fakeAdjuster{err: perr.DBf("weights table gone")}
	svc := newSvc(r, &fakePublisher{}, a)
	ctx := context.Background()

	out, err := svc.ToggleLike(ctx, "u-1", 1)
	if err != nil {
		t.Fatalf("interest failures must not surface: %v", err)
	}
	if !out.Active {
		t.Fatalf("toggle should stand: %+v", out)
	}
}

func TestDetail_AttachesFlags(t *testing.T) {
	r := newFakeRepo(article(7, "go"))
	svc := newSvc(r, &fakePublisher{}, nil)
	ctx := context.Background()

	if _, err := svc.ToggleLike(ctx, "u-1", 7); err != nil {
		t.Fatal(err)
	}

	a, err := svc.Detail(ctx, "u-1", 7)
	if err != nil {
		t.Fatal(err)
	}
	if !a.IsLiked || a.IsBookmarked {
		t.Fatalf("flags wrong: liked=%v bookmarked=%v", a.IsLiked, a.IsBookmarked)
	}

	if _, err := svc.Detail(ctx, "u-1", 404); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestBookmarked_EmptyIsNotNil(t *testing.T) {
	svc := newSvc(newFakeRepo(), &fakePublisher{}, nil)

	items, err := svc.Bookmarked(context.Background(), "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if items == nil {
		t.Fatal("empty list must serialize as [], not null")
	}
}
