package service

import (
	"context"
	"testing"
	"time"

	"curately/internal/modkit/repokit"
	perr "curately/internal/platform/errors"
	"curately/internal/platform/store"
	articles "curately/internal/services/api/articles/domain"
	"curately/internal/services/api/newsletters/domain"
	"curately/internal/services/api/newsletters/repo"
)

type fakeRepo struct {
	editions  []domain.Edition
	byDate    map[string][]articles.ListItem
	gotLimit  int
	gotOffset int
}

func (f *fakeRepo) Editions(_ context.Context, limit, offset int) ([]domain.Edition, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.editions, nil
}

func (f *fakeRepo) ArticlesFor(_ context.Context, _ string, date time.Time) ([]articles.ListItem, error) {
	return f.byDate[date.Format("2006-01-02")], nil
}

type passTx struct{}

func (passTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error { return fn(nil) }
func (passTx) Exec(context.Context, string, ...any) (store.CommandTag, error)  { return nil, nil }
func (passTx) Query(context.Context, string, ...any) (store.Rows, error)       { return nil, nil }
func (passTx) QueryRow(context.Context, string, ...any) store.Row              { return nil }

func newSvc(f *fakeRepo) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f })
	return New(passTx{}, binder)
}

func TestList_ClampsPage(t *testing.T) {
	f := &fakeRepo{}
	svc := newSvc(f)
	ctx := context.Background()

	if _, err := svc.List(ctx, domain.Page{Limit: 0, Offset: -5}); err != nil {
		t.Fatal(err)
	}
	if f.gotLimit != 20 || f.gotOffset != 0 {
		t.Fatalf("defaults not applied: limit=%d offset=%d", f.gotLimit, f.gotOffset)
	}

	if _, err := svc.List(ctx, domain.Page{Limit: 500, Offset: 40}); err != nil {
		t.Fatal(err)
	}
	if f.gotLimit != 100 || f.gotOffset != 40 {
		t.Fatalf("ceiling not applied: limit=%d offset=%d", f.gotLimit, f.gotOffset)
	}
}

func TestByDate_EmptyEditionIs404(t *testing.T) {
	svc := newSvc(&fakeRepo{byDate: map[string][]articles.ListItem{}})

	date := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	_, err := svc.ByDate(context.Background(), "u-1", date)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestByDate_CountsArticles(t *testing.T) {
	f := &fakeRepo{byDate: map[string][]articles.ListItem{
		"2026-08-23": {{ID: 1}, {ID: 2}},
	}}
	svc := newSvc(f)

	nl, err := svc.ByDate(context.Background(), "u-1", time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if nl.Date != "2026-08-23" || nl.ArticleCount != 2 || len(nl.Articles) != 2 {
		t.Fatalf("unexpected edition: %+v", nl)
	}
}

func TestToday_UsesCurrentDate(t *testing.T) {
	f := &fakeRepo{byDate: map[string][]articles.ListItem{
		"2026-08-27": {{ID: 9}},
	}}
	svc := newSvc(f)
	svc.now = func() time.Time { return time.Date(2026, 8, 27, 15, 4, 5, 0, time.UTC) }

	nl, err := svc.Today(context.Background(), "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if nl.Date != "2026-08-27" {
		t.Fatalf("today resolved to %q", nl.Date)
	}
}
