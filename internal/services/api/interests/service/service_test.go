package service

import (
	"context"
	"testing"
	"time"

	"curately/internal/modkit/repokit"
	"curately/internal/platform/store"
	"curately/internal/services/api/interests/domain"
	"curately/internal/services/api/interests/repo"
)

type memRepo struct {
	nextID  int64
	entries map[string]*domain.Interest // keyword -> entry, single test user
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, entries: map[string]*domain.Interest{}}
}

func (m *memRepo) List(_ context.Context, _ string) ([]domain.Interest, error) {
	out := make([]domain.Interest, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (m *memRepo) WeightsFor(_ context.Context, _ string, keywords []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, kw := range keywords {
		if e, ok := m.entries[kw]; ok {
			out[kw] = e.Weight
		}
	}
	return out, nil
}

func (m *memRepo) Upsert(_ context.Context, _, keyword string, weight float64, source string) error {
	if e, ok := m.entries[keyword]; ok {
		e.Weight = weight
		e.Source = &source
		return nil
	}
	src := source
	m.entries[keyword] = &domain.Interest{ID: m.nextID, Keyword: keyword, Weight: weight, Source: &src}
	m.nextID++
	return nil
}

func (m *memRepo) DeleteKeyword(_ context.Context, _, keyword string) error {
	delete(m.entries, keyword)
	return nil
}

func (m *memRepo) StaleOlderThan(_ context.Context, _ string, cutoff time.Time) ([]domain.Interest, error) {
	var out []domain.Interest
	for _, e := range m.entries {
		if e.UpdatedAt.Before(cutoff) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memRepo) SetWeightByID(_ context.Context, id int64, weight float64) error {
	for _, e := range m.entries {
		if e.ID == id {
			e.Weight = weight
			e.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (m *memRepo) DeleteByID(_ context.Context, id int64) error {
	for kw, e := range m.entries {
		if e.ID == id {
			delete(m.entries, kw)
		}
	}
	return nil
}

type passTx struct{}

func (passTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error { return fn(nil) }
func (passTx) Exec(context.Context, string, ...any) (store.CommandTag, error)  { return nil, nil }
func (passTx) Query(context.Context, string, ...any) (store.Rows, error)       { return nil, nil }
func (passTx) QueryRow(context.Context, string, ...any) store.Row              { return nil }

func newSvc(m *memRepo) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
	return New(passTx{}, binder, Config{})
}

func TestAdjustOnLike_InsertsAndIncrements(t *testing.T) {
	m := newMemRepo()
	svc := newSvc(m)
	ctx := context.Background()

	if err := svc.AdjustOnLike(ctx, "u-1", []string{"go", "db"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.AdjustOnLike(ctx, "u-1", []string{"go"}); err != nil {
		t.Fatal(err)
	}

	if w := m.entries["go"].Weight; w < 0.19 || w > 0.21 {
		t.Fatalf("go weight = %v, want ~0.2", w)
	}
	if w := m.entries["db"].Weight; w < 0.09 || w > 0.11 {
		t.Fatalf("db weight = %v, want ~0.1", w)
	}
}

func TestAdjustOnLike_FoldsKeywordSpellings(t *testing.T) {
	m := newMemRepo()
	svc := newSvc(m)

	if err := svc.AdjustOnLike(context.Background(), "u-1", []string{"Docker", "docker", " DOCKER "}); err != nil {
		t.Fatal(err)
	}

	if len(m.entries) != 1 {
		t.Fatalf("entries = %d, want one folded row", len(m.entries))
	}
	if w := m.entries["docker"].Weight; w < 0.09 || w > 0.11 {
		t.Fatalf("docker weight = %v, want one bump ~0.1", w)
	}
}

func TestAdjustOnLike_ClampsAtCeiling(t *testing.T) {
	m := newMemRepo()
	_ = m.Upsert(context.Background(), "u-1", "go", 4.97, "interaction")
	svc := newSvc(m)

	if err := svc.AdjustOnLike(context.Background(), "u-1", []string{"go"}); err != nil {
		t.Fatal(err)
	}
	if w := m.entries["go"].Weight; w != 5.0 {
		t.Fatalf("weight = %v, want clamp at 5.0", w)
	}
}

func TestAdjustOnUnlike_RemovesAtZero(t *testing.T) {
	m := newMemRepo()
	_ = m.Upsert(context.Background(), "u-1", "go", 0.1, "interaction")
	_ = m.Upsert(context.Background(), "u-1", "db", 0.5, "interaction")
	svc := newSvc(m)

	if err := svc.AdjustOnUnlike(context.Background(), "u-1", []string{"go", "db", "ghost"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.entries["go"]; ok {
		t.Fatal("go should be removed at zero weight")
	}
	if w := m.entries["db"].Weight; w < 0.39 || w > 0.41 {
		t.Fatalf("db weight = %v, want ~0.4", w)
	}
	if _, ok := m.entries["ghost"]; ok {
		t.Fatal("unknown keywords must not be created on unlike")
	}
}

func TestDecay_DownWeightsAndRemoves(t *testing.T) {
	m := newMemRepo()
	old := time.Now().AddDate(0, 0, -30)
	src := "interaction"
	m.entries["stale"] = &domain.Interest{ID: 1, Keyword: "stale", Weight: 1.0, Source: &src, UpdatedAt: old}
	m.entries["tiny"] = &domain.Interest{ID: 2, Keyword: "tiny", Weight: 0.01, Source: &src, UpdatedAt: old}
	m.entries["fresh"] = &domain.Interest{ID: 3, Keyword: "fresh", Weight: 1.0, Source: &src, UpdatedAt: time.Now()}
	m.nextID = 4
	svc := newSvc(m)

	n, err := svc.Decay(context.Background(), "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("changed = %d, want 2", n)
	}
	if w := m.entries["stale"].Weight; w < 0.89 || w > 0.91 {
		t.Fatalf("stale weight = %v, want ~0.9", w)
	}
	if _, ok := m.entries["tiny"]; ok {
		t.Fatal("tiny should fall below the floor and be removed")
	}
	if w := m.entries["fresh"].Weight; w != 1.0 {
		t.Fatalf("fresh must be untouched, got %v", w)
	}
}
