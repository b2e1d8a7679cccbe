package service

import (
	"context"
	"testing"
	"time"

	"curately/internal/modkit/repokit"
	perr "curately/internal/platform/errors"
	"curately/internal/platform/store"
	"curately/internal/services/pipeline/domain"
)

type fakeDigests struct {
	dates []string
	err   error
}

func (f *fakeDigests) Generate(_ context.Context, date time.Time) error {
	f.dates = append(f.dates, date.Format("2006-01-02"))
	return f.err
}

type fakeRewind struct {
	calls  []string
	failOn string
}

func (f *fakeRewind) Regenerate(_ context.Context, userID string) error {
	f.calls = append(f.calls, userID)
	if userID == f.failOn {
		return perr.Unavailablef("analyzer down")
	}
	return nil
}

type fakeDecayer struct {
	removed map[string]int
	failOn  string
}

func (f *fakeDecayer) Decay(_ context.Context, userID string) (int, error) {
	if userID == f.failOn {
		return 0, perr.DBf("boom")
	}
	return f.removed[userID], nil
}

// fakeRepo implements domain.Repo for both the fan-out and the
// collection tests
type fakeRepo struct {
	users     []string
	existing  map[string]struct{}
	taken     int
	interests []domain.InterestWeight
	saved     []domain.CollectedArticle
}

func (f *fakeRepo) ActiveUsers(context.Context) ([]string, error) { return f.users, nil }

func (f *fakeRepo) ExistingURLs(_ context.Context, urls []string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, u := range urls {
		if _, ok := f.existing[u]; ok {
			out[u] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeRepo) CountForDate(context.Context, time.Time) (int, error) { return f.taken, nil }

func (f *fakeRepo) TopInterests(_ context.Context, limit int) ([]domain.InterestWeight, error) {
	if len(f.interests) > limit {
		return f.interests[:limit], nil
	}
	return f.interests, nil
}

func (f *fakeRepo) UpsertArticle(_ context.Context, a domain.CollectedArticle) error {
	f.saved = append(f.saved, a)
	return nil
}

type passTx struct{}

func (passTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error { return fn(nil) }
func (passTx) Exec(context.Context, string, ...any) (store.CommandTag, error)  { return nil, nil }
func (passTx) Query(context.Context, string, ...any) (store.Rows, error)       { return nil, nil }
func (passTx) QueryRow(context.Context, string, ...any) store.Row              { return nil }

func bindRepo(f *fakeRepo) repokit.Binder[domain.Repo] {
	return repokit.BindFunc[domain.Repo](func(repokit.Queryer) domain.Repo { return f })
}

func newSvc(users []string, dig *fakeDigests, rw *fakeRewind, dec *fakeDecayer, cfg Config) *Svc {
	var rwp domain.RewindRegenerator
	if rw != nil {
		rwp = rw
	}
	var decp domain.InterestDecayer
	if dec != nil {
		decp = dec
	}
	return New(passTx{}, bindRepo(&fakeRepo{users: users}), nil, nil, dig, rwp, decp, cfg)
}

// Sunday
var sunday = time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC)

func TestRunOnce_DigestCoversPreviousDay(t *testing.T) {
	dig := &fakeDigests{}
	svc := newSvc(nil, dig, nil, nil, Config{})

	sum := svc.RunOnce(context.Background(), sunday)
	if len(dig.dates) != 1 || dig.dates[0] != "2026-08-22" {
		t.Fatalf("digest dates = %v", dig.dates)
	}
	if !sum.DigestOK || sum.DigestDate != "2026-08-22" {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestRunOnce_NoArticlesIsCleanSkip(t *testing.T) {
	dig := &fakeDigests{err: perr.NotFoundf("no articles")}
	svc := newSvc(nil, dig, nil, nil, Config{})

	sum := svc.RunOnce(context.Background(), sunday)
	if sum.DigestOK {
		t.Fatal("not-found must not count as a generated digest")
	}
}

func TestRunOnce_RewindOnlyOnConfiguredWeekday(t *testing.T) {
	rw := &fakeRewind{}
	svc := newSvc([]string{"u-1", "u-2"}, &fakeDigests{}, rw, nil, Config{RewindWeekday: time.Sunday})

	monday := sunday.AddDate(0, 0, 1)
	if sum := svc.RunOnce(context.Background(), monday); sum.RewindRan || len(rw.calls) != 0 {
		t.Fatalf("rewind must not run on monday: %+v calls=%v", sum, rw.calls)
	}

	sum := svc.RunOnce(context.Background(), sunday)
	if !sum.RewindRan || sum.RewindOK != 2 || len(rw.calls) != 2 {
		t.Fatalf("rewind should cover both users: %+v calls=%v", sum, rw.calls)
	}
}

func TestRunOnce_FailingUserIsIsolated(t *testing.T) {
	rw := &fakeRewind{failOn: "u-2"}
	dec := &fakeDecayer{removed: map[string]int{"u-1": 3}, failOn: "u-3"}
	svc := newSvc([]string{"u-1", "u-2", "u-3"}, &fakeDigests{}, rw, dec, Config{RewindWeekday: time.Sunday})

	sum := svc.RunOnce(context.Background(), sunday)
	if sum.Users != 3 {
		t.Fatalf("users = %d", sum.Users)
	}
	if sum.RewindOK != 2 || sum.RewindFailed != 1 {
		t.Fatalf("rewind summary wrong: %+v", sum)
	}
	if sum.DecayedUsers != 1 || sum.DecayedTotal != 3 || sum.DecayFailed != 1 {
		t.Fatalf("decay summary wrong: %+v", sum)
	}
	// everyone got their turn despite u-2 failing
	if len(rw.calls) != 3 {
		t.Fatalf("rewind calls = %v", rw.calls)
	}
}

func TestDue_FiresOncePerDay(t *testing.T) {
	svc := newSvc(nil, &fakeDigests{}, nil, nil, Config{RunAt: "06:00"})

	early := time.Date(2026, 8, 24, 5, 59, 0, 0, time.UTC)
	if svc.due(early) {
		t.Fatal("must not fire before the trigger")
	}

	at := time.Date(2026, 8, 24, 6, 0, 0, 0, time.UTC)
	if !svc.due(at) {
		t.Fatal("must fire at the trigger")
	}
	svc.lastRun = at

	later := time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)
	if svc.due(later) {
		t.Fatal("must not fire twice the same day")
	}

	nextDay := time.Date(2026, 8, 25, 6, 1, 0, 0, time.UTC)
	if !svc.due(nextDay) {
		t.Fatal("must fire again the next day")
	}
}
