// Package service owns the per-user rewind session state
package service

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"curately/internal/core/keywords"
	"curately/internal/core/rewind"
	perr "curately/internal/platform/errors"
	"curately/internal/services/api/rewind/domain"
)

// Service defines the rewind service contract
type Service interface {
	domain.ServicePort
}

// session is the mutable per-user state. Presentation reads derived values
// only; the invariants live in the commit paths below
type session struct {
	// epoch guards against stale commits: a load or regenerate started
	// against an older epoch is a no-op on return
	epoch uint64

	loaded     bool
	loading    bool
	generating bool
	state      string
	errMsg     string

	latest     *rewind.Report
	history    []rewind.Report
	selectedID *int64
}

// Svc implements the rewind service
type Svc struct {
	src domain.ReportSource

	mu       sync.Mutex
	sessions map[string]*session
}

// New constructs a rewind service
func New(src domain.ReportSource) *Svc {
	if src == nil {
		panic("rewind.Service requires a non nil ReportSource")
	}
	return &Svc{src: src, sessions: make(map[string]*session)}
}

// session returns the user's session, creating it on first touch. mu held
func (s *Svc) session(userID string) *session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{state: domain.StateLoading}
		s.sessions[userID] = sess
	}
	return sess
}

// View returns the current session view, loading it on first touch
func (s *Svc) View(ctx context.Context, userID string) (domain.View, error) {
	s.mu.Lock()
	sess := s.session(userID)
	needLoad := !sess.loaded && !sess.loading
	s.mu.Unlock()

	if needLoad {
		return s.Refresh(ctx, userID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(s.session(userID)), nil
}

// Refresh fetches latest and history concurrently and commits both or
// neither. A missing latest is not an error: the user has no reports yet
func (s *Svc) Refresh(ctx context.Context, userID string) (domain.View, error) {
	s.mu.Lock()
	sess := s.session(userID)
	epoch := sess.epoch
	sess.loading = true
	if !sess.loaded {
		sess.state = domain.StateLoading
	}
	s.mu.Unlock()

	var (
		latestRaw *rewind.RawReport
		histRaw   []rewind.RawReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.src.Latest(gctx, userID)
		if err != nil {
			if perr.IsCode(err, perr.ErrorCodeNotFound) {
				return nil
			}
			return err
		}
		latestRaw = &r
		return nil
	})
	g.Go(func() error {
		rs, err := s.src.History(gctx, userID)
		if err != nil {
			if perr.IsCode(err, perr.ErrorCodeNotFound) {
				return nil
			}
			return err
		}
		histRaw = rs
		return nil
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess = s.session(userID)
	if sess.epoch != epoch {
		// session was reset while we were in flight; commit nothing
		return s.viewLocked(sess), nil
	}
	sess.loading = false

	if err != nil {
		// previous data stays; only the state and message change
		sess.state = domain.StateError
		sess.errMsg = err.Error()
		return s.viewLocked(sess), nil
	}

	var latest *rewind.Report
	if latestRaw != nil {
		r := rewind.Normalize(*latestRaw)
		latest = &r
	}
	sess.latest = latest
	sess.history = normalizeHistory(histRaw)
	sess.loaded = true
	sess.state = domain.StateReady
	sess.errMsg = ""
	return s.viewLocked(sess), nil
}

// Latest returns the newest report or not-found when none exist yet
func (s *Svc) Latest(ctx context.Context, userID string) (rewind.Report, error) {
	if err := s.ensureLoaded(ctx, userID); err != nil {
		return rewind.Report{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(userID)
	if sess.latest == nil {
		return rewind.Report{}, perr.NotFoundf("no rewind reports yet")
	}
	return *sess.latest, nil
}

// ByID returns one report from the session by id
func (s *Svc) ByID(ctx context.Context, userID string, id int64) (rewind.Report, error) {
	if err := s.ensureLoaded(ctx, userID); err != nil {
		return rewind.Report{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(userID)
	for _, h := range sess.history {
		if h.ID == id {
			return h, nil
		}
	}
	if sess.latest != nil && sess.latest.ID == id {
		return *sess.latest, nil
	}
	return rewind.Report{}, perr.NotFoundf("rewind report %d not found", id)
}

// Regenerate asks the analyzer for a fresh report. On success the new report
// replaces or is prepended to history (one entry per id) and the selection
// resets so it becomes active. On failure the prior state is preserved,
// including a manual selection. Concurrent calls are last-write-wins
func (s *Svc) Regenerate(ctx context.Context, userID string) (rewind.Report, error) {
	s.mu.Lock()
	sess := s.session(userID)
	epoch := sess.epoch
	sess.generating = true
	s.mu.Unlock()

	raw, err := s.src.Generate(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	sess = s.session(userID)
	if sess.epoch != epoch {
		if err != nil {
			return rewind.Report{}, err
		}
		// stale: hand the report back without committing
		return rewind.Normalize(raw), nil
	}
	sess.generating = false

	if err != nil {
		return rewind.Report{}, err
	}

	rep := rewind.Normalize(raw)
	sess.latest = &rep
	sess.history = mergeReport(sess.history, rep)
	sess.selectedID = nil
	sess.loaded = true
	sess.state = domain.StateReady
	sess.errMsg = ""
	return rep, nil
}

// Select pins the active report id; nil returns to follow-latest
func (s *Svc) Select(_ context.Context, userID string, reportID *int64) (domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(userID)
	sess.selectedID = reportID
	return s.viewLocked(sess), nil
}

// Reset drops the session so in-flight work against it commits nothing
func (s *Svc) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.sessions[userID]
	next := &session{state: domain.StateLoading}
	if old != nil {
		next.epoch = old.epoch + 1
	}
	s.sessions[userID] = next
}

// ensureLoaded performs the initial load when the session is empty
func (s *Svc) ensureLoaded(ctx context.Context, userID string) error {
	s.mu.Lock()
	sess := s.session(userID)
	needLoad := !sess.loaded
	s.mu.Unlock()
	if !needLoad {
		return nil
	}
	view, err := s.Refresh(ctx, userID)
	if err != nil {
		return err
	}
	if view.State == domain.StateError {
		return perr.Unavailablef("%s", view.Error)
	}
	return nil
}

// viewLocked derives the presentation payload. mu held.
// Selection resolution never yields a dangling reference: an unknown
// selected id falls back to latest
func (s *Svc) viewLocked(sess *session) domain.View {
	v := domain.View{
		State:      sess.state,
		Error:      sess.errMsg,
		Loading:    sess.loading,
		Generating: sess.generating,
		SelectedID: sess.selectedID,
		Latest:     sess.latest,
		History:    sess.history,
	}
	if v.History == nil {
		v.History = []rewind.Report{}
	}
	v.Active = s.activeLocked(sess)
	v.Recurring = recurringTopics(v.Active, sess.history)
	return v
}

// recurringTopics lists the active report's hot topics that already appeared
// in an older report, compared by their folded form
func recurringTopics(active *rewind.Report, history []rewind.Report) []string {
	if active == nil || len(active.HotTopics) == 0 {
		return nil
	}
	prior := make(map[string]struct{})
	for _, h := range history {
		if h.ID == active.ID || h.PeriodEnd.After(active.PeriodEnd) {
			continue
		}
		for _, t := range h.HotTopics {
			prior[keywords.Canonical(t.Topic)] = struct{}{}
		}
	}
	var out []string
	for _, t := range active.HotTopics {
		if _, ok := prior[keywords.Canonical(t.Topic)]; ok {
			out = append(out, t.Topic)
		}
	}
	return out
}

func (s *Svc) activeLocked(sess *session) *rewind.Report {
	if sess.selectedID == nil {
		return sess.latest
	}
	for i := range sess.history {
		if sess.history[i].ID == *sess.selectedID {
			return &sess.history[i]
		}
	}
	return sess.latest
}

// normalizeHistory normalizes, sorts newest-first, and dedups by id
func normalizeHistory(raws []rewind.RawReport) []rewind.Report {
	out := make([]rewind.Report, 0, len(raws))
	for _, r := range raws {
		out = append(out, rewind.Normalize(r))
	}
	sortReports(out)
	return dedupByID(out)
}

// mergeReport replaces the entry with the same id in place or prepends, then
// restores newest-first order. Same id never appears twice
func mergeReport(history []rewind.Report, rep rewind.Report) []rewind.Report {
	out := make([]rewind.Report, 0, len(history)+1)
	replaced := false
	for _, h := range history {
		if h.ID == rep.ID {
			out = append(out, rep)
			replaced = true
			continue
		}
		out = append(out, h)
	}
	if !replaced {
		out = append([]rewind.Report{rep}, out...)
	}
	sortReports(out)
	return out
}

func sortReports(rs []rewind.Report) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].PeriodEnd.After(rs[j].PeriodEnd)
	})
}

func dedupByID(rs []rewind.Report) []rewind.Report {
	seen := make(map[int64]struct{}, len(rs))
	out := rs[:0]
	for _, r := range rs {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
