// Package service implements the scheduled pipeline worker.
//
// One loop, one run per day at the configured wall-clock time: collect
// and score fresh articles from the subscribed feeds, assemble the
// digest for the completed day, decay stale interest weights, and on the
// configured weekday refresh every active user's rewind report. A failing
// feed or user never aborts the run
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"curately/internal/modkit/repokit"
	perr "curately/internal/platform/errors"
	"curately/internal/platform/logger"
	"curately/internal/platform/store"
	"curately/internal/services/pipeline/domain"
)

// Config controls the schedule
type Config struct {
	// Tick is the loop granularity
	Tick time.Duration
	// RunAt is the daily wall-clock trigger, "15:04" form
	RunAt string
	// RewindWeekday is the day the weekly rewind refresh runs
	RewindWeekday time.Weekday
	// Location anchors RunAt; digests are dated in this zone
	Location *time.Location
	// RelevanceThreshold drops collected entries scoring below it
	RelevanceThreshold float64
	// MaxArticlesPerDay caps how many articles land on one newsletter date
	MaxArticlesPerDay int
	// InterestLimit bounds the aggregate profile the collector scores against
	InterestLimit int
}

func (c Config) withDefaults() Config {
	if c.Tick <= 0 {
		c.Tick = time.Minute
	}
	if c.RunAt == "" {
		c.RunAt = "06:00"
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.RelevanceThreshold <= 0 {
		c.RelevanceThreshold = 0.2
	}
	if c.MaxArticlesPerDay <= 0 {
		c.MaxArticlesPerDay = 10
	}
	if c.InterestLimit <= 0 {
		c.InterestLimit = 20
	}
	return c
}

// Svc drives the scheduled jobs
type Svc struct {
	db      repokit.TxRunner
	repo    repokit.Binder[domain.Repo]
	feeds   repokit.Binder[domain.FeedsRepo]
	fetcher domain.FeedFetcher
	digests domain.DigestGenerator
	rewind  domain.RewindRegenerator
	decayer domain.InterestDecayer
	cfg     Config
	log     logger.Logger

	lastRun time.Time
	now     func() time.Time
}

// New constructs the worker. Fetcher, feeds, rewind and decayer are
// optional; the matching stage is skipped when nil
func New(
	db repokit.TxRunner,
	repo repokit.Binder[domain.Repo],
	feeds repokit.Binder[domain.FeedsRepo],
	fetcher domain.FeedFetcher,
	digests domain.DigestGenerator,
	rewind domain.RewindRegenerator,
	decayer domain.InterestDecayer,
	cfg Config,
) *Svc {
	if db == nil {
		panic("pipeline.Svc requires a non nil TxRunner")
	}
	if repo == nil {
		panic("pipeline.Svc requires a non nil repo binder")
	}
	if digests == nil {
		panic("pipeline.Svc requires a digest generator")
	}
	return &Svc{
		db:      db,
		repo:    repo,
		feeds:   feeds,
		fetcher: fetcher,
		digests: digests,
		rewind:  rewind,
		decayer: decayer,
		cfg:     cfg.withDefaults(),
		log:     *logger.Named("pipeline"),
		now:     time.Now,
	}
}

// Run blocks until ctx is done, firing one run per day at RunAt
func (s *Svc) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := s.now().In(s.cfg.Location)
			if !s.due(now) {
				continue
			}
			sum := s.RunOnce(ctx, now)
			s.lastRun = now
			s.logSummary(sum)
		}
	}
}

// due reports whether today's trigger time has passed without a run
func (s *Svc) due(now time.Time) bool {
	at, err := time.Parse("15:04", s.cfg.RunAt)
	if err != nil {
		s.log.Error().Str("run_at", s.cfg.RunAt).Msg("pipeline bad RunAt, defaulting to 06:00")
		at, _ = time.Parse("15:04", "06:00")
	}
	trigger := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, s.cfg.Location)
	return !now.Before(trigger) && s.lastRun.Before(trigger)
}

// RunOnce executes one scheduled pass. The digest covers the previous
// day, which is complete by the time the trigger fires
func (s *Svc) RunOnce(ctx context.Context, now time.Time) domain.Summary {
	ctx = store.WithRequestID(ctx, "pipeline-"+uuid.NewString())

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	digestDate := day.AddDate(0, 0, -1)

	sum := domain.Summary{
		RunAt:      now,
		DigestDate: digestDate.Format("2006-01-02"),
		RewindRan:  now.Weekday() == s.cfg.RewindWeekday,
	}

	// fresh articles land on today's date; the digest then covers the
	// previous, completed day
	s.collect(ctx, day, &sum)

	switch err := s.digests.Generate(ctx, digestDate); {
	case err == nil:
		sum.DigestOK = true
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		s.log.Info().Str("date", sum.DigestDate).Msg("pipeline digest skipped, no articles")
	default:
		s.log.Error().Err(err).Str("date", sum.DigestDate).Msg("pipeline digest failed")
	}

	users, err := s.activeUsers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("pipeline active users lookup failed")
		return sum
	}
	sum.Users = len(users)

	for _, uid := range users {
		if s.decayer != nil {
			n, err := s.decayer.Decay(ctx, uid)
			if err != nil {
				sum.DecayFailed++
				s.log.Warn().Err(err).Str("user_id", uid).Msg("pipeline decay failed")
			} else if n > 0 {
				sum.DecayedUsers++
				sum.DecayedTotal += n
			}
		}

		if sum.RewindRan && s.rewind != nil {
			if err := s.rewind.Regenerate(ctx, uid); err != nil {
				sum.RewindFailed++
				s.log.Warn().Err(err).Str("user_id", uid).Msg("pipeline rewind regenerate failed")
				continue
			}
			sum.RewindOK++
		}
	}

	return sum
}

func (s *Svc) activeUsers(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		users, err := s.repo.Bind(q).ActiveUsers(ctx)
		out = users
		return err
	})
	return out, err
}

func (s *Svc) logSummary(sum domain.Summary) {
	s.log.Info().
		Str("digest_date", sum.DigestDate).
		Bool("digest_ok", sum.DigestOK).
		Int("feeds_ok", sum.FeedsOK).
		Int("feeds_failed", sum.FeedsFailed).
		Int("collected", sum.Collected).
		Int("scored", sum.Scored).
		Int("saved", sum.Saved).
		Int("users", sum.Users).
		Int("decayed_users", sum.DecayedUsers).
		Int("decayed_total", sum.DecayedTotal).
		Int("decay_failed", sum.DecayFailed).
		Bool("rewind_ran", sum.RewindRan).
		Int("rewind_ok", sum.RewindOK).
		Int("rewind_failed", sum.RewindFailed).
		Msg("pipeline run complete")
}
