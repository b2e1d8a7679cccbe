// Package module wires the pipeline worker as a modkit.Module
package module

import (
	"context"
	"time"

	"curately/internal/adapters/feedfetch"
	"curately/internal/adapters/trends"
	"curately/internal/modkit"
	"curately/internal/modkit/httpkit"
	"curately/internal/modkit/repokit"
	"curately/internal/platform/config"

	digestsrepo "curately/internal/services/api/digests/repo"
	digestssvc "curately/internal/services/api/digests/service"
	feedsrepo "curately/internal/services/api/feeds/repo"
	interestsrepo "curately/internal/services/api/interests/repo"
	interestssvc "curately/internal/services/api/interests/service"
	rewindsvc "curately/internal/services/api/rewind/service"
	pipedom "curately/internal/services/pipeline/domain"
	pipehttp "curately/internal/services/pipeline/http"
	piperepo "curately/internal/services/pipeline/repo"
	pipesvc "curately/internal/services/pipeline/service"
)

// Ports exported by the pipeline module
type Ports struct {
	Runner pipedom.RunnerPort
}

// Module implements modkit.Module for the pipeline worker
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the pipeline module using deps.Cfg
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	digests := digestssvc.New(deps.PG, digestsrepo.NewPG())
	interests := interestssvc.New(deps.PG, interestsrepo.NewPG(), interestsConfig(deps))
	rewind := rewindsvc.New(trends.NewClient(trendsOptions()))
	fetcher := feedfetch.NewFetcher(feedfetch.Options{Timeout: opts.FetchTimeout})

	svc := pipesvc.New(
		deps.PG,
		piperepo.NewPG(),
		feedsBinder{b: feedsrepo.NewPG()},
		fetcher,
		digestGen{svc: digests},
		rewindGen{svc: rewind},
		interests,
		pipesvc.Config{
			Tick:               opts.Tick,
			RunAt:              opts.RunAt,
			RewindWeekday:      opts.RewindWeekday,
			Location:           loadLocation(opts.Timezone),
			RelevanceThreshold: opts.RelevanceThreshold,
			MaxArticlesPerDay:  opts.MaxArticles,
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

func interestsConfig(deps modkit.Deps) interestssvc.Config {
	cfg := deps.Cfg.Prefix("INTERESTS_")
	return interestssvc.Config{
		DecayFactor:       cfg.MayFloat64("DECAY_FACTOR", 0),
		DecayIntervalDays: cfg.MayInt("DECAY_INTERVAL_DAYS", 0),
	}
}

// the analyzer is one shared collaborator, so its env block lives at the
// root (TRENDS_BASE_URL and friends) rather than under a service prefix
func trendsOptions() trends.Options {
	cfg := config.New().Prefix("TRENDS_")
	return trends.Options{
		BaseURL:      cfg.MustString("BASE_URL"),
		ServiceToken: cfg.MayString("SERVICE_TOKEN", ""),
		Timeout:      cfg.MayDuration("HTTP_TIMEOUT", 0),
		MaxRetries:   cfg.MayInt("MAX_RETRIES", 0),
	}
}

// feedsBinder narrows the feeds store to the collector's contract
type feedsBinder struct {
	b repokit.Binder[feedsrepo.Repo]
}

func (f feedsBinder) Bind(q repokit.Queryer) pipedom.FeedsRepo {
	return feedsPort{r: f.b.Bind(q)}
}

type feedsPort struct{ r feedsrepo.Repo }

func (p feedsPort) ListActive(ctx context.Context) ([]pipedom.Feed, error) {
	feeds, err := p.r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]pipedom.Feed, 0, len(feeds))
	for _, f := range feeds {
		out = append(out, pipedom.Feed{ID: f.ID, Name: f.Name, URL: f.URL})
	}
	return out, nil
}

func (p feedsPort) TouchFetched(ctx context.Context, id int64) error {
	return p.r.TouchFetched(ctx, id)
}

// digestGen narrows the digests service to the error-only contract
type digestGen struct{ svc digestssvc.Service }

func (g digestGen) Generate(ctx context.Context, date time.Time) error {
	_, err := g.svc.Generate(ctx, date)
	return err
}

// rewindGen narrows the rewind service the same way
type rewindGen struct{ svc rewindsvc.Service }

func (g rewindGen) Regenerate(ctx context.Context, userID string) error {
	_, err := g.svc.Regenerate(ctx, userID)
	return err
}

// Name returns the module name
func (m *Module) Name() string { return "pipeline" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return "/pipeline" }

// MountRoutes mounts the manual trigger under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(rr httpkit.Router) {
		pipehttp.Register(rr, m.ports.Runner)
	})
}
