// Package api provides the HTTP API for the application
package api

import (
	"curately/internal/platform/config"
	"curately/internal/platform/logger"
	phttp "curately/internal/platform/net/http"
	"curately/internal/platform/store"

	"curately/internal/adapters/trends"
	"curately/internal/modkit"
	"curately/internal/modkit/httpkit"
	"curately/internal/modkit/module"
	"curately/internal/modkit/swaggerkit"

	activitysvc "curately/internal/services/activity/service"
	articlesmod "curately/internal/services/api/articles/module"
	authmod "curately/internal/services/api/auth/module"
	digestsmod "curately/internal/services/api/digests/module"
	feedsmod "curately/internal/services/api/feeds/module"
	interestsmod "curately/internal/services/api/interests/module"
	metamod "curately/internal/services/api/meta/module"
	newslettersmod "curately/internal/services/api/newsletters/module"
	rewindmod "curately/internal/services/api/rewind/module"
	pipelinemod "curately/internal/services/pipeline/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router.
// The returned cleanup drains the activity sink; call it on shutdown
func Mount(r phttp.Router, opt Options) (cleanup func()) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// one analyzer client shared by rewind and the readiness probe
	trendsClient := trends.NewClient(trendsOptions())

	// activity sink owns the CH event stream; articles publishes into it
	sink := activitysvc.NewSink(deps.CH, activityOptions(deps.Cfg))

	// interests first so articles can borrow its Adjuster port
	interestsModule := interestsmod.New(deps)
	adjuster := module.MustPortsOf[interestsmod.Ports](interestsModule).Adjuster

	authModule := authmod.New(deps)
	authPort := module.MustPortsOf[authmod.Ports](authModule).Auth

	// the manual trigger endpoint runs the same worker the pipeline binary
	// schedules, so its env block keeps the worker's prefix in both
	pipeDeps := deps
	pipeDeps.Cfg = config.New().Prefix("CORE_PIPELINE_")
	pipelineModule := pipelinemod.New(pipeDeps)

	mods := []module.Module{
		authModule,
		interestsModule,
		feedsmod.New(deps),
		articlesmod.New(deps, modkit.WithPorts(articlesmod.Ports{
			Publisher: sink,
			Adjuster:  adjuster,
		})),
		newslettersmod.New(deps),
		digestsmod.New(deps),
		rewindmod.New(deps, modkit.WithPorts(trendsClient)),
		pipelineModule,
	}
	meta := metamod.New(deps, modkit.WithPorts(metamod.Ports{Trends: trendsClient}))

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		// probes stay unauthenticated
		module.Register(meta.Name(), meta.Ports())
		meta.MountRoutes(api)

		httpkit.Protected(api, authPort, func(sec httpkit.Router) {
			for _, m := range mods {
				// register each module's ports under its own name (for cross-module lookups)
				module.Register(m.Name(), m.Ports())

				// mount module routes under its Prefix()
				m.MountRoutes(sec)
			}
		})
	})

	return func() { sink.Close() }
}

// the analyzer is one shared collaborator, so its env block lives at the
// root (TRENDS_BASE_URL and friends) rather than under a service prefix
func trendsOptions() trends.Options {
	v := config.New().Prefix("TRENDS_")
	return trends.Options{
		BaseURL:      v.MustString("BASE_URL"),
		ServiceToken: v.MayString("SERVICE_TOKEN", ""),
		Timeout:      v.MayDuration("HTTP_TIMEOUT", 0),
		MaxRetries:   v.MayInt("MAX_RETRIES", 0),
	}
}

func activityOptions(cfg config.Conf) activitysvc.Options {
	v := cfg.Prefix("ACTIVITY_")
	return activitysvc.Options{
		Buffer:        v.MayInt("BUFFER", 0),
		FlushEvery:    v.MayDuration("FLUSH_EVERY", 0),
		FlushMaxBatch: v.MayInt("FLUSH_MAX_BATCH", 0),
	}
}
