package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"curately/internal/modkit"
	"curately/internal/modkit/module"
	"curately/internal/platform/config"
	"curately/internal/platform/logger"
	"curately/internal/platform/store"

	pipemod "curately/internal/services/pipeline/module"
)

func main() {
	root := config.New()
	pipeCfg := root.Prefix("CORE_PIPELINE_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Flags
	var (
		fMode = flag.String("mode", "worker", "pipeline mode: worker | once")
		fAt   = flag.String("at", "", "once mode: pretend wall-clock time, RFC3339 (default now)")
	)
	flag.Parse()

	deps := modkit.Deps{
		Cfg: pipeCfg,
		PG:  st.PG,
		Log: *l,
	}

	pm := pipemod.New(deps)
	module.Register(pm.Name(), pm.Ports())

	runner := module.MustPortsOf[pipemod.Ports](pm).Runner

	ctx := context.Background()

	switch *fMode {
	case "worker":
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			l.Fatal().Err(err).Msg("pipeline worker stopped")
		}

	case "once":
		now := time.Now()
		if *fAt != "" {
			t, err := time.Parse(time.RFC3339, *fAt)
			if err != nil {
				l.Panic().Err(err).Str("at", *fAt).Msg("pipeline bad -at, want RFC3339")
			}
			now = t
		}
		sum := runner.RunOnce(ctx, now)
		l.Info().
			Str("digest_date", sum.DigestDate).
			Bool("digest_ok", sum.DigestOK).
			Int("users", sum.Users).
			Int("rewind_ok", sum.RewindOK).
			Int("rewind_failed", sum.RewindFailed).
			Msg("pipeline single run complete")

	default:
		l.Panic().Str("mode", *fMode).Msg("pipeline unknown -mode (expected: worker | once)")
	}
}
