package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signtrack/internal/modkit"
	"signtrack/internal/modkit/repokit"
	"signtrack/internal/platform/config"
	"signtrack/internal/platform/logger"
	phttp "signtrack/internal/platform/net/http"
	"signtrack/internal/platform/net/middleware"
	"signtrack/internal/platform/store"

	"signtrack/internal/clients/detector"
	hubdom "signtrack/internal/services/hub/domain"
	hubmod "signtrack/internal/services/hub/module"
)

// detectorRelay adapts the recognizer client to the hub relay port
type detectorRelay struct{ c *detector.Client }

func (d detectorRelay) Latest(ctx context.Context) (hubdom.Sample, error) {
	s, err := d.c.Latest(ctx)
	if err != nil {
		return hubdom.Sample{}, err
	}
	return hubdom.Sample{Sign: s.Label, Conf: s.Confidence, Filipino: s.Filipino}, nil
}

func main() {
	root := config.New()
	apiCfg := root.Prefix("API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	detectorCfg := root.Prefix("DETECTOR_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(ctx, store.Config{
		AppName: "signtrack-api",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: chURL != "",
			URL:     chURL,
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

	// fail fast when any configured backend is unreachable
	repokit.MustGuard(ctx, st)

	deps := modkit.Deps{
		Log: *l,
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
	}

	var relay hubdom.RelayPort
	if url := detectorCfg.MayString("URL", ""); url != "" {
		relay = detectorRelay{c: detector.NewClient(detector.Options{
			BaseURL:   url,
			UserAgent: "signtrack-api",
			Timeout:   detectorCfg.MayDuration("TIMEOUT", 2*time.Second),
		})}
	}

	mod := hubmod.New(deps, modkit.WithPorts(hubmod.Ports{Relay: relay}))
	if err := mod.Migrate(ctx); err != nil {
		l.Panic().Err(err).Msg("hub schema migrate failed")
	}

	srv := phttp.NewServer(apiCfg)
	r := srv.Router()
	r.Use(
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Logging,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),
		middleware.RecoverJSON,
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Heartbeat("/healthz"),
	)
	mod.MountRoutes(r)

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		l.Fatal().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("api shut down")
}
