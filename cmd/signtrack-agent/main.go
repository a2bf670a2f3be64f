package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signtrack/internal/modkit"
	"signtrack/internal/platform/config"
	"signtrack/internal/platform/logger"
	phttp "signtrack/internal/platform/net/http"
	"signtrack/internal/platform/net/middleware"
	"signtrack/internal/platform/store"

	"signtrack/internal/clients/detector"
	"signtrack/internal/clients/hub"
	adom "signtrack/internal/services/analytics/domain"
	analyticsmod "signtrack/internal/services/analytics/module"
	pdom "signtrack/internal/services/progress/domain"
	progressmod "signtrack/internal/services/progress/module"
	syncermod "signtrack/internal/services/syncer/module"
	trackermod "signtrack/internal/services/tracker/module"
)

func main() {
	root := config.New()
	agentCfg := root.Prefix("AGENT_")
	detectorCfg := root.Prefix("DETECTOR_")
	hubCfg := root.Prefix("HUB_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// local durable state (progress + analytics records)
	st, err := store.Open(ctx, store.Config{
		AppName: "signtrack-agent",
		KV: store.KVConfig{
			Enabled: true,
			Path:    agentCfg.MayString("STATE_PATH", "signtrack.db"),
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

	detectorClient := detector.NewClient(detector.Options{
		BaseURL: detectorCfg.MayString("URL", "http://127.0.0.1:5000"),
		Timeout: detectorCfg.MayDuration("TIMEOUT", 2*time.Second),
	})
	hubClient := hub.NewClient(hub.Options{
		BaseURL: hubCfg.MayString("URL", "http://127.0.0.1:8000"),
		Timeout: hubCfg.MayDuration("TIMEOUT", 5*time.Second),
		User:    hubCfg.MayString("USER", ""),
	})

	deps := modkit.Deps{
		Log: *l,
		Cfg: root,
		KV:  st.KV,
	}

	onLevelUp := func(_ context.Context, from, to int) {
		l.Info().Int("from", from).Int("to", to).Msg("level up")
	}

	progressMod := progressmod.New(deps, onLevelUp)
	analyticsMod := analyticsmod.New(deps)

	progressPort := progressMod.Ports().(pdom.ProgressPort)

	trackerMod := trackermod.New(deps,
		modkit.WithPorts(trackermod.Ports{
			Detector:  detectorClient,
			Sink:      hubClient,
			Progress:  progressPort,
			Analytics: analyticsMod.Ports().(adom.AnalyticsPort),
		}),
	)
	syncerMod := syncermod.New(deps,
		modkit.WithPorts(syncermod.Ports{
			Progress: progressPort,
			Pusher:   hubClient,
		}),
	)

	// settle streak continuity for today before any commit or sync runs
	if st2, err := progressPort.RecomputeStreak(ctx); err != nil {
		l.Warn().Err(err).Msg("boot streak recompute failed")
	} else {
		l.Info().Int("streak_days", st2.StreakDays).Msg("streak recomputed")
	}

	srv := phttp.NewServer(agentCfg)
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

	progressMod.MountRoutes(r)
	analyticsMod.MountRoutes(r)
	trackerMod.MountRoutes(r)

	errCh := make(chan error, 4)
	go func() { errCh <- analyticsMod.Run(ctx) }()
	go func() { errCh <- trackerMod.Run(ctx) }()
	go func() { errCh <- syncerMod.Run(ctx) }()

	if agentCfg.MayBool("AUTOSTART", false) {
		trackerMod.StartPolling()
	}

	go func() { errCh <- srv.Run(ctx) }()

	err = <-errCh
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Fatal().Err(err).Msg("agent stopped")
	}
	l.Info().Msg("agent shut down")
}
