package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Roma7-7-7/salon-notifier/internal"
	"github.com/Roma7-7-7/salon-notifier/internal/api"
	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

var (
	Version   = "dev"     //nolint:gochecknoglobals // version is a global variable
	BuildTime = "unknown" //nolint:gochecknoglobals // build time is a global variable
)

const runTimeout = time.Minute

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	cancel()
	os.Exit(exitCode)
}

func run(ctx context.Context) int {
	conf, err := internal.GetConfig(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // logger is not yet initialized
		return 1
	}

	log := internal.NewLogger(conf.Dev)
	log.InfoContext(ctx, "salon-notifier daemon starting", "version", Version, "build_time", BuildTime)

	app, err := internal.NewApp(ctx, conf, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to create app", "error", err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close app", "error", err)
		}
	}()

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(clock.FixedZone(conf.UTCOffsetHours)))
	if err != nil {
		log.ErrorContext(ctx, "failed to create scheduler", "error", err)
		return 1
	}

	notifierJob, err := scheduler.NewJob(
		gocron.CronJob(conf.Schedule, false),
		gocron.NewTask(func() {
			runCtx, cancel := context.WithTimeout(ctx, runTimeout)
			defer cancel()
			if _, err := app.Notifier.Run(runCtx); err != nil {
				log.ErrorContext(runCtx, "failed to run notifier", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.ErrorContext(ctx, "failed to create notifier job", "error", err, "schedule", conf.Schedule)
		return 1
	}

	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.ErrorContext(ctx, "failed to shutdown scheduler", "error", err)
		}
	}()

	nextRun, err := notifierJob.NextRun()
	if err != nil {
		log.WarnContext(ctx, "failed to get notifier next run time", "error", err)
	}
	log.InfoContext(ctx, "starting daemon",
		"schedule", conf.Schedule,
		"next_run", nextRun,
		"utc_offset_hours", conf.UTCOffsetHours,
		"listen_addr", conf.ListenAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Serve(gctx, conf.ListenAddr, api.NewRouter(app.API, app.Registry, log), log)
	})

	if conf.PollCommands {
		bot, err := app.NewBot(ctx)
		if err != nil {
			// commands stay available through the webhook
			log.WarnContext(ctx, "command polling disabled", "error", err)
		} else {
			g.Go(func() error {
				return bot.Start(gctx)
			})
		}
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.ErrorContext(ctx, "daemon failed", "error", err)
		return 1
	}

	log.InfoContext(ctx, "daemon stopped")
	return 0
}
