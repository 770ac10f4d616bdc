// Command notify performs a single notifier run and prints the report as JSON.
// It suits host cron jobs and manual reruns.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Roma7-7-7/salon-notifier/internal"
	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

var at = flag.String("at", "", "Business-local time to run at, e.g. 2024-06-10T07:00 (default: now)")

func main() {
	flag.Parse()
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	conf, err := internal.GetConfig(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // logger is not yet initialized
		return 1
	}

	log := internal.NewLogger(conf.Dev)

	var opts []internal.AppOption
	if *at != "" {
		t, err := time.ParseInLocation("2006-01-02T15:04", *at, clock.FixedZone(conf.UTCOffsetHours))
		if err != nil {
			log.ErrorContext(ctx, "failed to parse -at", "error", err, "at", *at)
			return 2 //nolint:mnd // usage error
		}
		opts = append(opts, internal.WithClock(clock.NewFixedClock(t)))
	}

	app, err := internal.NewApp(ctx, conf, log, opts...)
	if err != nil {
		log.ErrorContext(ctx, "failed to create app", "error", err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close app", "error", err)
		}
	}()

	report, err := app.Notifier.Run(ctx)
	if err != nil {
		log.ErrorContext(ctx, "run notifier", "error", err)
		return 3 //nolint:mnd // run failure
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.ErrorContext(ctx, "encode report", "error", err)
		return 1
	}
	return 0
}
