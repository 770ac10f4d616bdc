package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/Roma7-7-7/salon-notifier/internal"
	lambdahandler "github.com/Roma7-7-7/salon-notifier/internal/lambda"
)

func main() {
	ctx := context.Background()

	conf, err := internal.GetConfig(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // logger is not yet initialized
		os.Exit(1)
	}

	log := internal.NewLogger(conf.Dev)

	app, err := internal.NewApp(ctx, conf, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to create app", "error", err)
		os.Exit(1)
	}

	handler := lambdahandler.NewHandler(app.API, log)
	lambda.Start(handler.HandleRequest)
}
