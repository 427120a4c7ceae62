package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"spese/internal/amqp"
	"spese/internal/cli"
	"spese/internal/log"
	"spese/internal/sheets"
	gsheet "spese/internal/sheets/google"
	"spese/internal/worker"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		os.Stderr.WriteString("load .env: " + err.Error() + "\n")
	}
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Stdout)
	cfg := cli.LoadAndValidateConfig(logger)
	logger.Info("Starting spese-worker", log.FieldBackend, cfg.DataBackend)

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	// The worker only reads the ledger; it never publishes events itself.
	readCfg := *cfg
	readCfg.AMQPURL = ""
	res, err := cli.OpenBackend(ctx, &readCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err)
		os.Exit(1)
	}
	defer res.Cleanup()

	var mirror sheets.LedgerMirror
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		mirror = client
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	w := worker.NewMirrorWorker(res.Store, mirror, cfg.ExportPath, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx, cfg.SyncInterval)
	})

	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		g.Go(func() error {
			return client.ConsumeLedgerEvents(gctx, w.HandleLedgerEvent)
		})
	} else {
		logger.Info("AMQP disabled - relying on periodic sync", "interval", cfg.SyncInterval)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
