package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"StockVault/internal/config"
	"StockVault/internal/fetcher"
	"StockVault/internal/notifier"
	"StockVault/internal/pipeline"
	"StockVault/internal/recorder"
	"StockVault/internal/storage"
)

// App bundles the wired components for one invocation.
type App struct {
	Cfg      *config.Config
	Runner   *pipeline.Runner
	Recorder recorder.Recorder
	Log      zerolog.Logger
}

// Close releases resources held by the app.
func (a *App) Close() {
	if err := a.Recorder.Close(); err != nil {
		a.Log.Error().Err(err).Msg("close recorder")
	}
}

// Setup loads configuration and builds every pipeline collaborator.
func Setup(ctx context.Context) (*App, error) {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	var client fetcher.Client
	if cfg.MockMode {
		client = &fetcher.Mock{}
	} else {
		client = fetcher.NewAlphaVantage(cfg.API.BaseURL, cfg.API.Key, cfg.APITimeout(), cfg.API.MaxRetries, log)
	}
	log.Info().Str("source", client.Name()).Msg("data source initialized")

	var api storage.ObjectAPI
	disabled := cfg.Storage.Disabled || cfg.MockMode
	if !disabled {
		s3c, err := storage.NewS3Client(ctx, cfg.Storage.Bucket, cfg.Storage.Region, log)
		if err != nil {
			return nil, fmt.Errorf("init s3 client: %w", err)
		}
		api = s3c
	}
	store := storage.NewAtomicStore(api, disabled, log)

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Notify.SlackWebhookURL != "" {
		notif = notifier.NewSlack(cfg.Notify.SlackWebhookURL, log)
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoop()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoop()
	}

	runner := pipeline.NewRunner(client, store, notif, rec, cfg.Storage.Prefix, log)

	return &App{Cfg: cfg, Runner: runner, Recorder: rec, Log: log}, nil
}
