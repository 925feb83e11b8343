// Package cli wires the imgfetch commands: argument validation, settings
// loading and dispatch into the fetch pipeline.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/utm-trs/imgfetch/pkg/config"
	"github.com/utm-trs/imgfetch/pkg/fetch"
	"github.com/utm-trs/imgfetch/pkg/logger"
	"github.com/utm-trs/imgfetch/pkg/manifest"
	"github.com/utm-trs/imgfetch/pkg/storage"

	// Import backends to register them
	_ "github.com/utm-trs/imgfetch/pkg/storage/backblaze"
	_ "github.com/utm-trs/imgfetch/pkg/storage/local"
	_ "github.com/utm-trs/imgfetch/pkg/storage/s3"
	_ "github.com/utm-trs/imgfetch/pkg/storage/ssh"
)

// ConfigFile is bound to the root --config flag
var ConfigFile string

// setup builds the effective settings (.env file, JSON settings file, S3_*
// environment) and initializes logging. Nothing reads the environment after
// this point; the settings value is passed explicitly from here on.
func setup(ctx context.Context) (*config.Settings, zerolog.Logger, error) {
	_ = godotenv.Load() // no .env file is the normal case outside docker-compose

	settings, err := config.Load(ctx, ConfigFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	logger.Init(settings.GetLogLevel(), settings.GetLogFormat())
	return settings, *logger.Get(), nil
}

// openSource creates the configured image source backend
func openSource(ctx context.Context, settings *config.Settings) (storage.Backend, error) {
	factory := storage.NewFactory()
	backend, err := factory.Create(ctx, storage.Config{
		Name:    "image_store",
		Type:    settings.SourceType(),
		Options: settings.SourceOptions(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open image store: %w", err)
	}
	return backend, nil
}

// runFetch drives the whole download: source backend, scratch directory,
// parallel fetch, summary. It fails when the manifest is empty or when not
// a single image could be downloaded.
func runFetch(ctx context.Context, settings *config.Settings, log zerolog.Logger, names []string, collection, outputFolder string) error {
	if len(names) == 0 {
		return manifest.ErrNoPaths
	}
	log.Info().Int("paths", len(names)).Msg("manifest loaded")

	backend, err := openSource(ctx, settings)
	if err != nil {
		return err
	}
	defer backend.Close()

	// Stale scratch dirs from crashed runs age out at twice the URL expiry,
	// same horizon the server side uses for its own temp cleanup.
	tmp, err := fetch.NewTempDir(settings.GetTempDir(), 2*settings.S3.GetURLExpiry(), log)
	if err != nil {
		return err
	}
	defer tmp.Remove()

	fetcher := fetch.NewFetcher(backend, tmp, collection, log)
	summary, err := fetcher.FetchAll(ctx, names, outputFolder, settings.GetConcurrency())
	if err != nil {
		return err
	}

	if summary.Downloaded == 0 {
		return fmt.Errorf("no images downloaded (%d missing, %d failed)", summary.Missing, summary.Failed)
	}

	log.Info().
		Int("downloaded", summary.Downloaded).
		Str("output", outputFolder).
		Msg("done")
	return nil
}

// outputArg resolves the optional output-folder positional. Omitted or
// empty means the default; anything else is used exactly as given.
func outputArg(args []string, idx int) string {
	if len(args) > idx && args[idx] != "" {
		return args[idx]
	}
	return config.DefaultOutputFolder
}
