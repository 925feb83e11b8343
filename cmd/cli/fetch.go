package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utm-trs/imgfetch/pkg/manifest"
)

// NewFetch is the basic variant: CSV manifest, keys used as-is under the
// configured prefix.
func NewFetch() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <csv_path> [output_folder]",
		Short: "Download images listed in a CSV manifest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || args[0] == "" {
				return errors.New("missing required CSV path")
			}
			if len(args) > 2 {
				return fmt.Errorf("expected at most 2 arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			csvPath := args[0]
			outputFolder := outputArg(args, 1)

			settings, log, err := setup(ctx)
			if err != nil {
				return err
			}

			log.Info().
				Str("csv", csvPath).
				Str("output", outputFolder).
				Msg("settings loaded")

			names, err := manifest.LoadCSV(csvPath, settings.GetColumn())
			if err != nil {
				return err
			}

			return runFetch(ctx, settings, log, names, "", outputFolder)
		},
	}
}

// NewFetchCollection is the collection-aware variant: keys are resolved
// through the sharded collection/originals layout.
func NewFetchCollection() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-collection <csv_path> <collection_name> [output_folder]",
		Short: "Download images from a named collection's sharded image store",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || args[0] == "" {
				return errors.New("missing required CSV path")
			}
			if len(args) < 2 || args[1] == "" {
				return errors.New("missing required collection name")
			}
			if len(args) > 3 {
				return fmt.Errorf("expected at most 3 arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			csvPath := args[0]
			collection := args[1]
			outputFolder := outputArg(args, 2)

			settings, log, err := setup(ctx)
			if err != nil {
				return err
			}

			log.Info().
				Str("csv", csvPath).
				Str("collection", collection).
				Str("output", outputFolder).
				Msg("settings loaded")

			names, err := manifest.LoadCSV(csvPath, settings.GetColumn())
			if err != nil {
				return err
			}

			return runFetch(ctx, settings, log, names, collection, outputFolder)
		},
	}
}

// NewFetchDB pulls the manifest straight from a collections database
// instead of a CSV export.
func NewFetchDB() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-db <collection_name> [output_folder]",
		Short: "Download a collection's images using a database manifest query",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || args[0] == "" {
				return errors.New("missing required collection name")
			}
			if len(args) > 2 {
				return fmt.Errorf("expected at most 2 arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			collection := args[0]
			outputFolder := outputArg(args, 1)

			settings, log, err := setup(ctx)
			if err != nil {
				return err
			}

			if settings.Database.DSN == "" {
				return errors.New("no database DSN configured (set database.dsn or MANIFEST_DB_DSN)")
			}

			log.Info().
				Str("collection", collection).
				Str("output", outputFolder).
				Msg("settings loaded")

			names, err := manifest.LoadQuery(ctx, settings.Database.DSN, settings.Database.Query)
			if err != nil {
				return err
			}

			return runFetch(ctx, settings, log, names, collection, outputFolder)
		},
	}
}
