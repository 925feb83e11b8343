package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utm-trs/imgfetch/pkg/fetch"
	"github.com/utm-trs/imgfetch/pkg/manifest"
)

// NewPresign prints a time-limited download URL per manifest entry instead
// of fetching the images, for handing off to external consumers.
func NewPresign() *cobra.Command {
	return &cobra.Command{
		Use:   "presign <csv_path> <collection_name>",
		Short: "Print presigned download URLs for images listed in a CSV manifest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || args[0] == "" {
				return errors.New("missing required CSV path")
			}
			if len(args) < 2 || args[1] == "" {
				return errors.New("missing required collection name")
			}
			if len(args) > 2 {
				return fmt.Errorf("expected at most 2 arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			csvPath := args[0]
			collection := args[1]

			settings, log, err := setup(ctx)
			if err != nil {
				return err
			}

			names, err := manifest.LoadCSV(csvPath, settings.GetColumn())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return manifest.ErrNoPaths
			}

			backend, err := openSource(ctx, settings)
			if err != nil {
				return err
			}
			defer backend.Close()

			expiry := settings.S3.GetURLExpiry()
			signed := 0
			for _, name := range names {
				key := fetch.ObjectKey(collection, name)

				url, err := backend.PresignURL(ctx, key, expiry)
				if err != nil {
					// Backends without presigning fail the whole command;
					// retrying other keys cannot help.
					return fmt.Errorf("failed to presign %s: %w", key, err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), url)
				signed++
			}

			log.Info().Int("urls", signed).Dur("expiry", expiry).Msg("presigned URLs generated")
			return nil
		},
	}
}
