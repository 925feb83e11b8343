package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/utm-trs/imgfetch/cmd/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:          "imgfetch",
		Short:        "imgfetch",
		Long:         "imgfetch - download collection images listed in a CSV manifest from object storage",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	root.SetContext(ctx)

	root.PersistentFlags().StringVar(&cli.ConfigFile, "config", "", "path to JSON settings file (S3_* environment variables override it)")

	root.AddCommand(cli.NewFetch())
	root.AddCommand(cli.NewFetchCollection())
	root.AddCommand(cli.NewFetchDB())
	root.AddCommand(cli.NewPresign())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
