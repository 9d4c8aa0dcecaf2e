package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/nearby/internal/cli"
	"github.com/Veraticus/nearby/internal/config"
	"github.com/Veraticus/nearby/internal/fixtures"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var (
		dbPath string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories and venues into the development database",
		Long: `Seed the development database from a YAML fixture file. Without --file
the bundled catalog around Avenida Paulista is used. Seeding is idempotent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				catalog *fixtures.File
				err     error
			)
			if file != "" {
				catalog, err = fixtures.LoadFile(config.ExpandPath(file))
			} else {
				catalog, err = fixtures.Default()
			}
			if err != nil {
				return err
			}

			store, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					slog.Error("failed to close database", "error", err)
				}
			}()

			ctx := cmd.Context()
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			out := cmd.OutOrStdout()
			bar := newSeedBar(out, catalog.Len())
			if err := fixtures.Seed(ctx, store, catalog, func() { _ = bar.Add(1) }); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
				"Seeded %d categories and %d venues", len(catalog.Categories), len(catalog.Venues))))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "database", "", "SQLite database path (default: server.database)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture file (default: bundled catalog)")

	return cmd
}

func newSeedBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Seeding...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}
