package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/nearby/internal/cli"
	"github.com/Veraticus/nearby/internal/server"
	"github.com/Veraticus/nearby/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const healthInterval = 30 * time.Second

func serveCmd() *cobra.Command {
	var (
		dbPath string
		addr   string
		useTLS bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development backend",
		Long: `Serve the categories, markets and coupons API from a local SQLite
database. Seed it first with nearby seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = viper.GetString("server.addr")
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

			handler := cli.NewInterruptHandler(os.Stderr)
			ctx := handler.HandleInterrupts(cmd.Context(), "Development backend stopped.")

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			cfg := server.Config{
				Addr:       addr,
				RateLimit:  viper.GetFloat64("server.rate_limit"),
				TrustProxy: viper.GetBool("server.trust_proxy"),
			}
			if useTLS || viper.GetBool("server.tls") {
				manager, err := certManager()
				if err != nil {
					return err
				}
				if cfg.TLS, err = manager.TLSConfig(); err != nil {
					return fmt.Errorf("failed to prepare certificate: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo(
					"Serving HTTPS. Point gateway.ca_file at "+manager.CertFile()))
			}

			srv, err := server.New(store, cfg)
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(ctx)
			})
			g.Go(func() error {
				return watchDatabase(ctx, store, healthInterval)
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&dbPath, "database", "", "SQLite database path (default: server.database)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	cmd.Flags().BoolVar(&useTLS, "tls", false, "serve HTTPS with a self-signed localhost certificate")

	return cmd
}

// watchDatabase pings the store until ctx is done. A failed ping stops the
// server.
func watchDatabase(ctx context.Context, store *storage.SQLiteStorage, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := store.Ping(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("database unavailable: %w", err)
			}
			slog.Debug("database healthy")
		}
	}
}
