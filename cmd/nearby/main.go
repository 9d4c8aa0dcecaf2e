package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/config"
	"github.com/Veraticus/nearby/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "nearby",
		Short: "📍 Find venues around you and redeem their coupons",
		Long: `nearby: browse venues by category on a terminal map, open one to see
its details and scan its QR code to redeem a discount coupon.

It ships with a small development backend (nearby serve) seeded from YAML.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}

	// logFile is the browse mode log sink, closed by main.
	logFile io.Closer
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/nearby/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("api", "", "backend base URL (default: gateway.base_url)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("gateway.base_url", rootCmd.PersistentFlags().Lookup("api"))

	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(venuesCmd())
	rootCmd.AddCommand(venueCmd())
	rootCmd.AddCommand(redeemCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if logFile != nil {
		_ = logFile.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setDefaults() {
	viper.SetDefault("gateway.base_url", "http://localhost:3333")
	viper.SetDefault("gateway.timeout", 15*time.Second)
	viper.SetDefault("gateway.rate_limit", 0.0)
	viper.SetDefault("gateway.ca_file", "")

	viper.SetDefault("map.latitude", tui.ReferenceLocation.Latitude)
	viper.SetDefault("map.longitude", tui.ReferenceLocation.Longitude)
	viper.SetDefault("map.zoom", tui.DefaultZoom)

	viper.SetDefault("scanner.command", "")
	viper.SetDefault("scanner.allow_camera", true)
	viper.SetDefault("scanner.repeat_frames", 3)

	viper.SetDefault("redeem.handoff_delay", tui.DefaultHandoffDelay)
	viper.SetDefault("tui.theme", "default")

	viper.SetDefault("server.addr", ":3333")
	viper.SetDefault("server.database", "nearby.db")
	viper.SetDefault("server.tls", false)
	viper.SetDefault("server.rate_limit", 10.0)
	viper.SetDefault("server.trust_proxy", false)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.file", "nearby.log")
}

func initConfig(cmd *cobra.Command, _ []string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.Dir()
		if err != nil {
			return err
		}

		// Search for config in standard locations
		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. NEARBY_GATEWAY_BASE_URL
	viper.SetEnvPrefix("NEARBY")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := setupLogging(cmd.Name() == "browse"); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

// setupLogging writes to stderr, or to logging.file when the TUI owns the
// terminal.
func setupLogging(toFile bool) error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if toFile {
		name := viper.GetString("logging.file")
		if name == "" {
			name = "nearby.log"
		}
		path, err := config.File(name)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // configured path
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		w = f
	}

	return common.SetupLogger(w, level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			slog.Debug("nearby version", "version", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "nearby %s\n", version)
		},
	}
}
