package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/nearby/internal/certs"
	"github.com/Veraticus/nearby/internal/scanner"
	"github.com/Veraticus/nearby/internal/server"
	"github.com/Veraticus/nearby/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	setDefaults()
	t.Cleanup(viper.Reset)
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return testutil.StripANSI(out.String()), err
}

// startBackend serves the sample catalog and points the gateway at it.
func startBackend(t *testing.T) {
	t.Helper()

	db := testutil.SetupTestDB(t, testutil.SampleCatalog())
	srv, err := server.New(db.Storage, server.Config{})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	viper.Set("gateway.base_url", ts.URL)
}

func TestDefaults(t *testing.T) {
	resetConfig(t)

	assert.Equal(t, "http://localhost:3333", viper.GetString("gateway.base_url"))
	assert.Equal(t, 15*time.Second, viper.GetDuration("gateway.timeout"))
	assert.Equal(t, 500*time.Millisecond, viper.GetDuration("redeem.handoff_delay"))
	assert.InDelta(t, -23.561187293883442, viper.GetFloat64("map.latitude"), 1e-12)
	assert.InDelta(t, 15.0, viper.GetFloat64("map.zoom"), 0)
	assert.Equal(t, 3, viper.GetInt("scanner.repeat_frames"))
}

func TestNewScanner(t *testing.T) {
	resetConfig(t)

	s, err := newScanner()
	require.NoError(t, err)
	assert.IsType(t, &scanner.Feed{}, s)

	viper.Set("scanner.command", "zbarcam --raw --nodisplay")
	s, err = newScanner()
	require.NoError(t, err)
	assert.IsType(t, &scanner.Command{}, s)
}

func TestSetupLogging(t *testing.T) {
	resetConfig(t)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "nearby.log")
	viper.Set("logging.file", path)
	require.NoError(t, setupLogging(true))
	t.Cleanup(func() {
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
	})
	assert.FileExists(t, path)

	viper.Set("logging.level", "loud")
	assert.Error(t, setupLogging(false))
}

func TestCatalogCommands(t *testing.T) {
	resetConfig(t)
	startBackend(t)

	out, err := execute(t, categoriesCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Coffee")

	out, err = execute(t, venuesCmd(), "", "--category", "food")
	require.NoError(t, err)
	assert.Contains(t, out, "Sabor Grill")
	assert.Contains(t, out, "Pasta Nostra")
	assert.NotContains(t, out, "Café Central")

	_, err = execute(t, venuesCmd(), "")
	assert.Error(t, err, "category flag is required")

	out, err = execute(t, venueCmd(), "", "sabor-grill")
	require.NoError(t, err)
	assert.Contains(t, out, "3 coupons available")
	assert.Contains(t, out, "Valid for lunch only")

	_, err = execute(t, venueCmd(), "", "nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRedeemCommand(t *testing.T) {
	resetConfig(t)
	startBackend(t)

	out, err := execute(t, redeemCmd(), "n\n", "pasta-nostra")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing redeemed")

	out, err = execute(t, redeemCmd(), "y\n", "pasta-nostra")
	require.NoError(t, err)
	assert.Contains(t, out, "Coupon redeemed")

	// The only coupon is gone.
	_, err = execute(t, redeemCmd(), "", "--yes", "pasta-nostra")
	assert.Error(t, err)

	_, err = execute(t, redeemCmd(), "", "--yes", "nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no venue matches")
}

func TestSeedCommand(t *testing.T) {
	resetConfig(t)
	dbPath := filepath.Join(t.TempDir(), "nearby.db")

	out, err := execute(t, seedCmd(), "", "--database", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 7 categories and 8 venues")

	store, err := openStore(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	detail, err := store.GetVenue(context.Background(), "cine-paulista")
	require.NoError(t, err)
	assert.Equal(t, 8, detail.Coupons)

	_, err = execute(t, seedCmd(), "", "--database", dbPath, "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t, testutil.Catalog{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, watchDatabase(ctx, db.Storage, 10*time.Millisecond))

	require.NoError(t, db.Storage.Close())
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	assert.Error(t, watchDatabase(ctx2, db.Storage, 10*time.Millisecond))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, versionCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "nearby dev")
}

func TestNewGateway_CAFile(t *testing.T) {
	resetConfig(t)

	viper.Set("gateway.ca_file", filepath.Join(t.TempDir(), "missing.crt"))
	_, err := newGateway()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway.ca_file")

	manager := certs.NewFileManager(t.TempDir())
	_, err = manager.GetOrCreateCertificate()
	require.NoError(t, err)

	viper.Set("gateway.ca_file", manager.CertFile())
	viper.Set("gateway.base_url", "https://localhost:3333")
	gw, err := newGateway()
	require.NoError(t, err)
	assert.NotNil(t, gw)
}
