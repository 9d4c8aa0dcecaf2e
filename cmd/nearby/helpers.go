package main

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Veraticus/nearby/internal/certs"
	"github.com/Veraticus/nearby/internal/config"
	"github.com/Veraticus/nearby/internal/gateway"
	"github.com/Veraticus/nearby/internal/scanner"
	"github.com/Veraticus/nearby/internal/service"
	"github.com/Veraticus/nearby/internal/storage"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// newGateway builds the backend client. gateway.ca_file adds a trusted
// certificate, such as the one written by nearby serve --tls.
func newGateway() (*gateway.Client, error) {
	cfg := gateway.Config{
		BaseURL:   viper.GetString("gateway.base_url"),
		Timeout:   viper.GetDuration("gateway.timeout"),
		RateLimit: viper.GetFloat64("gateway.rate_limit"),
	}

	if caFile := viper.GetString("gateway.ca_file"); caFile != "" {
		pool, err := certs.LoadCertPool(config.ExpandPath(caFile))
		if err != nil {
			return nil, fmt.Errorf("invalid gateway.ca_file: %w", err)
		}
		cfg.HTTPClient = &http.Client{Transport: &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
		}}
	}

	return gateway.New(cfg)
}

// newScanner prefers an external decoder. Without one, payloads are typed
// into the camera modal and repeated like consecutive frames.
func newScanner() (service.Scanner, error) {
	allowed := viper.GetBool("scanner.allow_camera")

	if command := viper.GetString("scanner.command"); strings.TrimSpace(command) != "" {
		s, err := scanner.NewCommand(command, allowed)
		if err != nil {
			return nil, fmt.Errorf("invalid scanner.command: %w", err)
		}
		return s, nil
	}

	return scanner.NewFeed(allowed, viper.GetInt("scanner.repeat_frames")), nil
}

// openStore opens the development database. An explicit path wins over
// server.database.
func openStore(override string) (*storage.SQLiteStorage, error) {
	name := override
	if name == "" {
		name = viper.GetString("server.database")
	}
	if name == ":memory:" {
		return storage.NewSQLiteStorage(name)
	}

	path, err := config.File(name)
	if err != nil {
		return nil, err
	}

	return storage.NewSQLiteStorage(path)
}

// certManager keeps the development certificate next to the config.
func certManager() (*certs.FileManager, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return certs.NewFileManager(filepath.Join(dir, "certs")), nil
}
