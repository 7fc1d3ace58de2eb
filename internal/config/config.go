// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the management API's listening address (ip:port).
	Addr string

	// VaultPath is the path to the JSON vault file. Empty selects the
	// default location under the user's home directory.
	VaultPath string

	// DatabaseDSN selects the PostgreSQL vault backend when non-empty;
	// the file backend is used otherwise.
	DatabaseDSN string

	// TargetURL is the page the watch command navigates to.
	TargetURL string

	// Headless controls whether the driven browser runs without a window.
	Headless bool

	// RefreshInterval is the injector's periodic re-check interval.
	RefreshInterval time.Duration

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8244", "management API ip:port")
	flag.StringVar(&options.VaultPath, "vault", "", "path to vault file (default ~/.odoo-quick-login/vault.json)")
	flag.StringVar(&options.DatabaseDSN, "d", "", "postgres DSN for the vault backend")
	flag.StringVar(&options.TargetURL, "url", "", "target page URL")
	flag.BoolVar(&options.Headless, "headless", false, "run the browser headless")
	flag.DurationVar(&options.RefreshInterval, "refresh", 3*time.Second, "injector refresh interval")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct
// containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		options.Addr = addr
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if vault := os.Getenv("VAULT_PATH"); vault != "" {
		options.VaultPath = vault
	}

	return options
}
