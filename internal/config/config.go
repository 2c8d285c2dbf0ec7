// Package config resolves runtime settings from defaults, an optional YAML
// config file, STMX_-prefixed environment variables, and command flags, in
// rising precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config carries every tunable, including the statement layout constants
// that earlier versions of this parser hard-coded.
type Config struct {
	// Tolerance is the column-matching distance in source units.
	Tolerance int
	// ColumnGap splits extracted glyph runs into cell fragments.
	ColumnGap int
	// DateLayout is the Go reference layout of the statement date column.
	DateLayout string
	// HeaderMarker identifies the column-header row.
	HeaderMarker string
	// ListenAddr is the API server bind address.
	ListenAddr string
	// DatabaseURL is the Postgres connection string for ingest.
	DatabaseURL string
}

// Build loads configuration. cfgFile may be empty, in which case a
// config.yaml in the working directory is used when present. flags may be
// nil; when given, set flags override file and environment values.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("tolerance", 20)
	v.SetDefault("column_gap", 15)
	v.SetDefault("date_layout", "02 Jan 06")
	v.SetDefault("header_marker", "Date")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("database_url", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("STMX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		// Flag names use hyphens; config keys use underscores.
		bindings := map[string]string{
			"tolerance":     "tolerance",
			"column-gap":    "column_gap",
			"date-layout":   "date_layout",
			"header-marker": "header_marker",
			"listen-addr":   "listen_addr",
			"database-url":  "database_url",
		}
		for flagName, key := range bindings {
			f := flags.Lookup(flagName)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %q: %w", flagName, err)
			}
		}
	}

	return &Config{
		Tolerance:    v.GetInt("tolerance"),
		ColumnGap:    v.GetInt("column_gap"),
		DateLayout:   v.GetString("date_layout"),
		HeaderMarker: v.GetString("header_marker"),
		ListenAddr:   v.GetString("listen_addr"),
		DatabaseURL:  v.GetString("database_url"),
	}, nil
}
