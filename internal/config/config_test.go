package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Tolerance != 20 {
		t.Errorf("tolerance: got %d, want 20", cfg.Tolerance)
	}
	if cfg.ColumnGap != 15 {
		t.Errorf("column gap: got %d, want 15", cfg.ColumnGap)
	}
	if cfg.DateLayout != "02 Jan 06" {
		t.Errorf("date layout: got %q", cfg.DateLayout)
	}
	if cfg.HeaderMarker != "Date" {
		t.Errorf("header marker: got %q", cfg.HeaderMarker)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("listen addr: got %q", cfg.ListenAddr)
	}
}

func TestBuildReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "tolerance: 35\nheader_marker: Datum\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tolerance != 35 {
		t.Errorf("tolerance: got %d, want 35", cfg.Tolerance)
	}
	if cfg.HeaderMarker != "Datum" {
		t.Errorf("header marker: got %q", cfg.HeaderMarker)
	}
	// Untouched keys keep their defaults.
	if cfg.ColumnGap != 15 {
		t.Errorf("column gap: got %d, want 15", cfg.ColumnGap)
	}
}

func TestBuildMissingExplicitFileFails(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestBuildEnvOverride(t *testing.T) {
	t.Setenv("STMX_TOLERANCE", "42")
	t.Setenv("STMX_LISTEN_ADDR", ":9999")

	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tolerance != 42 {
		t.Errorf("tolerance: got %d, want 42", cfg.Tolerance)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("listen addr: got %q", cfg.ListenAddr)
	}
}

func TestBuildFlagOverridesEnv(t *testing.T) {
	t.Setenv("STMX_TOLERANCE", "42")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("tolerance", 20, "")
	flags.String("header-marker", "Date", "")
	if err := flags.Parse([]string{"--tolerance=55"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Build("", flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tolerance != 55 {
		t.Errorf("tolerance: got %d, want 55 (flag beats env)", cfg.Tolerance)
	}
	// An unset flag does not mask the environment or defaults.
	if cfg.HeaderMarker != "Date" {
		t.Errorf("header marker: got %q", cfg.HeaderMarker)
	}
}
