package main

import (
	"fmt"
	"os"
	"path/filepath"

	"nova/pkg/protocol"
)

// Paths holds all resolved nova state file paths.
// Use ResolvePaths() to populate this struct with defaults + env overrides.
type Paths struct {
	NovaHome    string // ~/.nova or NOVA_HOME
	ConfigPath  string // config.toml or NOVA_CONFIG
	EventDBPath string // events.db or NOVA_DB_PATH
}

// ResolvePaths returns all nova paths, respecting env var overrides.
// Environment variables:
//   - NOVA_HOME: base directory for all nova state (default: ~/.nova)
//   - NOVA_CONFIG: session config file (default: $NOVA_HOME/config.toml)
//   - NOVA_DB_PATH: session event database (default: $NOVA_HOME/events.db)
//
// If NOVA_HOME is set, it becomes the base for all default paths. Specific
// env vars override both the default and the NOVA_HOME base.
func ResolvePaths() (*Paths, error) {
	novaHome, err := resolveNovaHome()
	if err != nil {
		return nil, err
	}

	return &Paths{
		NovaHome:    novaHome,
		ConfigPath:  resolvePathWithEnv("NOVA_CONFIG", novaHome, "config.toml"),
		EventDBPath: resolvePathWithEnv("NOVA_DB_PATH", novaHome, "events.db"),
	}, nil
}

// resolveNovaHome returns NOVA_HOME if set, otherwise ~/.nova.
func resolveNovaHome() (string, error) {
	if v := os.Getenv("NOVA_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, protocol.NovaDir), nil
}

// resolvePathWithEnv returns the env override if set, otherwise
// base/filename.
func resolvePathWithEnv(envVar, base, filename string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return filepath.Join(base, filename)
}
