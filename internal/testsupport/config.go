// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"arxivepub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Cleanup of intermediates is off by default so tests can inspect them.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.ExtractDir = filepath.Join(base, "unzipped")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Conversion.OutputTemplate = filepath.Join(base, "out", "$1.epub")
	cfg.Conversion.CleanIntermediates = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithOutputTemplate overrides the output path template.
func WithOutputTemplate(template string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Conversion.OutputTemplate = template
	}
}

// WithCleanIntermediates toggles post-conversion cleanup.
func WithCleanIntermediates(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Conversion.CleanIntermediates = enabled
	}
}
