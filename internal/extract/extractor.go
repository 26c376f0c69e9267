// Package extract unpacks downloaded source archives with the system tar
// binary.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"arxivepub/internal/logging"
	"arxivepub/internal/services"
)

// Extractor unpacks gzip-compressed tarballs into per-paper directories.
type Extractor struct {
	binary     string
	extractDir string
	executor   services.Executor
	logger     *slog.Logger
}

// Option configures the extractor.
type Option func(*Extractor)

// WithExecutor injects a command executor (primarily for tests).
func WithExecutor(executor services.Executor) Option {
	return func(e *Extractor) {
		if executor != nil {
			e.executor = executor
		}
	}
}

// WithLogger attaches a logger to the extractor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logging.NewComponentLogger(logger, "extractor")
		}
	}
}

// New constructs an extractor that unpacks archives under extractDir using
// the given tar binary.
func New(binary, extractDir string, opts ...Option) *Extractor {
	extractor := &Extractor{
		binary:     binary,
		extractDir: extractDir,
		executor:   services.NewCommandExecutor(),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(extractor)
	}
	return extractor
}

// TargetDir returns the directory an archive unpacks into: the archive base
// name with its .tar.gz suffix stripped, under the extract root.
func (e *Extractor) TargetDir(archivePath string) string {
	base := strings.TrimSuffix(filepath.Base(archivePath), ".tar.gz")
	return filepath.Join(e.extractDir, base)
}

// Extract unpacks the archive and returns the directory holding its
// contents.
func (e *Extractor) Extract(ctx context.Context, archivePath string) (string, error) {
	target := e.TargetDir(archivePath)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", services.Wrap(services.ErrExtraction, "extract", "create target dir", target, err)
	}

	args := []string{"-x", "-z", "-f", archivePath, "-C", target}
	e.logger.Info("extracting archive",
		logging.String("archive", archivePath),
		logging.String("target", target),
	)

	err := e.executor.Run(ctx, e.binary, args, func(line string) {
		e.logger.Debug("tar output", logging.String("line", line))
	})
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, "extract", "run tar",
			fmt.Sprintf("unpack %s", archivePath), err)
	}
	return target, nil
}
