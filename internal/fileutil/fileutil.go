package fileutil

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"arxivepub/internal/logging"
)

// SanitizeFileName strips characters that are hostile in file paths so a
// free-text title can be substituted into an output path template.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "", "\"", "", "<", "", ">", "", "|", "",
		"\n", " ", "\r", " ",
	)
	return strings.TrimSpace(replacer.Replace(name))
}

// CleanNonEPUB deletes every regular file in dir whose name does not end in
// .epub. A missing directory is logged and ignored. Per-file deletion
// failures are logged and do not abort the batch.
func CleanNonEPUB(dir string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("output directory does not exist, skipping cleanup", logging.String("dir", dir))
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".epub") {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			logger.Warn("failed to delete intermediate file", logging.String("path", path), logging.Error(err))
			continue
		}
		logger.Debug("deleted intermediate file", logging.String("path", path))
	}
	return nil
}
