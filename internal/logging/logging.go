package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"safe-rm/internal/config"
)

// New returns the wrapper's diagnostic logger. Diagnostics are part of
// the user-facing contract (bare "safe-rm: ..." lines on stdout), so no
// prefix or timestamp flags.
func New() *log.Logger {
	return log.New(os.Stdout, "", 0)
}

// NewWithConfig tees diagnostics into the configured log file, rotating
// it first when it has outlived the retention window. Any file problem
// falls back to the plain stdout logger.
func NewWithConfig(cfg *config.Config) *log.Logger {
	if cfg == nil || cfg.Logging.File == "" {
		return New()
	}

	filePath := cfg.Logging.File
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return New()
	}

	rotateIfNeeded(filePath, cfg.Logging.RotationDays)

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return New()
	}

	return log.New(io.MultiWriter(os.Stdout, f), "", 0)
}

// rotateIfNeeded renames a log file older than rotationDays, stamping
// it with its own mtime, then prunes rotated files past retention.
func rotateIfNeeded(logPath string, rotationDays int) {
	info, err := os.Stat(logPath)
	if err != nil {
		// No log file yet, nothing to rotate.
		return
	}

	cutoff := time.Now().AddDate(0, 0, -rotationDays)
	if !info.ModTime().Before(cutoff) {
		return
	}

	rotated := logPath + "." + info.ModTime().Format("20060102-150405")
	if err := os.Rename(logPath, rotated); err != nil {
		return
	}
	cleanupOldLogs(logPath, cutoff)
}

func cleanupOldLogs(logPath string, cutoff time.Time) {
	dir := filepath.Dir(logPath)
	base := filepath.Base(logPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), base+".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}
