package canonical

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c360studio/semcheck/document"
)

// RewriteStats summarizes a rewrite pass.
type RewriteStats struct {
	Processed int      `json:"processed"`
	Sorted    int      `json:"sorted"`
	Changed   int      `json:"changed"`
	Errors    int      `json:"errors"`
	Failed    []string `json:"failed,omitempty"`
}

// RewriteFile loads path, canonicalizes it and stores it back in place.
// It reports whether the bytes on disk changed. Files that do not parse are
// left untouched and an error is returned.
func RewriteFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	v, err := document.Decode(data)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}

	out, err := Encode(Canonicalize(v))
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", path, err)
	}
	if bytes.Equal(out, data) {
		return false, nil
	}

	if err := writeDurable(path, out); err != nil {
		return false, err
	}
	return true, nil
}

// RewriteAll rewrites every path in order, one file at a time. A failing file
// is counted and skipped; it never stops the pass. When RewriteAll returns,
// every write has been flushed to stable storage.
func RewriteAll(paths []string, logger *slog.Logger) RewriteStats {
	if logger == nil {
		logger = slog.Default()
	}

	var stats RewriteStats
	for _, p := range paths {
		stats.Processed++
		changed, err := RewriteFile(p)
		if err != nil {
			stats.Errors++
			stats.Failed = append(stats.Failed, p)
			logger.Warn("Canonical rewrite failed", "path", p, "error", err)
			continue
		}
		stats.Sorted++
		if changed {
			stats.Changed++
			logger.Debug("Rewrote file in canonical form", "path", p)
		}
	}
	return stats
}

// writeDurable replaces path with data via a synced temp file and rename so a
// concurrent reader never observes a partial write.
func writeDurable(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", path, err)
	}

	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
