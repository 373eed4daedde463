package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute application directories
type Paths struct {
	DataDir    string
	ExportsDir string
	LogsDir    string
}

// ResolvePaths turns the configured directories into absolute paths,
// relative ones being taken from the working directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	abs := func(p string) (string, error) {
		if p == "" || filepath.IsAbs(p) {
			return p, nil
		}
		return filepath.Abs(p)
	}

	var (
		paths Paths
		err   error
	)
	if paths.DataDir, err = abs(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	if paths.ExportsDir, err = abs(cfg.ExportsDir); err != nil {
		return nil, fmt.Errorf("failed to resolve exports dir: %w", err)
	}
	if paths.LogsDir, err = abs(cfg.LogsDir); err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir: %w", err)
	}
	return &paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ExportsDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetExportPath returns the full path for an export file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution() {
	slog.Info("Path resolution",
		slog.String("data_dir", p.DataDir),
		slog.String("exports_dir", p.ExportsDir),
		slog.String("logs_dir", p.LogsDir))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
