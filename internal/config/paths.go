package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for file locations in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	ExportsDir    string
	LogsDir       string
	WebDir        string
}

// ResolvePaths resolves the configured directories. Relative entries are
// joined onto ExecutableDir, which itself defaults to the directory of the
// running binary.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.ExecutableDir
	if base == "" {
		dir, err := executableDir()
		if err != nil {
			return nil, err
		}
		base = dir
	}
	return NewPaths(base, c.Paths), nil
}

// NewPaths lays out the directory tree under base. Empty fields in pc fall
// back to the defaults.
func NewPaths(base string, pc PathsConfig) *Paths {
	resolve := func(configured, fallback string) string {
		if configured == "" {
			configured = fallback
		}
		if filepath.IsAbs(configured) {
			return filepath.Clean(configured)
		}
		return filepath.Join(base, configured)
	}

	return &Paths{
		ExecutableDir: base,
		DataDir:       resolve(pc.DataDir, DefaultDataDir),
		ExportsDir:    resolve(pc.ExportsDir, DefaultExportsDir),
		LogsDir:       resolve(pc.LogsDir, DefaultLogsDir),
		WebDir:        resolve(pc.WebDir, DefaultWebDir),
	}
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ExportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetExportPath returns the path for an exported file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved directories for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("exports", p.ExportsDir),
			slog.String("logs", p.LogsDir),
			slog.String("web", p.WebDir),
		))
}
