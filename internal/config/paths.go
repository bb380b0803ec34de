package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains all the application paths
// This is the single source of truth for every file the report reads or writes
type Paths struct {
	BaseDir   string
	InputDir  string
	OutputDir string
	LogsDir   string

	// Report subdirectories
	ChartsDir string
	TablesDir string
	GraphsDir string

	// Well-known report files
	WorkbookFile string
	SummaryFile  string
}

// ResolvePaths resolves the configured directories against the base directory.
// An empty BaseDir means the current working directory; absolute entries are
// kept as-is.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p, fallback string) string {
		if p == "" {
			p = fallback
		}
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	outputDir := resolve(cfg.OutputDir, DefaultOutputDir)

	return &Paths{
		BaseDir:      base,
		InputDir:     resolve(cfg.InputDir, DefaultInputDir),
		OutputDir:    outputDir,
		LogsDir:      resolve(cfg.LogsDir, DefaultLogsDir),
		ChartsDir:    filepath.Join(outputDir, "charts"),
		TablesDir:    filepath.Join(outputDir, "tables"),
		GraphsDir:    filepath.Join(outputDir, "graphs"),
		WorkbookFile: filepath.Join(outputDir, WorkbookFileName),
		SummaryFile:  filepath.Join(outputDir, SummaryFileName),
	}, nil
}

// EnsureDirectories creates all output directories if they don't exist.
// The input directory is never created; a missing one is reported by the loader.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.ChartsDir,
		p.TablesDir,
		p.GraphsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetChartPath returns the path for a chart image
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetTablePath returns the path for a CSV table
func (p *Paths) GetTablePath(filename string) string {
	return filepath.Join(p.TablesDir, filename)
}

// GetGraphPath returns the path for a DOT graph file
func (p *Paths) GetGraphPath(filename string) string {
	return filepath.Join(p.GraphsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// Slug turns an entity or kind label into a file-name-safe token
func Slug(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('_')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	slog.Default().Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("input", p.InputDir),
			slog.String("output", p.OutputDir),
			slog.String("charts", p.ChartsDir),
			slog.String("tables", p.TablesDir),
			slog.String("graphs", p.GraphsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("report_files",
			slog.String("workbook", p.WorkbookFile),
			slog.String("summary", p.SummaryFile),
		),
		slog.Bool("input_exists", FileExists(p.InputDir)))
}
