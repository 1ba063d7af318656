package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: model output
// inputs live under data/, generated reports under data/reports/, and
// the gauge observation cache under data/cache/.
type Paths struct {
	ExecutableDir  string
	DataDir        string
	HydrographsDir string
	BudgetsDir     string
	ReportsDir     string
	CacheDir       string
	LogsDir        string

	// Well-known files
	GaugeDB string
}

// GetPaths returns the application paths relative to the executable
// location, never the current working directory, so the tools behave
// the same wherever they are invoked from.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	//   data/
	//     hydrographs/   (IWFM hydrograph output files)
	//     budgets/       (IWFM budget output files)
	//     reports/       (generated CSV/Excel reports)
	//     cache/         (gauge observation cache)
	//   logs/
	dataDir := filepath.Join(exeDir, "data")
	cacheDir := filepath.Join(dataDir, "cache")

	return &Paths{
		ExecutableDir:  exeDir,
		DataDir:        dataDir,
		HydrographsDir: filepath.Join(dataDir, "hydrographs"),
		BudgetsDir:     filepath.Join(dataDir, "budgets"),
		ReportsDir:     filepath.Join(dataDir, "reports"),
		CacheDir:       cacheDir,
		LogsDir:        filepath.Join(exeDir, "logs"),
		GaugeDB:        filepath.Join(cacheDir, "gauges.db"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.HydrographsDir,
		p.BudgetsDir,
		p.ReportsDir,
		p.CacheDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetHydrographPath returns the full path for a hydrograph file
func (p *Paths) GetHydrographPath(filename string) string {
	return filepath.Join(p.HydrographsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
