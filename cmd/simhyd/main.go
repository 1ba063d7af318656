// Command simhyd queries IWFM simulation hydrograph output files:
// interpolated values at arbitrary dates, file summaries, and full
// CSV export.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"iwfmcli/internal/config"
	"iwfmcli/internal/dates"
	"iwfmcli/internal/exporter"
	"iwfmcli/internal/hydrograph"
	"iwfmcli/internal/infrastructure"
)

func main() {
	file := flag.String("file", "", "hydrograph output file to read")
	dateStr := flag.String("date", "", "query date (MM/DD/YYYY); interpolates between time steps")
	col := flag.Int("col", 0, "value column index (0-based)")
	out := flag.String("out", "", "export the full series to this CSV file")
	info := flag.Bool("info", false, "print a file summary instead of querying")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: simhyd -file <gwhyd.out> [-date MM/DD/YYYY -col N] [-out series.csv] [-info]")
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("simhyd.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	path := resolveFile(paths, *file)
	logger.Info("Reading hydrograph file", slog.String("file", path))

	sh, err := hydrograph.Load(path)
	if err != nil {
		logger.Error("Failed to load hydrograph file", "error", err)
		os.Exit(1)
	}

	switch {
	case *info:
		printInfo(sh)

	case *out != "":
		if err := exportSeries(sh, paths, *out); err != nil {
			logger.Error("Failed to export series", "error", err)
			os.Exit(1)
		}
		logger.Info("Series exported", slog.String("out", *out), slog.Int("rows", sh.Len()))

	case *dateStr != "":
		d, err := dates.ParseNamed(*dateStr, "date")
		if err != nil {
			logger.Error("Invalid query date", "error", err)
			os.Exit(1)
		}
		v, err := sh.HeadAt(d, *col)
		if err != nil {
			logger.Error("Lookup failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("%g\n", v)

	default:
		printInfo(sh)
	}
}

// resolveFile falls back to the hydrographs data directory when a
// relative file name does not exist as given.
func resolveFile(paths *config.Paths, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	if _, err := os.Stat(file); err == nil {
		return file
	}
	if fallback := paths.GetHydrographPath(file); fileExists(fallback) {
		return fallback
	}
	return file
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func printInfo(sh *hydrograph.SimHydrographs) {
	fmt.Printf("file:    %s\n", sh.Path())
	fmt.Printf("rows:    %d\n", sh.Len())
	fmt.Printf("columns: %d\n", sh.Columns())
	if sh.Len() > 0 {
		fmt.Printf("start:   %s\n", sh.StartDate().Format(dates.Layout))
		fmt.Printf("end:     %s\n", sh.EndDate().Format(dates.Layout))
	}
}

func exportSeries(sh *hydrograph.SimHydrographs, paths *config.Paths, out string) error {
	headers := make([]string, 0, sh.Columns()+1)
	headers = append(headers, "Date")
	for i := 0; i < sh.Columns(); i++ {
		headers = append(headers, fmt.Sprintf("Column%d", i+1))
	}

	sw, err := exporter.NewCSVWriter(paths).CreateStreamWriter(out, headers)
	if err != nil {
		return err
	}

	for i := 0; i < sh.Len(); i++ {
		row := make([]string, 0, sh.Columns()+1)
		row = append(row, sh.Date(i).Format(dates.Layout))
		for j := 0; j < sh.Columns(); j++ {
			row = append(row, strconv.FormatFloat(sh.Head(i, j), 'f', -1, 64))
		}
		if err := sw.WriteRecord(row); err != nil {
			sw.Close()
			return err
		}
	}

	return sw.Close()
}
