// Command headall extracts a node-by-layer groundwater head table for
// a single date from an IWFM all-heads output file and writes it to CSV.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"iwfmcli/internal/config"
	"iwfmcli/internal/dates"
	"iwfmcli/internal/exporter"
	"iwfmcli/internal/headall"
	"iwfmcli/internal/infrastructure"
)

func main() {
	file := flag.String("file", "", "all-heads output file to read (headall.out)")
	dateStr := flag.String("date", "", "time step date to extract (MM/DD/YYYY)")
	out := flag.String("out", "", "output CSV file")
	flag.Parse()

	if *file == "" || *dateStr == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: headall -file <headall.out> -date MM/DD/YYYY -out heads.csv")
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
		cfg.Logging.FilePath = paths.GetLogPath("headall.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	d, err := dates.ParseNamed(*dateStr, "date")
	if err != nil {
		logger.Error("Invalid date", "error", err)
		os.Exit(1)
	}

	ha, err := headall.ParseFile(*file)
	if err != nil {
		logger.Error("Failed to parse all-heads file", "error", err)
		os.Exit(1)
	}

	logger.Info("Parsed all-heads file",
		slog.String("file", *file),
		slog.Int("nodes", len(ha.Nodes)),
		slog.Int("layers", ha.Layers()),
		slog.Int("steps", len(ha.Steps)))

	headers, records, err := ha.TableForDate(d)
	if err != nil {
		logger.Error("Date not found in file", "error", err)
		os.Exit(1)
	}

	if err := exporter.NewCSVWriter(paths).WriteSimpleCSV(*out, headers, records); err != nil {
		logger.Error("Failed to write CSV", "error", err)
		os.Exit(1)
	}

	logger.Info("Head table written",
		slog.String("out", *out),
		slog.String("date", d.Format(dates.Layout)),
		slog.Int("rows", len(records)))
}
