// Command budget2csv converts IWFM budget output files to CSV, and
// optionally to a multi-sheet Excel workbook with one sheet per
// budget location.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"iwfmcli/internal/budget"
	"iwfmcli/internal/config"
	"iwfmcli/internal/exporter"
	"iwfmcli/internal/infrastructure"
)

const maxConcurrentFiles = 4

func main() {
	outDir := flag.String("outdir", "", "directory for CSV output (defaults to the reports directory)")
	xlsx := flag.String("xlsx", "", "also write all tables to this Excel workbook")
	combined := flag.String("combined", "", "also append every table to this single CSV file")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: budget2csv [-outdir DIR] [-xlsx workbook.xlsx] [-combined all.csv] <budget file>...")
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
		cfg.Logging.FilePath = paths.GetLogPath("budget2csv.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	csvWriter := exporter.NewCSVWriter(paths)

	var (
		mu        sync.Mutex
		allTables []*budget.Table
	)

	var g errgroup.Group
	g.SetLimit(maxConcurrentFiles)

	for _, file := range files {
		file := file
		g.Go(func() error {
			tables, err := budget.ParseFile(file)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}

			logger.Info("Parsed budget file",
				slog.String("file", file),
				slog.Int("tables", len(tables)))

			for _, tbl := range tables {
				out := csvName(*outDir, file, tbl.Location)
				if err := csvWriter.WriteSimpleCSV(out, tbl.RecordHeaders(), tbl.Records()); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
			}

			mu.Lock()
			allTables = append(allTables, tables...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Budget conversion failed", "error", err)
		os.Exit(1)
	}

	sort.Slice(allTables, func(i, j int) bool {
		return allTables[i].Location < allTables[j].Location
	})

	if *combined != "" {
		if err := writeCombined(csvWriter, *combined, allTables); err != nil {
			logger.Error("Failed to write combined CSV", "error", err)
			os.Exit(1)
		}
		logger.Info("Combined CSV written", slog.String("file", *combined))
	}

	if *xlsx != "" {
		if err := exporter.NewExcelWriter(paths).WriteBudgetWorkbook(*xlsx, allTables); err != nil {
			logger.Error("Failed to write workbook", "error", err)
			os.Exit(1)
		}
		logger.Info("Workbook written", slog.String("file", *xlsx), slog.Int("sheets", len(allTables)))
	}

	logger.Info("Budget conversion complete",
		slog.Int("files", len(files)),
		slog.Int("tables", len(allTables)))
}

// writeCombined writes every table's rows into one CSV: the first
// table establishes the header, the rest are appended.
func writeCombined(csvWriter *exporter.CSVWriter, out string, tables []*budget.Table) error {
	for i, tbl := range tables {
		if i == 0 {
			if err := csvWriter.WriteSimpleCSV(out, tbl.RecordHeaders(), tbl.Records()); err != nil {
				return err
			}
			continue
		}
		if err := csvWriter.AppendToCSV(out, tbl.Records()); err != nil {
			return err
		}
	}
	return nil
}

// csvName derives the output CSV path for one budget table from the
// source file name and the table's location label.
func csvName(outDir, file, location string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	loc := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, location)
	name := fmt.Sprintf("%s_%s.csv", base, loc)
	if outDir != "" {
		return filepath.Join(outDir, name)
	}
	return name
}
