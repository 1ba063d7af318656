// Package fetch retrieves gauge observation tables from public
// hydrology web services (CDEC-style station pages) for comparison
// against simulated hydrographs.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"iwfmcli/internal/config"
)

// StationTable is a raw observation table scraped from a station page.
type StationTable struct {
	Station   string
	Headers   []string
	Rows      [][]string
	FetchedAt time.Time
}

// Fetcher downloads and extracts station data tables.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewFetcher creates a fetcher from the retrieval configuration.
func NewFetcher(cfg config.FetchConfig, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		logger:    logger.With(slog.String("component", "gauge_fetcher")),
	}
}

// FetchStationTable downloads a station page and extracts its first
// HTML data table.
func (f *Fetcher) FetchStationTable(ctx context.Context, station, url string) (*StationTable, error) {
	f.logger.InfoContext(ctx, "fetching station page",
		slog.String("station", station),
		slog.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station page: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d %s", res.StatusCode, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse station page: %w", err)
	}

	table := ExtractFirstTable(doc)
	if table == nil {
		return nil, fmt.Errorf("no data table found on station page for %s", station)
	}
	table.Station = station
	table.FetchedAt = time.Now().UTC()

	f.logger.InfoContext(ctx, "station table extracted",
		slog.String("station", station),
		slog.Int("row_count", len(table.Rows)))

	return table, nil
}

// ExtractFirstTable pulls the first table with data rows out of a
// parsed document. Header cells come from th elements when present,
// otherwise from the first row.
func ExtractFirstTable(doc *goquery.Document) *StationTable {
	var result *StationTable

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		var headers []string
		var rows [][]string

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			ths := tr.Find("th")
			if ths.Length() > 0 && headers == nil {
				ths.Each(func(_ int, th *goquery.Selection) {
					headers = append(headers, cleanCell(th.Text()))
				})
				return
			}

			var row []string
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				row = append(row, cleanCell(td.Text()))
			})
			if len(row) > 0 {
				rows = append(rows, row)
			}
		})

		if len(rows) == 0 {
			return true // keep looking
		}

		if headers == nil && len(rows) > 1 {
			headers = rows[0]
			rows = rows[1:]
		}

		result = &StationTable{Headers: headers, Rows: rows}
		return false
	})

	return result
}

// cleanCell collapses the internal whitespace goquery leaves behind in
// cell text.
func cleanCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
