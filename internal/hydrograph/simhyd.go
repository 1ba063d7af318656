// Package hydrograph loads IWFM simulation hydrograph output files and
// answers date-indexed value queries with linear interpolation between
// recorded time steps.
package hydrograph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"iwfmcli/internal/dates"
	"iwfmcli/internal/errors"
	"iwfmcli/internal/iwfmio"
)

// headerLines is the fixed number of header/metadata lines at the top
// of an IWFM hydrograph output file.
const headerLines = 9

// SimHydrographs is an immutable, date-ordered table of simulated
// hydrograph values read from one output file. Rows are sorted
// ascending by date as written by the simulation engine. After Load
// returns, the table is safe for concurrent readers.
type SimHydrographs struct {
	path  string
	dates []time.Time
	vals  [][]float64
}

// Load reads a hydrograph output file. The first nine lines are
// header and are discarded; remaining lines are whitespace-delimited
// records of the form "<date> <v1> ... <vn>" where the date token may
// carry a _24:00 suffix. A file with fewer than nine lines yields an
// empty table.
func Load(path string) (*SimHydrographs, error) {
	lines, err := iwfmio.ReadLines(path)
	if err != nil {
		return nil, err
	}

	sh := &SimHydrographs{path: path}

	for i := headerLines; i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 {
			continue
		}

		d, err := dates.Parse(fields[0])
		if err != nil {
			return nil, errors.ParseError(path, i+1, fields[0], err)
		}

		row := make([]float64, len(fields)-1)
		for j, tok := range fields[1:] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, errors.ParseError(path, i+1, tok, err)
			}
			row[j] = v
		}

		sh.dates = append(sh.dates, d)
		sh.vals = append(sh.vals, row)
	}

	return sh, nil
}

// Path returns the file the table was loaded from.
func (s *SimHydrographs) Path() string {
	return s.path
}

// HeadAt returns the value of the given column at date, linearly
// interpolated between the two bracketing recorded dates. A date that
// exactly matches a recorded time step returns the recorded value with
// no interpolation. Dates outside the recorded span fail with an
// out-of-range error.
func (s *SimHydrographs) HeadAt(date time.Time, col int) (float64, error) {
	if len(s.dates) == 0 {
		return 0, errors.Wrap(errors.CodeNotLoaded, "no simulation data available", nil)
	}

	if date.Before(s.dates[0]) {
		return 0, errors.OutOfRangeError(fmt.Sprintf(
			"date %s is before simulation start date %s",
			date.Format(dates.Layout), s.dates[0].Format(dates.Layout)))
	}
	if date.After(s.dates[len(s.dates)-1]) {
		return 0, errors.OutOfRangeError(fmt.Sprintf(
			"date %s is after simulation end date %s",
			date.Format(dates.Layout), s.dates[len(s.dates)-1].Format(dates.Layout)))
	}

	// First recorded date >= query date. The span checks above
	// guarantee after is in range and after-1 exists when needed.
	after := sort.Search(len(s.dates), func(i int) bool {
		return !s.dates[i].Before(date)
	})

	if s.dates[after].Equal(date) {
		return s.vals[after][col], nil
	}

	before := after - 1

	num := dates.DaysBetween(s.dates[before], date)
	den := dates.DaysBetween(s.dates[before], s.dates[after])
	if den == 0 {
		return s.vals[before][col], nil
	}

	frac := float64(num) / float64(den)
	return s.vals[before][col] + (s.vals[after][col]-s.vals[before][col])*frac, nil
}

// Head returns the recorded value at a row and column. Indexes are
// unguarded; out-of-range access panics.
func (s *SimHydrographs) Head(row, col int) float64 {
	return s.vals[row][col]
}

// Date returns the recorded date of a row.
func (s *SimHydrographs) Date(row int) time.Time {
	return s.dates[row]
}

// StartDate returns the first recorded date, or the zero time for an
// empty table.
func (s *SimHydrographs) StartDate() time.Time {
	if len(s.dates) == 0 {
		return time.Time{}
	}
	return s.dates[0]
}

// EndDate returns the last recorded date, or the zero time for an
// empty table.
func (s *SimHydrographs) EndDate() time.Time {
	if len(s.dates) == 0 {
		return time.Time{}
	}
	return s.dates[len(s.dates)-1]
}

// Len returns the number of recorded time steps.
func (s *SimHydrographs) Len() int {
	return len(s.vals)
}

// Columns returns the number of value columns per row.
func (s *SimHydrographs) Columns() int {
	if len(s.vals) == 0 {
		return 0
	}
	return len(s.vals[0])
}
