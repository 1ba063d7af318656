// Package dates implements date handling conventions for IWFM text
// outputs. IWFM writes calendar dates as MM/DD/YYYY, with end-of-day
// timestamps rendered as a trailing _24:00 token that must be stripped
// before parsing.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the IWFM calendar date layout.
const Layout = "01/02/2006"

// midnightSuffix marks end-of-day timestamps in IWFM output files.
const midnightSuffix = "_24:00"

// CleanTimestamp strips the IWFM _24:00 end-of-day marker from a date
// token.
func CleanTimestamp(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), midnightSuffix)
}

// Validate checks that a date string is in MM/DD/YYYY format and
// returns the month, day and year parts. Range checks are coarse;
// Parse rejects impossible calendar dates like 02/30/2020.
func Validate(dateStr, paramName string) (month, day, year int, err error) {
	if strings.TrimSpace(dateStr) == "" {
		return 0, 0, 0, fmt.Errorf("%s cannot be empty", paramName)
	}

	parts := strings.Split(strings.TrimSpace(dateStr), "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf(
			"%s must be in MM/DD/YYYY format (e.g., '01/15/2020'), got %q: expected 3 parts separated by '/', found %d",
			paramName, dateStr, len(parts))
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf(
				"%s contains non-numeric values: %q, all parts must be integers (MM/DD/YYYY)",
				paramName, dateStr)
		}
		nums[i] = n
	}
	month, day, year = nums[0], nums[1], nums[2]

	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("%s has invalid month %d in %q, must be 1-12", paramName, month, dateStr)
	}
	if day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("%s has invalid day %d in %q, must be 1-31", paramName, day, dateStr)
	}
	if year < 1800 || year > 5000 {
		return 0, 0, 0, fmt.Errorf("%s has invalid year %d in %q, must be 1800-5000", paramName, year, dateStr)
	}

	return month, day, year, nil
}

// Parse parses a strict MM/DD/YYYY date string. The _24:00 suffix is
// stripped first so raw tokens from output files parse directly.
func Parse(dateStr string) (time.Time, error) {
	return ParseNamed(dateStr, "date")
}

// ParseNamed is Parse with a parameter name used in error messages.
func ParseNamed(dateStr, paramName string) (time.Time, error) {
	cleaned := CleanTimestamp(dateStr)

	if _, _, _, err := Validate(cleaned, paramName); err != nil {
		return time.Time{}, err
	}

	// time.Parse accepts 02/30 by normalizing to 03/01; round-trip to
	// catch impossible calendar dates.
	t, err := time.Parse(Layout, cleaned)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s is not a valid date: %q: %w", paramName, dateStr, err)
	}
	if t.Format(Layout) != cleaned {
		return time.Time{}, fmt.Errorf("%s is not a valid calendar date: %q", paramName, dateStr)
	}

	return t, nil
}

// WaterYear returns the water year for t. Water years run October 1
// through September 30 and are labeled by the ending calendar year.
func WaterYear(t time.Time) int {
	if t.Month() >= time.October {
		return t.Year() + 1
	}
	return t.Year()
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
