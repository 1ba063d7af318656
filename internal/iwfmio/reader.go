// Package iwfmio implements IWFM's Fortran-style input file reading
// conventions. Comment lines carry 'C', 'c', '*' or '#' in the first
// column; data lines must begin with whitespace so values are never
// mistaken for comment markers.
package iwfmio

import (
	"os"
	"strings"

	"iwfmcli/internal/errors"
)

// commentChars are the column-1 markers for full-line comments.
const commentChars = "Cc*#"

// inlineMarkers begin a trailing inline comment on a data line.
const inlineMarkers = "!/"

// IsComment reports whether a line is a full-line comment.
func IsComment(line string) bool {
	if len(line) == 0 {
		return true
	}
	return strings.ContainsRune(commentChars, rune(line[0]))
}

// StripInline removes an inline comment and surrounding whitespace
// from a data line.
func StripInline(line string) string {
	if i := strings.IndexAny(line, inlineMarkers); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// SkipAhead advances idx past skip non-comment lines, then past any
// run of comment lines. Returns -1 when the end of lines is reached.
func SkipAhead(lines []string, idx, skip int) int {
	for skip > 0 {
		if idx >= len(lines) {
			return -1
		}
		if !IsComment(lines[idx]) {
			skip--
		}
		idx++
	}
	for idx < len(lines) && IsComment(lines[idx]) {
		idx++
	}
	if idx >= len(lines) {
		return -1
	}
	return idx
}

// NextValue skips ahead from idx and extracts the whitespace-delimited
// field at column from the next data line. Returns the value and the
// index of the line it was read from.
func NextValue(lines []string, idx, column, skip int) (string, int, error) {
	next := SkipAhead(lines, idx+1, skip)
	if next < 0 {
		return "", -1, errors.New(errors.CodeParse, "unexpected end of file while reading value")
	}

	fields := strings.Fields(StripInline(lines[next]))
	if column >= len(fields) {
		return "", next, errors.ParseError("", next+1, lines[next], nil)
	}

	return fields[column], next, nil
}

// ReadValues reads count sequential data-line values starting after
// idx, one per line.
func ReadValues(lines []string, idx, count, column, skip int) ([]string, int, error) {
	values := make([]string, 0, count)
	for i := 0; i < count; i++ {
		v, next, err := NextValue(lines, idx, column, skip)
		if err != nil {
			return nil, idx, err
		}
		values = append(values, v)
		idx = next
	}
	return values, idx, nil
}

// ReadValuesToMap reads one value per key from sequential data lines
// and returns them keyed in order. Used for the file-name sections of
// IWFM main input files.
func ReadValuesToMap(lines []string, idx int, keys []string, column, skip int) (map[string]string, int, error) {
	values, next, err := ReadValues(lines, idx, len(keys), column, skip)
	if err != nil {
		return nil, idx, err
	}
	result := make(map[string]string, len(keys))
	for i, k := range keys {
		result[k] = values[i]
	}
	return result, next, nil
}

// ReadLines reads a whole file and splits it into lines, normalizing
// Windows line endings. IWFM outputs are small enough to hold in
// memory; no streaming is attempted.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileSystemError("read", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
}
