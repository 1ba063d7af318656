// Package headall parses IWFM headall.out files: simulated groundwater
// heads for every node and model layer at every output time step.
//
// Layout: five header lines, a node-number line, then one block per
// time step. A block's first line carries the date token followed by
// layer-1 heads; continuation lines (leading whitespace) carry the
// remaining layers.
package headall

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"iwfmcli/internal/dates"
	"iwfmcli/internal/errors"
	"iwfmcli/internal/iwfmio"
)

// headerLines is the fixed header height before the node-number line.
const headerLines = 5

// Step is all heads for one output time step, layer-major.
type Step struct {
	Date   time.Time
	Layers [][]float64
}

// HeadAll is a parsed headall.out file.
type HeadAll struct {
	Nodes []int
	Steps []Step
}

// ParseFile reads and parses a headall.out file.
func ParseFile(path string) (*HeadAll, error) {
	lines, err := iwfmio.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, lines)
}

// Parse parses headall.out lines. The path is used only for error
// reporting.
func Parse(path string, lines []string) (*HeadAll, error) {
	if len(lines) <= headerLines {
		return &HeadAll{}, nil
	}

	// Node-number line: two leading text tokens, then node IDs.
	fields := strings.Fields(lines[headerLines])
	if len(fields) < 3 {
		return nil, errors.ParseError(path, headerLines+1, lines[headerLines], nil)
	}
	nodes := make([]int, 0, len(fields)-2)
	for _, tok := range fields[2:] {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, errors.ParseError(path, headerLines+1, tok, err)
		}
		nodes = append(nodes, n)
	}

	ha := &HeadAll{Nodes: nodes}
	var current *Step

	for i := headerLines + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		continuation := line[0] == ' ' || line[0] == '\t'
		fields := strings.Fields(line)

		if !continuation {
			d, err := dates.Parse(fields[0])
			if err != nil {
				return nil, errors.ParseError(path, i+1, fields[0], err)
			}
			fields = fields[1:]
			ha.Steps = append(ha.Steps, Step{Date: d})
			current = &ha.Steps[len(ha.Steps)-1]
		} else if current == nil {
			return nil, errors.ParseError(path, i+1, line, nil)
		}

		layer := make([]float64, len(fields))
		for j, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, errors.ParseError(path, i+1, tok, err)
			}
			layer[j] = v
		}
		current.Layers = append(current.Layers, layer)
	}

	return ha, nil
}

// Layers returns the number of model layers, taken from the first
// time step.
func (h *HeadAll) Layers() int {
	if len(h.Steps) == 0 {
		return 0
	}
	return len(h.Steps[0].Layers)
}

// StepForDate returns the time step recorded at the given date.
func (h *HeadAll) StepForDate(d time.Time) (*Step, error) {
	for i := range h.Steps {
		if h.Steps[i].Date.Equal(d) {
			return &h.Steps[i], nil
		}
	}
	return nil, errors.OutOfRangeError(fmt.Sprintf(
		"date %s not found in head output", d.Format(dates.Layout)))
}

// TableForDate renders one time step as a node-by-layer table ready
// for CSV export: header row "Node, Layer 1, ..." and one record per
// node.
func (h *HeadAll) TableForDate(d time.Time) ([]string, [][]string, error) {
	step, err := h.StepForDate(d)
	if err != nil {
		return nil, nil, err
	}

	header := make([]string, 0, len(step.Layers)+1)
	header = append(header, "Node")
	for l := range step.Layers {
		header = append(header, fmt.Sprintf("Layer %d", l+1))
	}

	records := make([][]string, 0, len(h.Nodes))
	for n, node := range h.Nodes {
		row := make([]string, 0, len(step.Layers)+1)
		row = append(row, strconv.Itoa(node))
		for l := range step.Layers {
			row = append(row, strconv.FormatFloat(step.Layers[l][n], 'f', -1, 64))
		}
		records = append(records, row)
	}

	return header, records, nil
}
