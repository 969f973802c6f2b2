// Package edgeio reads reference networks and ranked edge lists, and writes
// aggregated score tables.
package edgeio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ritzau/grn-borda/pkg/model"
)

const (
	ColGene1      = "Gene1"
	ColGene2      = "Gene2"
	ColEdgeWeight = "EdgeWeight"
)

var (
	// ErrMissingColumn is returned when a required header column is absent
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyFile is returned for files without a header row
	ErrEmptyFile = errors.New("empty file")
	// ErrInfiniteWeight is returned for an edge weight of +Inf or -Inf
	ErrInfiniteWeight = errors.New("infinite edge weight")
)

// ParseError reports a malformed row
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadTrueEdges reads a comma-separated reference network. The header must
// name Gene1 and Gene2; any other columns (e.g. Type) are ignored.
func ReadTrueEdges(path string) ([]model.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readEdges(path, f, ',')
}

// ReadRankedEdges reads a tab-separated ranked edges file with the columns
// Gene1, Gene2 and EdgeWeight.
func ReadRankedEdges(path string) ([]model.RankedEdge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseRankedEdges(path, f)
}

// ParseRankedEdges parses ranked edges from r; name is only used in errors.
// An empty or NaN weight counts as 0. An infinite weight is a *ParseError
// wrapping ErrInfiniteWeight.
func ParseRankedEdges(name string, r io.Reader) ([]model.RankedEdge, error) {
	cr := newReader(r, '\t')

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	header = append([]string(nil), header...)

	cols, err := columnIndex(header, ColGene1, ColGene2, ColEdgeWeight)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var edges []model.RankedEdge
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)
		if isBlank(record) {
			continue
		}
		if len(record) <= maxIndex(cols) {
			return nil, &ParseError{Path: name, Line: line, Err: fmt.Errorf("expected %d fields, got %d", len(header), len(record))}
		}

		weight := 0.0
		if raw := strings.TrimSpace(record[cols[2]]); raw != "" {
			weight, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &ParseError{Path: name, Line: line, Err: fmt.Errorf("invalid %s %q", ColEdgeWeight, raw)}
			}
		}
		switch {
		case math.IsNaN(weight):
			weight = 0
		case math.IsInf(weight, 0):
			return nil, &ParseError{Path: name, Line: line, Err: fmt.Errorf("%w %q", ErrInfiniteWeight, record[cols[2]])}
		}

		edges = append(edges, model.RankedEdge{
			Edge: model.Edge{
				Gene1: strings.TrimSpace(record[cols[0]]),
				Gene2: strings.TrimSpace(record[cols[1]]),
			},
			Weight: weight,
		})
	}

	return edges, nil
}

// ParseTrueEdges parses a comma-separated reference network from r
func ParseTrueEdges(name string, r io.Reader) ([]model.Edge, error) {
	return readEdges(name, r, ',')
}

func readEdges(name string, r io.Reader, sep rune) ([]model.Edge, error) {
	cr := newReader(r, sep)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	header = append([]string(nil), header...)

	cols, err := columnIndex(header, ColGene1, ColGene2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var edges []model.Edge
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)
		if isBlank(record) {
			continue
		}
		if len(record) <= maxIndex(cols) {
			return nil, &ParseError{Path: name, Line: line, Err: fmt.Errorf("expected %d fields, got %d", len(header), len(record))}
		}

		edges = append(edges, model.Edge{
			Gene1: strings.TrimSpace(record[cols[0]]),
			Gene2: strings.TrimSpace(record[cols[1]]),
		})
	}

	return edges, nil
}

func newReader(r io.Reader, sep rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

// columnIndex maps the wanted column names to their header positions
func columnIndex(header []string, names ...string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	idx := make([]int, len(names))
	for i, name := range names {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("%w %s (header: %s)", ErrMissingColumn, name, strings.Join(header, ","))
		}
		idx[i] = p
	}
	return idx, nil
}

func maxIndex(idx []int) int {
	m := 0
	for _, i := range idx {
		if i > m {
			m = i
		}
	}
	return m
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
