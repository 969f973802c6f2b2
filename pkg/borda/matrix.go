package borda

import (
	"math"
	"sort"

	"github.com/ritzau/grn-borda/pkg/model"
)

// Matrix is the pivoted edge-by-algorithm table of normalized weights.
// Rows are sorted by (Gene1, Gene2) and columns by algorithm name; a cell
// without a value holds NaN.
type Matrix struct {
	Edges      []model.Edge
	Keys       []string // Edges[i].Key(), the row label written to tables
	Algorithms []string
	Values     [][]float64 // Values[row][col]
}

// Pivot builds the matrix from joined rows. Duplicate (edge, algorithm)
// rows are averaged.
func Pivot(rows []model.NormalizedEdge) *Matrix {
	type cell struct {
		sum float64
		n   int
	}
	type cellID struct {
		edge      model.Edge
		algorithm string
	}

	edgeSet := make(map[model.Edge]bool)
	algSet := make(map[string]bool)
	cells := make(map[cellID]*cell)

	for _, r := range rows {
		edgeSet[r.Edge] = true
		algSet[r.Algorithm] = true

		id := cellID{r.Edge, r.Algorithm}
		c, ok := cells[id]
		if !ok {
			c = &cell{}
			cells[id] = c
		}
		c.sum += r.NormWeight
		c.n++
	}

	m := &Matrix{
		Edges:      sortedEdges(edgeSet),
		Algorithms: sortedKeys(algSet),
	}
	m.Keys = make([]string, len(m.Edges))
	m.Values = make([][]float64, len(m.Edges))
	for i, e := range m.Edges {
		m.Keys[i] = e.Key()
		row := make([]float64, len(m.Algorithms))
		for j, alg := range m.Algorithms {
			if c, ok := cells[cellID{e, alg}]; ok {
				row[j] = c.sum / float64(c.n)
			} else {
				row[j] = math.NaN()
			}
		}
		m.Values[i] = row
	}
	return m
}

// KeyCollisions returns the row labels shared by more than one edge. Gene
// names containing "-" can make two different edges print the same label.
func (m *Matrix) KeyCollisions() []string {
	count := make(map[string]int, len(m.Keys))
	var dups []string
	for _, k := range m.Keys {
		count[k]++
		if count[k] == 2 {
			dups = append(dups, k)
		}
	}
	sort.Strings(dups)
	return dups
}

// NumRows returns the number of edges
func (m *Matrix) NumRows() int { return len(m.Keys) }

// NumCols returns the number of algorithms
func (m *Matrix) NumCols() int { return len(m.Algorithms) }

// ColumnIndex returns the position of an algorithm column, or -1
func (m *Matrix) ColumnIndex(algorithm string) int {
	for j, a := range m.Algorithms {
		if a == algorithm {
			return j
		}
	}
	return -1
}

// Column returns a copy of one algorithm's weights
func (m *Matrix) Column(j int) []float64 {
	col := make([]float64, len(m.Values))
	for i, row := range m.Values {
		col[i] = row[j]
	}
	return col
}

// Subset returns a matrix restricted to the named algorithms that are
// present, keeping this matrix's column order and rows.
func (m *Matrix) Subset(algorithms []string) *Matrix {
	seen := make(map[int]bool, len(algorithms))
	var cols []int
	for _, a := range algorithms {
		if j := m.ColumnIndex(a); j >= 0 && !seen[j] {
			seen[j] = true
			cols = append(cols, j)
		}
	}
	sort.Ints(cols)

	sub := &Matrix{Edges: m.Edges, Keys: m.Keys}
	for _, j := range cols {
		sub.Algorithms = append(sub.Algorithms, m.Algorithms[j])
	}

	sub.Values = make([][]float64, len(m.Values))
	for i, row := range m.Values {
		r := make([]float64, len(cols))
		for k, j := range cols {
			r[k] = row[j]
		}
		sub.Values[i] = r
	}
	return sub
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedEdges(set map[model.Edge]bool) []model.Edge {
	edges := make([]model.Edge, 0, len(set))
	for e := range set {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Gene1 != edges[j].Gene1 {
			return edges[i].Gene1 < edges[j].Gene1
		}
		return edges[i].Gene2 < edges[j].Gene2
	})
	return edges
}
