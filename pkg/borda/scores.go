package borda

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ritzau/grn-borda/pkg/rank"
)

// Score column names, in output order
const (
	ColBorda   = "Borda-AvgRank"
	ColMBorda  = "mBorda-AvgRank"
	ColSBorda  = "sBorda-AvgRank"
	ColSMBorda = "smBorda-AvgRank"
)

// ScoreColumns lists the derived columns of a Borda table
var ScoreColumns = []string{ColBorda, ColMBorda, ColSBorda, ColSMBorda}

// tiedScore is the normalized score of every edge when all edges aggregate
// to the same value.
const tiedScore = 0.5

// Borda averages each edge's ascending weight rank over the algorithm
// columns and rescales the averages to [0,1]. Edges with higher weights
// rank higher, so 1 marks the edge the algorithms agree on most.
func Borda(m *Matrix, method rank.Method) []float64 {
	ranks := columnRanks(m, rank.Ascending, method)
	return rank.MinMaxFill(rowMeans(ranks, m.NumRows(), identity), tiedScore)
}

// ModifiedBorda averages 1/r² of each edge's descending weight rank r, which
// rewards edges an algorithm puts near the top far more than a plain
// average, and rescales the averages to [0,1].
func ModifiedBorda(m *Matrix, method rank.Method) []float64 {
	ranks := columnRanks(m, rank.Descending, method)
	return rank.MinMaxFill(rowMeans(ranks, m.NumRows(), inverseSquare), tiedScore)
}

func columnRanks(m *Matrix, order rank.Order, method rank.Method) [][]float64 {
	cols := make([][]float64, m.NumCols())
	for j := range cols {
		cols[j] = rank.Rank(m.Column(j), order, method)
	}
	return cols
}

// rowMeans applies f to every ranked cell and averages each row, skipping NaN
func rowMeans(cols [][]float64, rows int, f func(float64) float64) []float64 {
	means := make([]float64, rows)
	buf := make([]float64, 0, len(cols))
	for i := 0; i < rows; i++ {
		buf = buf[:0]
		for _, col := range cols {
			if v := col[i]; !math.IsNaN(v) {
				buf = append(buf, f(v))
			}
		}
		if len(buf) == 0 {
			means[i] = math.NaN()
			continue
		}
		means[i] = stat.Mean(buf, nil)
	}
	return means
}

func identity(r float64) float64 { return r }

func inverseSquare(r float64) float64 { return 1 / (r * r) }
