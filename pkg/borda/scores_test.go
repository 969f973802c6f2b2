package borda

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/grn-borda/pkg/graph"
	"github.com/ritzau/grn-borda/pkg/model"
	"github.com/ritzau/grn-borda/pkg/rank"
)

func matrixFrom(t *testing.T, universe []model.Edge, predictions map[string][]model.RankedEdge) *Matrix {
	t.Helper()
	var rows []model.NormalizedEdge
	for alg, preds := range predictions {
		rows = append(rows, JoinUniverse("test", alg, universe, preds)...)
	}
	return Pivot(rows)
}

func TestBordaOpposingAlgorithmsTie(t *testing.T) {
	universe := graph.FromEdges([]model.Edge{edge("A", "B")}).Universe()
	require.Len(t, universe, 2)

	m := matrixFrom(t, universe, map[string][]model.RankedEdge{
		"alg1": {ranked("A", "B", 1.0), ranked("B", "A", 0.2)},
		"alg2": {ranked("A", "B", 0.3), ranked("B", "A", 0.9)},
	})

	borda := Borda(m, rank.Average)
	mborda := ModifiedBorda(m, rank.Average)

	assert.InDeltaSlice(t, []float64{0.5, 0.5}, borda, 1e-9)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, mborda, 1e-9)
}

func TestBordaConsensusTopEdge(t *testing.T) {
	universe := graph.FromEdges([]model.Edge{edge("A", "B"), edge("B", "C")}).Universe()

	m := matrixFrom(t, universe, map[string][]model.RankedEdge{
		"alg1": {ranked("B", "C", 0.9), ranked("A", "B", 0.5), ranked("C", "A", 0.1)},
		"alg2": {ranked("B", "C", 3.0), ranked("C", "A", 2.0)},
		"alg3": {ranked("B", "C", -7), ranked("A", "C", 1), ranked("A", "B", 2)},
	})

	borda := Borda(m, rank.Average)
	mborda := ModifiedBorda(m, rank.Average)

	top := -1
	for i, k := range m.Keys {
		if k == "B-C" {
			top = i
		}
	}
	require.NotEqual(t, -1, top)

	assert.Equal(t, 1.0, borda[top])
	assert.Equal(t, 1.0, mborda[top])
	for i := range m.Keys {
		if i == top {
			continue
		}
		assert.Less(t, borda[i], borda[top], "edge %s", m.Keys[i])
		assert.Less(t, mborda[i], mborda[top], "edge %s", m.Keys[i])
	}
}

func TestBordaScoresNormalized(t *testing.T) {
	universe := graph.FromEdges([]model.Edge{edge("A", "B"), edge("C", "D")}).Universe()

	m := matrixFrom(t, universe, map[string][]model.RankedEdge{
		"alg1": {ranked("A", "B", 0.9), ranked("C", "D", 0.4), ranked("D", "A", 0.2)},
		"alg2": {ranked("C", "D", 0.8), ranked("B", "C", 0.3)},
	})

	for _, scores := range [][]float64{Borda(m, rank.Average), ModifiedBorda(m, rank.Min)} {
		require.Len(t, scores, 12)
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, s := range scores {
			lo = math.Min(lo, s)
			hi = math.Max(hi, s)
		}
		assert.Equal(t, 0.0, lo)
		assert.Equal(t, 1.0, hi)
	}
}

func TestSubsetScoresMatchFullScoresOnSubsetTable(t *testing.T) {
	universe := graph.FromEdges([]model.Edge{edge("A", "B"), edge("B", "C")}).Universe()
	preds := map[string][]model.RankedEdge{
		"alg1": {ranked("A", "B", 0.9), ranked("C", "A", 0.1)},
		"alg2": {ranked("B", "C", 3.0), ranked("C", "A", 2.0)},
		"alg3": {ranked("A", "C", 1), ranked("A", "B", 2), ranked("B", "A", 0.5)},
	}
	full := matrixFrom(t, universe, preds)

	onlySelected := matrixFrom(t, universe, map[string][]model.RankedEdge{
		"alg1": preds["alg1"],
		"alg3": preds["alg3"],
	})

	sub := full.Subset([]string{"alg1", "alg3"})
	for _, method := range []rank.Method{rank.Average, rank.Min, rank.Max, rank.First} {
		assert.Equal(t, Borda(onlySelected, method), Borda(sub, method), "method %s", method)
		assert.Equal(t, ModifiedBorda(onlySelected, method), ModifiedBorda(sub, method), "method %s", method)
	}
}

func TestBordaSkipsMissingCells(t *testing.T) {
	m := &Matrix{
		Keys:       []string{"A-B", "B-A", "A-C"},
		Algorithms: []string{"alg1", "alg2"},
		Values: [][]float64{
			{1, math.NaN()},
			{0, 1},
			{math.NaN(), math.NaN()},
		},
	}

	borda := Borda(m, rank.Average)

	// A-B: mean(2) = 2, B-A: mean(1, 1) = 1, A-C has no values
	assert.Equal(t, 1.0, borda[0])
	assert.Equal(t, 0.0, borda[1])
	assert.True(t, math.IsNaN(borda[2]))
}

func TestInverseSquare(t *testing.T) {
	assert.Equal(t, 1.0, inverseSquare(1))
	assert.Equal(t, 0.25, inverseSquare(2))
}
