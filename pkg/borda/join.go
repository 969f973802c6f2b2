package borda

import (
	"math"

	"github.com/ritzau/grn-borda/pkg/model"
	"github.com/ritzau/grn-borda/pkg/rank"
)

// JoinUniverse left-joins an algorithm's predictions onto the edge universe.
//
// Every universe edge yields at least one row; edges the algorithm did not
// predict get weight 0, as do NaN weights. A pair predicted more than once yields one row per
// prediction. Predictions outside the universe are dropped. The absolute
// weights are then min-max normalized across all rows.
func JoinUniverse(dataset, algorithm string, universe []model.Edge, predictions []model.RankedEdge) []model.NormalizedEdge {
	byEdge := make(map[model.Edge][]float64, len(predictions))
	for _, p := range predictions {
		w := p.Weight
		if math.IsNaN(w) {
			w = 0
		}
		byEdge[p.Edge] = append(byEdge[p.Edge], w)
	}

	rows := make([]model.NormalizedEdge, 0, len(universe))
	for _, e := range universe {
		weights, ok := byEdge[e]
		if !ok {
			weights = []float64{0}
		}
		for _, w := range weights {
			rows = append(rows, model.NormalizedEdge{
				Edge:      e,
				Dataset:   dataset,
				Algorithm: algorithm,
				Weight:    w,
			})
		}
	}

	abs := make([]float64, len(rows))
	for i := range rows {
		abs[i] = rows[i].Weight
	}
	abs = rank.Abs(abs)
	norm := rank.MinMax(abs)
	for i := range rows {
		rows[i].AbsWeight = abs[i]
		rows[i].NormWeight = norm[i]
	}

	return rows
}
