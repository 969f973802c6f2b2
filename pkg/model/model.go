package model

import "fmt"

// Edge is an ordered gene pair, a candidate regulatory interaction Gene1 -> Gene2
type Edge struct {
	Gene1 string `json:"gene1" yaml:"gene1"`
	Gene2 string `json:"gene2" yaml:"gene2"`
}

// Key returns the composite edge identifier used as the row key of an aggregated table
func (e Edge) Key() string {
	return e.Gene1 + "-" + e.Gene2
}

func (e Edge) String() string {
	return fmt.Sprintf("%s->%s", e.Gene1, e.Gene2)
}

// RankedEdge is one row of an algorithm's ranked-edges file
type RankedEdge struct {
	Edge
	Weight float64 `json:"weight" yaml:"weight"`
}

// NormalizedEdge is a universe edge after the left join, with the min-max
// normalized absolute weight of one algorithm
type NormalizedEdge struct {
	Edge
	Dataset    string  `json:"dataset"`
	Algorithm  string  `json:"algorithm"`
	Weight     float64 `json:"weight"`      // raw weight after the join (0 when unpredicted)
	AbsWeight  float64 `json:"abs_weight"`  // |Weight|
	NormWeight float64 `json:"norm_weight"` // AbsWeight scaled to [0,1]
}

// OutcomeStatus tells whether an algorithm contributed to a dataset's aggregation
type OutcomeStatus string

const (
	OutcomeSuccess        OutcomeStatus = "success"
	OutcomeSkippedMissing OutcomeStatus = "skipped-missing" // input or output directory absent
	OutcomeSkippedError   OutcomeStatus = "skipped-error"   // file unreadable or malformed
)

// Outcome records what happened to one (dataset, algorithm) pair
type Outcome struct {
	Dataset   string        `json:"dataset" yaml:"dataset"`
	Algorithm string        `json:"algorithm" yaml:"algorithm"`
	Status    OutcomeStatus `json:"status" yaml:"status"`
	Path      string        `json:"path,omitempty" yaml:"path,omitempty"`
	Rows      int           `json:"rows,omitempty" yaml:"rows,omitempty"` // universe rows contributed
	Hits      int           `json:"hits,omitempty" yaml:"hits,omitempty"` // predicted edges found in the reference network
	Err       error         `json:"-" yaml:"-"`
}

// Contributed reports whether the algorithm has a column in the aggregated table
func (o Outcome) Contributed() bool {
	return o.Status == OutcomeSuccess
}

// Message returns the error text for skipped outcomes, empty otherwise
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// RankedEdgesFile is the file name an algorithm writes its predictions to
const RankedEdgesFile = "rankedEdges.csv"

// BordaSuffix ends the file name of an aggregated table: {dataset}-Borda.csv
const BordaSuffix = "-Borda.csv"
