// Package borda aggregates the edge rankings of several network inference
// algorithms into consensus Borda scores, one table per dataset.
package borda

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ritzau/grn-borda/pkg/config"
	"github.com/ritzau/grn-borda/pkg/edgeio"
	"github.com/ritzau/grn-borda/pkg/finder"
	"github.com/ritzau/grn-borda/pkg/graph"
	"github.com/ritzau/grn-borda/pkg/logging"
	"github.com/ritzau/grn-borda/pkg/model"
	"github.com/ritzau/grn-borda/pkg/output"
	"github.com/ritzau/grn-borda/pkg/rank"
)

// EdgeColumn is the key column of a Borda table
const EdgeColumn = "Edge"

// Options tune the aggregation
type Options struct {
	// Selected names the algorithms behind the sBorda and smBorda scores.
	// Empty means all algorithms.
	Selected []string
	// Method breaks rank ties.
	Method rank.Method
	// IncludeWeights adds the per-algorithm normalized weights to the table.
	IncludeWeights bool
}

// Aggregator computes Borda tables for the datasets of an evaluation config
type Aggregator struct {
	eval *config.EvalConfig
	opts Options
	log  *slog.Logger
}

// Result is the aggregation of one dataset
type Result struct {
	Dataset  string
	OutDir   string
	Network  *graph.Network
	Matrix   *Matrix
	Scores   map[string][]float64 // score column -> value per matrix row
	Selected []string             // algorithms behind the s-scores
	Outcomes []model.Outcome
}

// NewAggregator validates the options and returns an aggregator
func NewAggregator(eval *config.EvalConfig, opts Options) (*Aggregator, error) {
	method, err := rank.ParseMethod(string(opts.Method))
	if err != nil {
		return nil, err
	}
	opts.Method = method

	return &Aggregator{
		eval: eval,
		opts: opts,
		log:  logging.New("borda.aggregator"),
	}, nil
}

// Config returns the evaluation config the aggregator reads from
func (a *Aggregator) Config() *config.EvalConfig {
	return a.eval
}

// Aggregate loads every enabled algorithm's predictions for the dataset and
// computes its Borda scores. Algorithms whose inputs are missing or broken
// are skipped and reported in Result.Outcomes.
func (a *Aggregator) Aggregate(ctx context.Context, ds config.Dataset) (*Result, error) {
	return a.aggregate(ctx, ds, func() {})
}

func (a *Aggregator) aggregate(ctx context.Context, ds config.Dataset, step func()) (*Result, error) {
	res := &Result{
		Dataset: ds.Name,
		OutDir:  a.eval.OutputDirFor(ds),
	}

	var (
		rows   []model.NormalizedEdge
		refErr error
	)
	if isDir(a.eval.InputDirFor(ds)) {
		res.Network, refErr = loadNetwork(a.eval.TrueEdgesPath(ds))
	}

	for _, alg := range a.eval.EnabledAlgorithms() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		joined, hits, err := a.collect(ds, alg.Name, res.Network, refErr)
		step()
		if err != nil {
			var skip *SkipError
			if !errors.As(err, &skip) {
				return nil, err
			}
			res.Outcomes = append(res.Outcomes, skip.Outcome())
			if skip.Kind == model.OutcomeSkippedError {
				logging.WarnContext(ctx, "Skipping Borda computation", "algorithm", alg.Name, "path", res.OutDir, "error", skip.Err)
			} else {
				logging.DebugContext(ctx, "skipping algorithm, directory not found", "algorithm", alg.Name, "path", skip.Path)
			}
			continue
		}

		res.Outcomes = append(res.Outcomes, model.Outcome{
			Dataset:   ds.Name,
			Algorithm: alg.Name,
			Status:    model.OutcomeSuccess,
			Path:      a.eval.RankedEdgesPath(ds, alg.Name),
			Rows:      len(joined),
			Hits:      hits,
		})
		rows = append(rows, joined...)
	}

	a.reportUnconfigured(ctx, res.OutDir)

	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s: %w", ds.Name, ErrNoPredictions)
	}

	res.Matrix = Pivot(rows)
	if dups := res.Matrix.KeyCollisions(); len(dups) > 0 {
		logging.WarnContext(ctx, "different edges share a row label, gene names contain '-'",
			"dataset", ds.Name, "labels", dups)
	}

	selected, err := a.resolveSelected(ctx, res.Matrix)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}
	res.Selected = selected
	sub := res.Matrix.Subset(selected)

	res.Scores = map[string][]float64{
		ColBorda:   Borda(res.Matrix, a.opts.Method),
		ColMBorda:  ModifiedBorda(res.Matrix, a.opts.Method),
		ColSBorda:  Borda(sub, a.opts.Method),
		ColSMBorda: ModifiedBorda(sub, a.opts.Method),
	}

	logging.InfoContext(ctx, "aggregated dataset",
		"dataset", ds.Name,
		"edges", res.Matrix.NumRows(),
		"algorithms", res.Matrix.NumCols(),
		"selected", len(selected))
	return res, nil
}

// collect reads one algorithm's predictions and joins them onto the universe.
// It also returns how many predicted edges are reference edges. Errors are
// always *SkipError.
func (a *Aggregator) collect(ds config.Dataset, algorithm string, net *graph.Network, refErr error) ([]model.NormalizedEdge, int, error) {
	skip := func(kind model.OutcomeStatus, path string, err error) error {
		return &SkipError{Kind: kind, Dataset: ds.Name, Algorithm: algorithm, Path: path, Err: err}
	}

	inDir := a.eval.InputDirFor(ds)
	outDir := a.eval.OutputDirFor(ds)
	algDir := filepath.Join(outDir, algorithm)
	for _, dir := range []string{inDir, outDir, algDir} {
		if !isDir(dir) {
			return nil, 0, skip(model.OutcomeSkippedMissing, dir, ErrMissingDirectory)
		}
	}

	if refErr != nil {
		return nil, 0, skip(model.OutcomeSkippedError, a.eval.TrueEdgesPath(ds), refErr)
	}
	if net.UniverseSize() == 0 {
		return nil, 0, skip(model.OutcomeSkippedError, a.eval.TrueEdgesPath(ds),
			fmt.Errorf("reference network has %d genes, need at least 2", net.NumGenes()))
	}

	rankPath := a.eval.RankedEdgesPath(ds, algorithm)
	predictions, err := edgeio.ReadRankedEdges(rankPath)
	if err != nil {
		return nil, 0, skip(model.OutcomeSkippedError, rankPath, err)
	}

	dropped := 0
	for _, p := range predictions {
		if !net.InUniverse(p.Edge) {
			dropped++
		}
	}
	if dropped > 0 {
		a.log.Debug("predictions outside the universe dropped", "dataset", ds.Name, "algorithm", algorithm, "count", dropped)
	}

	return JoinUniverse(ds.Name, algorithm, net.Universe(), predictions), net.CountReferenceEdges(predictions), nil
}

// resolveSelected intersects the selected algorithms with the matrix columns
func (a *Aggregator) resolveSelected(ctx context.Context, m *Matrix) ([]string, error) {
	if len(a.opts.Selected) == 0 {
		return m.Algorithms, nil
	}

	available := mapset.NewSet(m.Algorithms...)
	wanted := mapset.NewSet(a.opts.Selected...)

	for _, name := range wanted.Difference(available).ToSlice() {
		logging.WarnContext(ctx, "selected algorithm has no predictions", "algorithm", name)
	}

	var selected []string
	for _, name := range m.Algorithms {
		if wanted.Contains(name) {
			selected = append(selected, name)
		}
	}
	if len(selected) == 0 {
		return nil, ErrNoSelectedAlgorithms
	}
	return selected, nil
}

// reportUnconfigured logs ranked edge files of algorithms the config does not list
func (a *Aggregator) reportUnconfigured(ctx context.Context, outDir string) {
	outputs, err := finder.FindRankedEdgeFiles(outDir)
	if err != nil {
		a.log.Debug("could not scan output directory", "path", outDir, "error", err)
		return
	}

	configured := mapset.NewSet[string]()
	for _, alg := range a.eval.Input.Algorithms {
		configured.Add(alg.Name)
	}
	for _, out := range outputs {
		if !configured.Contains(out.Algorithm) {
			logging.InfoContext(ctx, "ignoring ranked edges of unconfigured algorithm", "algorithm", out.Algorithm, "path", out.Path)
		}
	}
}

// Write stores the result's Borda table and returns its path
func (a *Aggregator) Write(res *Result) (string, error) {
	path := res.TablePath()
	if err := edgeio.WriteScoreTableFile(path, res.Table(a.opts.IncludeWeights)); err != nil {
		return "", err
	}
	return path, nil
}

// TablePath is where the dataset's Borda table is written
func (r *Result) TablePath() string {
	return filepath.Join(r.OutDir, r.Dataset+model.BordaSuffix)
}

// ManifestPath is where the dataset's coverage manifest is written
func (r *Result) ManifestPath() string {
	return filepath.Join(r.OutDir, r.Dataset+output.ManifestSuffix)
}

// Table lays the result out as Edge, [algorithm weights,] score columns
func (r *Result) Table(includeWeights bool) *edgeio.ScoreTable {
	t := &edgeio.ScoreTable{
		KeyColumn: EdgeColumn,
		Keys:      r.Matrix.Keys,
		Rows:      make([][]float64, r.Matrix.NumRows()),
	}
	if includeWeights {
		t.Columns = append(t.Columns, r.Matrix.Algorithms...)
	}
	t.Columns = append(t.Columns, ScoreColumns...)

	for i := range r.Matrix.Keys {
		row := make([]float64, 0, len(t.Columns))
		if includeWeights {
			row = append(row, r.Matrix.Values[i]...)
		}
		for _, col := range ScoreColumns {
			row = append(row, r.Scores[col][i])
		}
		t.Rows[i] = row
	}
	return t
}

// Score returns the named score of an edge, and whether the edge exists
func (r *Result) Score(column, edgeKey string) (float64, bool) {
	for i, k := range r.Matrix.Keys {
		if k == edgeKey {
			return r.Scores[column][i], true
		}
	}
	return 0, false
}

// Coverage summarizes the result for reporting
func (r *Result) Coverage() output.DatasetCoverage {
	c := output.DatasetCoverage{
		Dataset:  r.Dataset,
		Table:    r.TablePath(),
		Outcomes: r.Outcomes,
	}
	if r.Matrix != nil {
		c.Edges = r.Matrix.NumRows()
	}
	if r.Network != nil {
		c.Genes = r.Network.NumGenes()
		c.ReferenceEdges = r.Network.NumEdges()
	}
	return c
}

func loadNetwork(path string) (*graph.Network, error) {
	edges, err := edgeio.ReadTrueEdges(path)
	if err != nil {
		return nil, err
	}
	return graph.FromEdges(edges), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
