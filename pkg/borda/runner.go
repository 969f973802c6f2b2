package borda

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ritzau/grn-borda/pkg/config"
	"github.com/ritzau/grn-borda/pkg/logging"
	"github.com/ritzau/grn-borda/pkg/output"
)

// RunnerOptions configures a Runner
type RunnerOptions struct {
	// Jobs bounds how many datasets are aggregated at once. Values below 1 mean 1.
	Jobs int
	// Progress receives a progress bar; nil disables it.
	Progress io.Writer
	// Report writes a coverage manifest next to every Borda table.
	Report bool
}

// Runner drives an Aggregator over the datasets of an evaluation config
type Runner struct {
	agg  *Aggregator
	opts RunnerOptions
	log  *slog.Logger
}

// NewRunner creates a runner
func NewRunner(agg *Aggregator, opts RunnerOptions) *Runner {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Runner{
		agg:  agg,
		opts: opts,
		log:  logging.New("borda.runner"),
	}
}

// RunAll aggregates every dataset of the evaluation config
func (r *Runner) RunAll(ctx context.Context) ([]*Result, error) {
	return r.Run(ctx, r.agg.Config().Input.Datasets)
}

// Run aggregates the given datasets and writes their tables. Results keep
// the order of datasets. The first failing dataset cancels the others and
// its error is returned.
func (r *Runner) Run(ctx context.Context, datasets []config.Dataset) ([]*Result, error) {
	start := time.Now()
	algorithms := len(r.agg.Config().EnabledAlgorithms())
	logging.InfoContext(ctx, "starting Borda aggregation",
		"datasets", len(datasets),
		"algorithms", algorithms,
		"method", string(r.agg.opts.Method),
		"jobs", r.opts.Jobs)

	bar := r.newProgressBar(len(datasets) * algorithms)
	step := func() { _ = bar.Add(1) }

	results := make([]*Result, len(datasets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)

	for i, ds := range datasets {
		i, ds := i, ds
		g.Go(func() error {
			res, err := r.runDataset(gctx, ds, step)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	err := g.Wait()
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}

	logging.InfoContext(ctx, "Borda aggregation complete",
		"datasets", len(datasets),
		"durationMs", time.Since(start).Milliseconds())
	return results, nil
}

func (r *Runner) runDataset(ctx context.Context, ds config.Dataset, step func()) (*Result, error) {
	res, err := r.agg.aggregate(ctx, ds, step)
	if err != nil {
		return nil, err
	}

	path, err := r.agg.Write(res)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}
	r.log.Info("wrote Borda table", "dataset", ds.Name, "path", path)

	if r.opts.Report {
		if err := output.WriteManifest(res.ManifestPath(), r.manifest(ctx, res)); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
	}
	return res, nil
}

func (r *Runner) manifest(ctx context.Context, res *Result) *output.Manifest {
	m := &output.Manifest{
		RunID:      logging.GetRunID(ctx),
		Dataset:    res.Dataset,
		Table:      res.TablePath(),
		Created:    time.Now().UTC().Truncate(time.Second),
		Method:     string(r.agg.opts.Method),
		Edges:      res.Matrix.NumRows(),
		Selected:   res.Selected,
		Algorithms: output.AlgorithmLines(res.Outcomes),
	}
	if res.Network != nil {
		m.Genes = res.Network.NumGenes()
		m.ReferenceEdges = res.Network.NumEdges()
		m.SelfLoops = res.Network.SelfLoops()
	}
	return m
}

func (r *Runner) newProgressBar(steps int) *progressbar.ProgressBar {
	w := r.opts.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("borda"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}
