package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/grn-borda/pkg/borda"
	"github.com/ritzau/grn-borda/pkg/config"
	"github.com/ritzau/grn-borda/pkg/logging"
	"github.com/ritzau/grn-borda/pkg/output"
	"github.com/ritzau/grn-borda/pkg/rank"
	"github.com/ritzau/grn-borda/pkg/watcher"
)

const (
	quietPeriod = 500 * time.Millisecond
	maxWait     = 5 * time.Second
)

func main() {
	// Parse command-line flags
	flags := pflag.NewFlagSet("borda", pflag.ExitOnError)
	config.RegisterFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		logging.Fatal("failed to load settings", "error", err)
	}

	level, err := logging.ParseLevel(cfg.Verbosity, cfg.VerboseCnt)
	if err != nil {
		logging.Fatal("invalid log level", "error", err)
	}
	logging.SetOutput(os.Stderr, cfg.JSONLogs)
	logging.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithRunID(ctx, logging.NewRunID())

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			logging.InfoContext(ctx, "interrupted")
			return
		}
		logging.ErrorContext(ctx, "borda failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	eval, err := config.LoadEval(cfg.EvalConfig)
	if err != nil {
		return err
	}

	agg, err := borda.NewAggregator(eval, borda.Options{
		Selected:       cfg.Selected,
		Method:         rank.Method(cfg.Method),
		IncludeWeights: cfg.IncludeWeights,
	})
	if err != nil {
		return err
	}

	opts := borda.RunnerOptions{Jobs: cfg.Jobs, Report: cfg.Report}
	if cfg.Progress {
		opts.Progress = os.Stderr
	}
	runner := borda.NewRunner(agg, opts)

	results, err := runner.RunAll(ctx)
	if err != nil {
		return err
	}
	printReport(results)

	if !cfg.Watch {
		return nil
	}
	return watch(ctx, eval, runner)
}

// watch re-aggregates datasets whose inputs change until ctx is done
func watch(ctx context.Context, eval *config.EvalConfig, runner *borda.Runner) error {
	fw, err := watcher.NewFileWatcher(eval)
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(fw.Events(), quietPeriod, maxWait)
	debouncer.Start(ctx)
	logging.InfoContext(ctx, "watching for changes, press Ctrl+C to stop")

	for event := range debouncer.Output() {
		events := []watcher.ChangeEvent{event}
		// drain whatever else the same flush produced
	drain:
		for {
			select {
			case e, ok := <-debouncer.Output():
				if !ok {
					break drain
				}
				events = append(events, e)
			default:
				break drain
			}
		}

		analysis := watcher.AnalyzeChanges(events, eval)
		if len(analysis.Datasets) == 0 {
			continue
		}
		logging.InfoContext(ctx, "inputs changed, re-aggregating",
			"datasets", len(analysis.Datasets),
			"files", len(analysis.ChangedFiles),
			"reference", analysis.Reference)

		results, err := runner.Run(ctx, analysis.Datasets)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			// keep watching; the next change may fix the inputs
			logging.ErrorContext(ctx, "re-aggregation failed", "error", err)
			continue
		}
		printReport(results)
	}
	return ctx.Err()
}

func printReport(results []*borda.Result) {
	coverage := make([]output.DatasetCoverage, 0, len(results))
	for _, res := range results {
		coverage = append(coverage, res.Coverage())
	}
	output.PrintCoverageReport(os.Stdout, coverage)
}
