package borda

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/grn-borda/pkg/config"
	"github.com/ritzau/grn-borda/pkg/logging"
	"github.com/ritzau/grn-borda/pkg/model"
	"github.com/ritzau/grn-borda/pkg/output"
)

func threeDatasets(t *testing.T) *fixture {
	f := newFixture(t, "PIDC", "GENIE3")
	for _, name := range []string{"GSD", "HSC", "mCAD"} {
		ds := f.dataset(name, abcNetwork)
		f.ranked(ds, "PIDC", "A\tB\t0.9", "B\tC\t0.5")
		f.ranked(ds, "GENIE3", "C\tA\t1.0")
	}
	return f
}

func TestRunnerRunAll(t *testing.T) {
	f := threeDatasets(t)
	var progress bytes.Buffer
	r := NewRunner(f.aggregator(Options{}), RunnerOptions{Jobs: 2, Progress: &progress})

	results, err := r.RunAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, ds := range f.eval.Input.Datasets {
		assert.Equal(t, ds.Name, results[i].Dataset, "results keep dataset order")
		assert.FileExists(t, results[i].TablePath())
		assert.NoFileExists(t, results[i].ManifestPath())
	}
}

func TestRunnerWritesManifest(t *testing.T) {
	f := newFixture(t, "PIDC", "SCODE")
	ds := f.dataset("GSD", abcNetwork)
	f.ranked(ds, "PIDC", "A\tB\t0.9")

	runID := logging.NewRunID()
	ctx := logging.WithRunID(context.Background(), runID)
	r := NewRunner(f.aggregator(Options{Method: "min"}), RunnerOptions{Report: true})

	results, err := r.RunAll(ctx)
	require.NoError(t, err)

	m, err := output.ReadManifest(results[0].ManifestPath())
	require.NoError(t, err)
	assert.Equal(t, runID, m.RunID)
	assert.Equal(t, "GSD", m.Dataset)
	assert.Equal(t, "min", m.Method)
	assert.Equal(t, 3, m.Genes)
	assert.Equal(t, 2, m.ReferenceEdges)
	assert.Equal(t, 1, m.Algorithms[0].Hits)
	assert.Equal(t, 6, m.Edges)
	assert.Equal(t, []string{"PIDC"}, m.Selected)
	require.Len(t, m.Algorithms, 2)
	assert.Equal(t, string(model.OutcomeSuccess), m.Algorithms[0].Status)
	assert.Equal(t, string(model.OutcomeSkippedMissing), m.Algorithms[1].Status)
}

func TestRunnerStopsOnFailedDataset(t *testing.T) {
	f := threeDatasets(t)
	require.NoError(t, os.RemoveAll(f.eval.OutputDirFor(f.eval.Input.Datasets[1])))

	r := NewRunner(f.aggregator(Options{}), RunnerOptions{Jobs: 1})
	_, err := r.RunAll(context.Background())
	require.ErrorIs(t, err, ErrNoPredictions)
	assert.Contains(t, err.Error(), "HSC")
}

func TestRunnerSubset(t *testing.T) {
	f := threeDatasets(t)
	r := NewRunner(f.aggregator(Options{}), RunnerOptions{Jobs: 0})

	results, err := r.Run(context.Background(), []config.Dataset{f.eval.Input.Datasets[2]})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "mCAD", results[0].Dataset)
	assert.NoFileExists(t, filepath.Join(f.eval.OutputDirFor(f.eval.Input.Datasets[0]), "GSD-Borda.csv"))
}
