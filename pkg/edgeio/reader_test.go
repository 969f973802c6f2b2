package edgeio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ritzau/grn-borda/pkg/model"
)

func TestParseTrueEdges(t *testing.T) {
	input := "Gene1,Gene2,Type\nA,B,+\nB,C,-\n\nC,A,+\n"

	edges, err := ParseTrueEdges("refNetwork.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTrueEdges() error = %v", err)
	}

	want := []model.Edge{{Gene1: "A", Gene2: "B"}, {Gene1: "B", Gene2: "C"}, {Gene1: "C", Gene2: "A"}}
	if len(edges) != len(want) {
		t.Fatalf("expected %d edges, got %d: %v", len(want), len(edges), edges)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, edges[i], want[i])
		}
	}
}

func TestParseTrueEdgesColumnOrder(t *testing.T) {
	input := "Type,Gene2,Gene1\n+,B,A\n"

	edges, err := ParseTrueEdges("refNetwork.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTrueEdges() error = %v", err)
	}
	if len(edges) != 1 || edges[0] != (model.Edge{Gene1: "A", Gene2: "B"}) {
		t.Errorf("expected A->B, got %v", edges)
	}
}

func TestParseTrueEdgesMissingColumn(t *testing.T) {
	_, err := ParseTrueEdges("refNetwork.csv", strings.NewReader("Source,Target\nA,B\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestParseTrueEdgesEmpty(t *testing.T) {
	_, err := ParseTrueEdges("refNetwork.csv", strings.NewReader(""))
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("expected ErrEmptyFile, got %v", err)
	}
}

func TestParseRankedEdges(t *testing.T) {
	input := "Gene1\tGene2\tEdgeWeight\nA\tB\t0.9\nB\tA\t-1.5\nA\tC\t\n"

	edges, err := ParseRankedEdges("rankedEdges.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRankedEdges() error = %v", err)
	}
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}

	if edges[0].Gene1 != "A" || edges[0].Gene2 != "B" || edges[0].Weight != 0.9 {
		t.Errorf("unexpected first edge %+v", edges[0])
	}
	if edges[1].Weight != -1.5 {
		t.Errorf("negative weights must be kept as read, got %v", edges[1].Weight)
	}
	if edges[2].Weight != 0 {
		t.Errorf("empty weight should read as 0, got %v", edges[2].Weight)
	}
}

func TestParseRankedEdgesInvalidWeight(t *testing.T) {
	input := "Gene1\tGene2\tEdgeWeight\nA\tB\t0.9\nB\tA\thigh\n"

	_, err := ParseRankedEdges("rankedEdges.csv", strings.NewReader(input))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Line != 3 {
		t.Errorf("expected error on line 3, got %d", perr.Line)
	}
}

func TestParseRankedEdgesNaNWeight(t *testing.T) {
	input := "Gene1\tGene2\tEdgeWeight\nA\tB\t0.9\nB\tC\tNaN\nC\tA\tnan\n"

	edges, err := ParseRankedEdges("rankedEdges.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRankedEdges() error = %v", err)
	}
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	for _, e := range edges[1:] {
		if e.Weight != 0 {
			t.Errorf("%s weight = %v, want 0", e.Edge, e.Weight)
		}
	}
}

func TestParseRankedEdgesInfiniteWeight(t *testing.T) {
	for _, raw := range []string{"inf", "-Inf", "+Infinity"} {
		input := "Gene1\tGene2\tEdgeWeight\nA\tB\t0.9\nC\tA\t" + raw + "\n"

		_, err := ParseRankedEdges("rankedEdges.csv", strings.NewReader(input))
		if !errors.Is(err, ErrInfiniteWeight) {
			t.Errorf("%s: expected ErrInfiniteWeight, got %v", raw, err)
		}
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Line != 3 {
			t.Errorf("%s: expected *ParseError on line 3, got %v", raw, err)
		}
	}
}

func TestParseRankedEdgesCommaSeparated(t *testing.T) {
	// a comma-separated file read as tab-separated has a single header column
	input := "Gene1,Gene2,EdgeWeight\nA,B,0.9\n"

	_, err := ParseRankedEdges("rankedEdges.csv", strings.NewReader(input))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestParseRankedEdgesShortRow(t *testing.T) {
	input := "Gene1\tGene2\tEdgeWeight\nA\tB\n"

	_, err := ParseRankedEdges("rankedEdges.csv", strings.NewReader(input))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("expected *ParseError, got %v", err)
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "refNetwork.csv")
	ranked := filepath.Join(dir, "rankedEdges.csv")
	if err := os.WriteFile(ref, []byte("Gene1,Gene2\nA,B\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ranked, []byte("Gene1\tGene2\tEdgeWeight\nA\tB\t1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	trueEdges, err := ReadTrueEdges(ref)
	if err != nil || len(trueEdges) != 1 {
		t.Errorf("ReadTrueEdges() = %v, %v", trueEdges, err)
	}
	rankedEdges, err := ReadRankedEdges(ranked)
	if err != nil || len(rankedEdges) != 1 {
		t.Errorf("ReadRankedEdges() = %v, %v", rankedEdges, err)
	}

	if _, err := ReadRankedEdges(filepath.Join(dir, "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
