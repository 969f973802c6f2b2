package finder

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("Gene1\tGene2\tEdgeWeight\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindRankedEdgeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "PIDC", "rankedEdges.csv"))
	writeFile(t, filepath.Join(root, "GENIE3", "rankedEdges.csv"))
	writeFile(t, filepath.Join(root, "SCODE", "outFile.txt"))
	writeFile(t, filepath.Join(root, ".cache", "rankedEdges.csv"))
	writeFile(t, filepath.Join(root, "PIDC", "run1", "rankedEdges.csv"))
	writeFile(t, filepath.Join(root, "rankedEdges.csv"))

	outputs, err := FindRankedEdgeFiles(root)
	if err != nil {
		t.Fatalf("FindRankedEdgeFiles() error = %v", err)
	}

	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d: %v", len(outputs), outputs)
	}
	if outputs[0].Algorithm != "GENIE3" || outputs[1].Algorithm != "PIDC" {
		t.Errorf("expected GENIE3 and PIDC in order, got %v", outputs)
	}
	if outputs[1].Path != filepath.Join(root, "PIDC", "rankedEdges.csv") {
		t.Errorf("unexpected path %s", outputs[1].Path)
	}
}

func TestFindRankedEdgeFilesMissingDir(t *testing.T) {
	outputs, err := FindRankedEdgeFiles(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing directory should not be an error, got %v", err)
	}
	if len(outputs) != 0 {
		t.Errorf("expected no outputs, got %v", outputs)
	}
}

func TestIsRankedEdgesFile(t *testing.T) {
	if !IsRankedEdgesFile(filepath.Join("out", "GSD", "PIDC", "rankedEdges.csv")) {
		t.Error("expected rankedEdges.csv to match")
	}
	if IsRankedEdgesFile(filepath.Join("out", "GSD", "GSD-Borda.csv")) {
		t.Error("Borda tables are not ranked edge files")
	}
}
