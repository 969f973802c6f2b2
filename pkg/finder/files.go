package finder

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ritzau/grn-borda/pkg/model"
)

// AlgorithmOutput is a ranked edges file an algorithm left in a dataset's output directory
type AlgorithmOutput struct {
	Algorithm string
	Path      string
}

// FindRankedEdgeFiles walks a dataset output directory and returns every
// algorithm sub-directory holding a ranked edges file, sorted by algorithm.
// Hidden directories are skipped. A missing directory yields no outputs.
func FindRankedEdgeFiles(datasetOutDir string) ([]AlgorithmOutput, error) {
	var outputs []AlgorithmOutput

	err := filepath.WalkDir(datasetOutDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == datasetOutDir && os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}

		rel, _ := filepath.Rel(datasetOutDir, path)
		depth := 0
		if rel != "." {
			depth = strings.Count(rel, string(filepath.Separator)) + 1
		}

		if d.IsDir() {
			if depth > 0 && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if depth > 1 {
				return filepath.SkipDir
			}
			return nil
		}

		// {dataset}/{algorithm}/rankedEdges.csv
		if depth == 2 && d.Name() == model.RankedEdgesFile {
			outputs = append(outputs, AlgorithmOutput{
				Algorithm: filepath.Base(filepath.Dir(path)),
				Path:      path,
			})
		}
		return nil
	})

	sort.Slice(outputs, func(i, j int) bool { return outputs[i].Algorithm < outputs[j].Algorithm })
	return outputs, err
}

// IsRankedEdgesFile reports whether path names an algorithm's ranked edges file
func IsRankedEdgesFile(path string) bool {
	return filepath.Base(path) == model.RankedEdgesFile
}
