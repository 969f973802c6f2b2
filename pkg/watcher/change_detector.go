package watcher

import (
	"github.com/ritzau/grn-borda/pkg/config"
)

// ChangeAnalysis describes which datasets need to be aggregated again
type ChangeAnalysis struct {
	Datasets     []config.Dataset
	Reference    bool // a true edges file changed, so the edge universe may differ
	ChangedFiles []string
}

// AnalyzeChanges maps debounced events to the datasets of the evaluation
// config, in config order. Events for unknown datasets are ignored.
func AnalyzeChanges(events []ChangeEvent, eval *config.EvalConfig) *ChangeAnalysis {
	analysis := &ChangeAnalysis{}
	affected := make(map[string]bool, len(events))
	for _, e := range events {
		affected[e.Dataset] = true
		analysis.ChangedFiles = append(analysis.ChangedFiles, e.Paths...)
		if e.Type == ChangeTypeReference {
			analysis.Reference = true
		}
	}

	for _, ds := range eval.Input.Datasets {
		if affected[ds.Name] {
			analysis.Datasets = append(analysis.Datasets, ds)
		}
	}
	return analysis
}
