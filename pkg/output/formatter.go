package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ritzau/grn-borda/pkg/model"
)

// DatasetCoverage summarizes which algorithms made it into one dataset's table
type DatasetCoverage struct {
	Dataset        string
	Table          string // path of the written Borda table
	Genes          int
	ReferenceEdges int
	Edges          int
	Outcomes       []model.Outcome
}

// Contributors counts the algorithms with a column in the table
func (c DatasetCoverage) Contributors() int {
	n := 0
	for _, o := range c.Outcomes {
		if o.Contributed() {
			n++
		}
	}
	return n
}

// PrintCoverageReport prints a colored per-dataset coverage report
func PrintCoverageReport(w io.Writer, coverage []DatasetCoverage) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Fprintln(w, "Borda Aggregation - Coverage Report")
	bold.Fprintln(w, "===================================")

	totalPairs, totalContrib := 0, 0
	for _, c := range coverage {
		fmt.Fprintln(w)
		cyan.Fprintf(w, "%s", c.Dataset)
		fmt.Fprintf(w, "  %d genes, %d reference edges, %d edges -> %s\n", c.Genes, c.ReferenceEdges, c.Edges, c.Table)

		for _, o := range c.Outcomes {
			switch o.Status {
			case model.OutcomeSuccess:
				green.Fprintf(w, "  ✓ %-16s", o.Algorithm)
				fmt.Fprintf(w, " %d rows, %d reference edges predicted\n", o.Rows, o.Hits)
			case model.OutcomeSkippedMissing:
				yellow.Fprintf(w, "  - %-16s", o.Algorithm)
				fmt.Fprintf(w, " missing: %s\n", o.Path)
			case model.OutcomeSkippedError:
				red.Fprintf(w, "  ✗ %-16s", o.Algorithm)
				fmt.Fprintf(w, " Skipping Borda computation for %s on path %s: %s\n", o.Algorithm, o.Path, o.Message())
			}
		}

		totalPairs += len(c.Outcomes)
		totalContrib += c.Contributors()
	}
	fmt.Fprintln(w)

	percentage := 100.0
	if totalPairs > 0 {
		percentage = float64(totalContrib) / float64(totalPairs) * 100.0
	}

	summaryColor := green
	if percentage < 100.0 {
		summaryColor = yellow
	}
	if percentage < 50.0 {
		summaryColor = red
	}

	summaryColor.Fprintf(w, "Summary: %d datasets, %.0f%% algorithm coverage (%d/%d)\n",
		len(coverage), percentage, totalContrib, totalPairs)
}
