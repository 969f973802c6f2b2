package borda

import (
	"errors"
	"fmt"

	"github.com/ritzau/grn-borda/pkg/model"
)

var (
	// ErrNoPredictions means no algorithm contributed to a dataset
	ErrNoPredictions = errors.New("no algorithm predictions to aggregate")
	// ErrNoSelectedAlgorithms means none of the selected algorithms contributed
	ErrNoSelectedAlgorithms = errors.New("none of the selected algorithms has predictions")
	// ErrMissingDirectory marks an absent input or output directory
	ErrMissingDirectory = errors.New("directory not found")
)

// SkipError explains why an algorithm was left out of a dataset's aggregation
type SkipError struct {
	Kind      model.OutcomeStatus
	Dataset   string
	Algorithm string
	Path      string
	Err       error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipping %s on %s (%s): %v", e.Algorithm, e.Dataset, e.Path, e.Err)
}

func (e *SkipError) Unwrap() error { return e.Err }

// Outcome converts the skip into the outcome recorded for the pair
func (e *SkipError) Outcome() model.Outcome {
	return model.Outcome{
		Dataset:   e.Dataset,
		Algorithm: e.Algorithm,
		Status:    e.Kind,
		Path:      e.Path,
		Err:       e.Err,
	}
}
