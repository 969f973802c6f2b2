package watcher

import (
	"context"
	"sort"
	"time"

	"github.com/ritzau/grn-borda/pkg/logging"
)

// Debouncer batches rapid file system events so a dataset is re-aggregated
// once per burst of writes
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

// pendingDataset merges the events of one dataset
type pendingDataset struct {
	typ   ChangeType
	paths map[string]bool
}

func (d *Debouncer) run(ctx context.Context) {
	var (
		quiet   = stoppedTimer()
		maxWait = stoppedTimer()
		waiting bool
		pending = make(map[string]*pendingDataset)
		order   []string
	)

	flush := func() {
		if len(order) == 0 {
			return
		}
		logging.Debug("flushing accumulated events", "datasets", len(order))

		for _, name := range order {
			p := pending[name]
			paths := make([]string, 0, len(p.paths))
			for path := range p.paths {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			d.output <- ChangeEvent{Type: p.typ, Dataset: name, Paths: paths, Timestamp: time.Now()}
		}

		pending = make(map[string]*pendingDataset)
		order = nil
		quiet.Stop()
		maxWait.Stop()
		waiting = false
	}

	for {
		select {
		case <-ctx.Done():
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}

			p, seen := pending[event.Dataset]
			if !seen {
				p = &pendingDataset{typ: event.Type, paths: make(map[string]bool)}
				pending[event.Dataset] = p
				order = append(order, event.Dataset)
			}
			// a reference change outranks ranked edge changes
			if event.Type == ChangeTypeReference {
				p.typ = ChangeTypeReference
			}
			for _, path := range event.Paths {
				p.paths[path] = true
			}

			resetTimer(quiet, d.quietPeriod)
			if !waiting {
				resetTimer(maxWait, d.maxWait)
				waiting = true
			}

		case <-quiet.C:
			flush()

		case <-maxWait.C:
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}

func stoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
