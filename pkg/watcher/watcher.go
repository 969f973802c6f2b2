package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/grn-borda/pkg/config"
	"github.com/ritzau/grn-borda/pkg/finder"
	"github.com/ritzau/grn-borda/pkg/logging"
	"github.com/ritzau/grn-borda/pkg/model"
)

// ChangeType represents the type of file change detected
type ChangeType int

const (
	// ChangeTypeReference is a change to a dataset's true edges file
	ChangeTypeReference ChangeType = iota
	// ChangeTypeRankedEdges is a change to an algorithm's ranked edges file
	ChangeTypeRankedEdges
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTypeReference:
		return "reference"
	case ChangeTypeRankedEdges:
		return "ranked-edges"
	}
	return fmt.Sprintf("ChangeType(%d)", int(t))
}

// ChangeEvent represents a batch of file system changes within one dataset
type ChangeEvent struct {
	Type      ChangeType
	Dataset   string
	Paths     []string
	Timestamp time.Time
}

// batchWindow groups the raw events of a single write burst
const batchWindow = 100 * time.Millisecond

// watchedDir tells what a watched directory holds
type watchedDir struct {
	dataset config.Dataset
	role    dirRole
}

type dirRole int

const (
	roleInput dirRole = iota
	roleOutput
	roleAlgorithm
)

// FileWatcher watches the input and output directories of an evaluation config
type FileWatcher struct {
	watcher    *fsnotify.Watcher
	eval       *config.EvalConfig
	algorithms map[string]bool
	events     chan ChangeEvent

	mu   sync.Mutex
	dirs map[string]watchedDir
}

// NewFileWatcher creates a new file system watcher for an evaluation config
func NewFileWatcher(eval *config.EvalConfig) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	algorithms := make(map[string]bool)
	for _, a := range eval.EnabledAlgorithms() {
		algorithms[a.Name] = true
	}

	return &FileWatcher{
		watcher:    watcher,
		eval:       eval,
		algorithms: algorithms,
		events:     make(chan ChangeEvent, 100),
		dirs:       make(map[string]watchedDir),
	}, nil
}

// Start begins watching for file changes. Events stop and the channel closes
// when ctx is done.
func (fw *FileWatcher) Start(ctx context.Context) error {
	for _, ds := range fw.eval.Input.Datasets {
		fw.add(fw.eval.InputDirFor(ds), watchedDir{dataset: ds, role: roleInput})
		fw.add(fw.eval.OutputDirFor(ds), watchedDir{dataset: ds, role: roleOutput})
		for name := range fw.algorithms {
			fw.add(filepath.Join(fw.eval.OutputDirFor(ds), name), watchedDir{dataset: ds, role: roleAlgorithm})
		}
	}

	fw.mu.Lock()
	count := len(fw.dirs)
	fw.mu.Unlock()
	if count == 0 {
		fw.watcher.Close()
		return fmt.Errorf("no dataset directories to watch under %s", fw.eval.OutputDataDir())
	}
	logging.Info("started watching datasets", "datasets", len(fw.eval.Input.Datasets), "directories", count)

	go fw.processEvents(ctx)
	return nil
}

// add watches dir if it exists
func (fw *FileWatcher) add(dir string, w watchedDir) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	if err := fw.watcher.Add(dir); err != nil {
		logging.Warn("failed to watch directory", "path", dir, "error", err)
		return false
	}

	fw.mu.Lock()
	fw.dirs[dir] = w
	fw.mu.Unlock()
	logging.Debug("watching directory", "path", dir, "dataset", w.dataset.Name)
	return true
}

func (fw *FileWatcher) lookup(dir string) (watchedDir, bool) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	w, ok := fw.dirs[dir]
	return w, ok
}

// classify maps a raw event to the dataset and change type it affects
func (fw *FileWatcher) classify(event fsnotify.Event) (config.Dataset, ChangeType, bool) {
	if event.Op == fsnotify.Chmod {
		return config.Dataset{}, 0, false
	}

	parent, ok := fw.lookup(filepath.Dir(event.Name))
	if !ok {
		return config.Dataset{}, 0, false
	}
	name := filepath.Base(event.Name)

	switch parent.role {
	case roleInput:
		if name == parent.dataset.TrueEdges {
			return parent.dataset, ChangeTypeReference, true
		}
	case roleAlgorithm:
		if finder.IsRankedEdgesFile(event.Name) {
			return parent.dataset, ChangeTypeRankedEdges, true
		}
	case roleOutput:
		// A new algorithm directory; it may arrive with its file already in place
		if event.Has(fsnotify.Create) && fw.algorithms[name] {
			if fw.add(event.Name, watchedDir{dataset: parent.dataset, role: roleAlgorithm}) {
				if _, err := os.Stat(filepath.Join(event.Name, model.RankedEdgesFile)); err == nil {
					return parent.dataset, ChangeTypeRankedEdges, true
				}
			}
		}
	}
	return config.Dataset{}, 0, false
}

type batchKey struct {
	dataset string
	typ     ChangeType
}

// processEvents batches file system events per dataset and change type
func (fw *FileWatcher) processEvents(ctx context.Context) {
	pending := make(map[batchKey][]string)
	var order []batchKey

	flushTimer := time.NewTimer(batchWindow)
	flushTimer.Stop()

	flush := func() {
		for _, key := range order {
			fw.events <- ChangeEvent{
				Type:      key.typ,
				Dataset:   key.dataset,
				Paths:     pending[key],
				Timestamp: time.Now(),
			}
		}
		pending = make(map[batchKey][]string)
		order = nil
	}

	for {
		select {
		case <-ctx.Done():
			fw.watcher.Close()
			close(fw.events)
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				close(fw.events)
				return
			}

			ds, typ, relevant := fw.classify(event)
			if !relevant {
				continue
			}
			logging.Trace("file changed", "path", event.Name, "op", event.Op.String(), "dataset", ds.Name)

			key := batchKey{dataset: ds.Name, typ: typ}
			if _, seen := pending[key]; !seen {
				order = append(order, key)
			}
			pending[key] = append(pending[key], event.Name)
			flushTimer.Reset(batchWindow)

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				close(fw.events)
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}
