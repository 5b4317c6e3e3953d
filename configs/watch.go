package configs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says which half of the config surface a file edit touched.
type ChangeKind int

const (
	ChangeSpec ChangeKind = iota
	ChangeScenario
)

// Change is one debounced config file edit.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports changed spec and scenario files so a running session can
// pick up tuning edits between ticks.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches the given directories for spec and scenario edits.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	deb := newDebounce(100 * time.Millisecond)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			if !deb.admit(event.Name, time.Now()) {
				continue
			}
			w.Events <- Change{Path: event.Name, Kind: kind}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.Errors <- err
		case <-w.closeCh:
			return
		}
	}
}

// classify maps a path to the kind of config it holds. Editors drop temp and
// swap files in watched directories, so anything else is ignored.
func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeSpec, true
	case ".tengo":
		return ChangeScenario, true
	default:
		return 0, false
	}
}

// debounce drops repeat events for the same path inside the window. Editors
// tend to fire several write events per save.
type debounce struct {
	window time.Duration
	last   map[string]time.Time
}

func newDebounce(window time.Duration) *debounce {
	return &debounce{window: window, last: make(map[string]time.Time)}
}

func (d *debounce) admit(path string, now time.Time) bool {
	if t, ok := d.last[path]; ok && now.Sub(t) < d.window {
		return false
	}
	d.last[path] = now
	return true
}
