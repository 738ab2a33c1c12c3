package volume

import (
	"fmt"
	"os"
	"sync"
	"time"

	"ferret/internal/log"

	"github.com/fsnotify/fsnotify"
)

// MountEvent is a change directly under a watched mount root, such as a
// directory appearing when removable media is mounted.
type MountEvent struct {
	Path      string
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors mount roots using fsnotify
type Watcher struct {
	// Roots being watched
	roots []string

	// Channel delivering mount events
	events chan MountEvent

	// Channel to signal stop
	stopChan chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	mutex sync.RWMutex

	// Whether the watcher is running
	running bool
}

// NewWatcher creates a mount root watcher
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		roots:     []string{},
		events:    make(chan MountEvent, 10),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
	}, nil
}

// AddRoot adds a mount root to watch
func (w *Watcher) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing mount root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add mount root %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.roots {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.roots = append(w.roots, dir)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("root", dir)).Debug("Watching mount root")
	return nil
}

// Events returns the channel that delivers mount events. It is closed once
// the watcher has stopped.
func (w *Watcher) Events() <-chan MountEvent {
	return w.events
}

// Start begins forwarding fsnotify events. A stopped watcher cannot be restarted.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	stop := w.stopChan
	w.mutex.Unlock()

	go func() {
		defer close(w.events)
		for {
			select {
			case event, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}
				// Mounting and unmounting create and remove directories under the root.
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
					continue
				}

				ev := MountEvent{Path: event.Name, Timestamp: time.Now(), Op: event.Op}
				// A poll follows any event, so dropping under load loses nothing.
				select {
				case w.events <- ev:
				case <-stop:
					return
				default:
					log.LogWithFields(log.F("path", event.Name)).Debug("Mount event channel full, dropped event")
				}

			case err, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
				log.LogWithFields(log.F("error", err)).Warn("fsnotify watcher error")

			case <-stop:
				return
			}
		}
	}()

	log.Debug("Mount root watcher started.")
	return nil
}

// Stop halts the watcher and closes the event channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false

	log.Debug("Mount root watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Roots returns the mount roots being watched
func (w *Watcher) Roots() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, len(w.roots))
	copy(out, w.roots)
	return out
}
