package volume

import (
	"context"
	"slices"
	"sync"
	"time"

	"ferret/internal/log"
	"ferret/pkg/types"
)

// ChangeFunc is called with the previous and current volume lists whenever
// the set of mountpoints changes.
type ChangeFunc func(old, new []types.VolumeInfo)

// Status represents the current state of the monitor
type Status struct {
	Running    bool      // Whether Run is active
	MountRoots []string  // Roots watched with fsnotify
	Polls      int       // Completed polls
	LastChange time.Time // Time the volume set last changed
	Volumes    int       // Volumes in the latest snapshot
}

// Monitor polls a Source and notifies listeners about added or removed volumes.
type Monitor struct {
	source   Source
	interval time.Duration
	roots    []string

	// pollMu serialises polls so listeners see changes in order.
	pollMu sync.Mutex

	mutex      sync.RWMutex
	current    []types.VolumeInfo
	polled     bool
	polls      int
	lastChange time.Time
	listeners  map[int]ChangeFunc
	nextID     int
	running    bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithMountRoots makes Run also poll when entries appear or vanish under roots.
func WithMountRoots(roots ...string) Option {
	return func(m *Monitor) {
		m.roots = append(m.roots, roots...)
	}
}

// NewMonitor creates a monitor over source polling every 5 seconds by default.
func NewMonitor(source Source, opts ...Option) *Monitor {
	m := &Monitor{
		source:    source,
		interval:  5 * time.Second,
		listeners: make(map[int]ChangeFunc),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers fn and returns a function removing it.
// Listeners run on the polling goroutine and must not call Poll.
func (m *Monitor) OnChange(fn ChangeFunc) func() {
	m.mutex.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mutex.Unlock()

	return func() {
		m.mutex.Lock()
		delete(m.listeners, id)
		m.mutex.Unlock()
	}
}

// Volumes returns the latest snapshot, polling once if none was taken yet.
func (m *Monitor) Volumes() ([]types.VolumeInfo, error) {
	m.mutex.RLock()
	polled := m.polled
	vols := slices.Clone(m.current)
	m.mutex.RUnlock()
	if polled {
		return vols, nil
	}
	return m.Poll()
}

// Poll refreshes the volume list. When the set of mountpoints differs from
// the previous poll the change listeners are called. The first poll only
// records the baseline.
func (m *Monitor) Poll() ([]types.VolumeInfo, error) {
	m.pollMu.Lock()
	defer m.pollMu.Unlock()

	vols, err := m.source.Volumes()
	if err != nil {
		return nil, err
	}
	vols = slices.Clone(vols)
	sortVolumes(vols)

	m.mutex.Lock()
	old := m.current
	first := !m.polled
	m.current = vols
	m.polled = true
	m.polls++
	changed := !first && !SameSet(old, vols)
	var listeners []ChangeFunc
	if changed {
		m.lastChange = time.Now()
		ids := make([]int, 0, len(m.listeners))
		for id := range m.listeners {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			listeners = append(listeners, m.listeners[id])
		}
	}
	m.mutex.Unlock()

	if changed {
		log.LogWithFields(
			log.F("added", Added(old, vols)),
			log.F("removed", Removed(old, vols)),
		).Info("Volumes changed")
		for _, fn := range listeners {
			fn(slices.Clone(old), slices.Clone(vols))
		}
	}
	return slices.Clone(vols), nil
}

// Run polls until ctx is done. Poll errors are logged and polling continues.
func (m *Monitor) Run(ctx context.Context) error {
	m.mutex.Lock()
	m.running = true
	m.mutex.Unlock()
	defer func() {
		m.mutex.Lock()
		m.running = false
		m.mutex.Unlock()
	}()

	m.poll()

	var events <-chan MountEvent
	if len(m.roots) > 0 {
		if w := m.watchRoots(); w != nil {
			defer w.Stop()
			events = w.Events()
		}
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.poll()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			log.LogWithFields(log.F("path", ev.Path), log.F("op", ev.Op.String())).Debug("Mount root changed")
			m.poll()
		}
	}
}

func (m *Monitor) poll() {
	if _, err := m.Poll(); err != nil {
		log.LogWithError(err).Warn("Volume poll failed")
	}
}

// watchRoots starts a watcher on the roots that exist. It returns nil if none could be watched.
func (m *Monitor) watchRoots() *Watcher {
	w, err := NewWatcher()
	if err != nil {
		log.LogWithFields(log.F("error", err)).Warn("Mount root watching disabled")
		return nil
	}
	for _, root := range m.roots {
		if err := w.AddRoot(root); err != nil {
			log.LogWithFields(log.F("root", root), log.F("error", err)).Debug("Skipping mount root")
		}
	}
	if len(w.Roots()) == 0 {
		_ = w.fsWatcher.Close()
		return nil
	}
	if err := w.Start(); err != nil {
		_ = w.fsWatcher.Close()
		return nil
	}
	return w
}

// Status returns the current status of the monitor
func (m *Monitor) Status() Status {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return Status{
		Running:    m.running,
		MountRoots: slices.Clone(m.roots),
		Polls:      m.polls,
		LastChange: m.lastChange,
		Volumes:    len(m.current),
	}
}
