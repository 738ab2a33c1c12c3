// Package backend is the boundary the user interface talks to: directory
// reads, searches, volumes and file operations behind one type.
package backend

import (
	"context"
	"sync"
	"time"

	"ferret/internal/config"
	"ferret/internal/fileops"
	"ferret/internal/log"
	"ferret/internal/match"
	"ferret/internal/session"
	"ferret/internal/volume"
	"ferret/pkg/types"
)

// Backend owns one registry for directory reads and one for searches, so a
// new read never cancels a search and vice versa.
type Backend struct {
	cfg      *config.Config
	reads    *session.Registry
	searches *session.Registry
	monitor  *volume.Monitor
	ops      fileops.Operator

	mu        sync.Mutex
	listeners map[int]session.Listener
	subs      map[int]*subscriber
	nextID    int

	unwatch func()
}

// Option configures a Backend.
type Option func(*options)

type options struct {
	source volume.Source
	ops    fileops.Operator
}

// WithVolumeSource replaces the system volume source.
func WithVolumeSource(src volume.Source) Option {
	return func(o *options) { o.source = src }
}

// WithOperator replaces the file operation engine.
func WithOperator(op fileops.Operator) Option {
	return func(o *options) { o.ops = op }
}

// New builds a backend from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) *Backend {
	if cfg == nil {
		cfg = config.New()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.source == nil {
		o.source = volume.SystemSource()
	}
	if o.ops == nil {
		o.ops = fileops.CurrentOperatorFactory()
	}

	var matchOpts []match.Option
	if cfg.Search.CaseSensitive {
		matchOpts = append(matchOpts, match.CaseSensitive())
	}
	if cfg.Search.AnchorRegex {
		matchOpts = append(matchOpts, match.AnchorRegex())
	}

	roots := cfg.Volumes.MountRoots
	if len(roots) == 0 {
		roots = volume.DefaultMountRoots()
	}
	monOpts := []volume.Option{volume.WithInterval(time.Duration(cfg.Volumes.PollInterval) * time.Second)}
	if cfg.Volumes.WatchMountRoots {
		monOpts = append(monOpts, volume.WithMountRoots(roots...))
	}

	b := &Backend{
		cfg:       cfg,
		monitor:   volume.NewMonitor(o.source, monOpts...),
		ops:       o.ops,
		listeners: make(map[int]session.Listener),
		subs:      make(map[int]*subscriber),
	}
	b.reads = session.NewRegistry(b.publish)
	b.searches = session.NewRegistry(b.publish,
		session.WithMatchOptions(matchOpts...),
		session.WithFollowSymlinks(cfg.Search.FollowSymlinks),
	)
	b.unwatch = b.monitor.OnChange(b.stopSearchesOnRemovedVolumes)
	return b
}

// Config returns the configuration the backend was built with.
func (b *Backend) Config() *config.Config { return b.cfg }

// ReadDirectory starts a flat listing of path, superseding the previous read.
// Entries arrive as Found events followed by one Done.
func (b *Backend) ReadDirectory(ctx context.Context, path string) (*session.Handle, error) {
	return b.reads.List(ctx, path, b.cfg.Listing.IncludeHidden)
}

// FindFilesAndFolders starts a recursive search, superseding the previous one.
// An invalid pattern is returned before anything is walked.
func (b *Backend) FindFilesAndFolders(ctx context.Context, req types.SearchRequest) (*session.Handle, error) {
	h, err := b.searches.Search(ctx, req)
	if err != nil {
		log.LogWithError(err).Debug("search rejected")
		return nil, err
	}
	return h, nil
}

// StopFinding cancels the live search. It does nothing when no search runs.
func (b *Backend) StopFinding() {
	b.searches.Stop()
}

// GetVolumes polls the mounted volumes.
func (b *Backend) GetVolumes() ([]types.VolumeInfo, error) {
	return b.monitor.Poll()
}

// OnVolumesChanged registers fn for volume set changes and returns a function removing it.
func (b *Backend) OnVolumesChanged(fn volume.ChangeFunc) func() {
	return b.monitor.OnChange(fn)
}

// RunVolumeMonitor polls volumes until ctx is done.
func (b *Backend) RunVolumeMonitor(ctx context.Context) error {
	return b.monitor.Run(ctx)
}

// Monitor exposes the volume monitor.
func (b *Backend) Monitor() *volume.Monitor { return b.monitor }

// OpenFileInDefaultApplication opens path with the platform's default handler.
func (b *Backend) OpenFileInDefaultApplication(path string) error {
	return b.ops.Open(path)
}

// DeleteEntries removes paths and reports the outcome of each.
func (b *Backend) DeleteEntries(paths []string) []types.DeleteResult {
	return b.ops.Delete(paths)
}

// Close stops running sessions and closes every subscription.
func (b *Backend) Close() {
	b.unwatch()
	for _, reg := range []*session.Registry{b.reads, b.searches} {
		if h := reg.Live(); h != nil {
			h.Stop()
			h.Wait()
		}
	}

	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[int]*subscriber)
	b.mu.Unlock()
	for _, s := range subs {
		s.close()
	}
}

// addListener registers a synchronous listener for session events.
func (b *Backend) addListener(fn session.Listener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// publish runs on session worker goroutines.
func (b *Backend) publish(ev session.Event) {
	b.mu.Lock()
	listeners := make([]session.Listener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	subs := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
	for _, s := range subs {
		s.push(ev)
	}
}

func (b *Backend) stopSearchesOnRemovedVolumes(old, new []types.VolumeInfo) {
	h := b.searches.Live()
	if h == nil || h.Finished() {
		return
	}
	for _, mp := range volume.Removed(old, new) {
		if volume.Contains(mp, h.Request().Root) {
			log.LogWithFields(log.F("mountpoint", mp), log.F("session", h.ID())).Info("Stopping search on removed volume")
			h.Stop()
			return
		}
	}
}
