// Package session runs cancellable directory reads and searches.
//
// A Registry owns at most one live session. Starting a new one cancels the
// previous session and waits for it to finish before the new walk begins.
// Only events of the live session reach the listener, so a superseded
// session never delivers late results.
package session

import (
	"context"
	"iter"
	"sync"

	"github.com/google/uuid"

	"ferret/internal/match"
	"ferret/internal/walk"
	"ferret/pkg/types"
)

// Registry starts sessions and tracks the live one.
type Registry struct {
	listener Listener

	// deliverMu is held while an event is checked and handed to the listener.
	// Swapping the live session takes it too, so no event of a superseded
	// session is delivered after the swap.
	deliverMu sync.Mutex

	mu   sync.Mutex
	live *Handle

	matchOpts      []match.Option
	followSymlinks bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMatchOptions applies extra matcher options, such as case sensitivity, to every search.
func WithMatchOptions(opts ...match.Option) RegistryOption {
	return func(r *Registry) {
		r.matchOpts = append(r.matchOpts, opts...)
	}
}

// WithFollowSymlinks makes searches descend symlinked directories.
func WithFollowSymlinks(follow bool) RegistryOption {
	return func(r *Registry) {
		r.followSymlinks = follow
	}
}

// NewRegistry creates a registry reporting to listener. A nil listener drops events.
func NewRegistry(listener Listener, opts ...RegistryOption) *Registry {
	if listener == nil {
		listener = func(Event) {}
	}
	r := &Registry{listener: listener}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search compiles the request's pattern and starts a recursive search.
// An invalid pattern is returned as an error and leaves the live session running.
func (r *Registry) Search(ctx context.Context, req types.SearchRequest) (*Handle, error) {
	m, err := match.CompileRequest(req, r.matchOpts...)
	if err != nil {
		return nil, err
	}
	seq := walk.Walk(req.Root, walk.Options{
		Recursive:      true,
		IncludeHidden:  req.IncludeHidden,
		FollowSymlinks: r.followSymlinks,
	})
	return r.start(ctx, Search, req, seq, m.Match), nil
}

// List starts a flat read of root reporting every entry.
func (r *Registry) List(ctx context.Context, root string, includeHidden bool) (*Handle, error) {
	req := types.SearchRequest{Root: root, IncludeHidden: includeHidden}
	seq := walk.Walk(root, walk.Options{IncludeHidden: includeHidden})
	return r.start(ctx, Listing, req, seq, nil), nil
}

func (r *Registry) start(ctx context.Context, mode Mode, req types.SearchRequest, seq iter.Seq[types.Entry], accept func(types.Entry) bool) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	sctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		id:     uuid.NewString(),
		mode:   mode,
		req:    req,
		reg:    r,
		ctx:    sctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	r.deliverMu.Lock()
	r.mu.Lock()
	prev := r.live
	r.live = h
	r.mu.Unlock()
	r.deliverMu.Unlock()

	if prev != nil {
		prev.Stop()
		prev.Wait()
	}

	go h.run(seq, accept)
	return h
}

func (r *Registry) deliver(h *Handle, ev Event) {
	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()
	if !r.IsCurrent(h.id) {
		return
	}
	r.listener(ev)
}

// Stop cancels the live session, if any. It does not wait.
func (r *Registry) Stop() {
	r.mu.Lock()
	h := r.live
	r.mu.Unlock()
	if h != nil {
		h.Stop()
	}
}

// Live returns the most recently started session, which may have finished.
func (r *Registry) Live() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}

// Current returns the ID of the most recently started session.
func (r *Registry) Current() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.live == nil {
		return "", false
	}
	return r.live.id, true
}

// IsCurrent reports whether id names the most recently started session.
func (r *Registry) IsCurrent(id string) bool {
	cur, ok := r.Current()
	return ok && cur == id
}
