package backend

import (
	"context"
	"slices"
	"strings"
	"sync"

	"ferret/internal/history"
	"ferret/internal/log"
	"ferret/internal/session"
	"ferret/internal/volume"
	"ferret/pkg/types"
)

// Browser keeps navigation history, the current directory listing and the
// read that fills it consistent with each other.
type Browser struct {
	b *Backend

	// mu serialises history transitions with the reads they start.
	mu   sync.Mutex
	hist *history.History
	read *session.Handle

	// lmu guards the listing, which is filled from session workers.
	lmu       sync.Mutex
	listing   []types.Entry
	listingID string
	loading   bool
	err       error

	unsubscribe []func()
}

// NewBrowser creates a browser on b positioned at the empty location.
func NewBrowser(b *Backend) *Browser {
	br := &Browser{b: b, hist: history.New("")}
	br.unsubscribe = []func(){
		b.addListener(br.onEvent),
		b.OnVolumesChanged(br.HandleVolumesChanged),
	}
	return br
}

// Close detaches the browser from the backend.
func (br *Browser) Close() {
	for _, fn := range br.unsubscribe {
		fn()
	}
}

// Navigate opens path, dropping the forward history.
func (br *Browser) Navigate(path string) {
	br.mu.Lock()
	defer br.mu.Unlock()
	br.hist.Navigate(path)
	br.load()
}

// Back returns to the previous location. It reports false when there is none.
func (br *Browser) Back() bool {
	br.mu.Lock()
	defer br.mu.Unlock()
	if !br.hist.Undo() {
		return false
	}
	br.load()
	return true
}

// Forward re-opens the location left by Back. It reports false when there is none.
func (br *Browser) Forward() bool {
	br.mu.Lock()
	defer br.mu.Unlock()
	if !br.hist.Redo() {
		return false
	}
	br.load()
	return true
}

// Refresh reads the present location again.
func (br *Browser) Refresh() {
	br.mu.Lock()
	defer br.mu.Unlock()
	br.load()
}

// load starts a read of the present location. Callers hold mu.
func (br *Browser) load() {
	present := br.hist.Present()

	br.lmu.Lock()
	br.listing = nil
	br.listingID = ""
	br.err = nil
	br.loading = present != ""
	br.lmu.Unlock()

	if present == "" {
		br.stopRead()
		return
	}

	h, err := br.b.ReadDirectory(context.Background(), present)
	if err != nil {
		br.lmu.Lock()
		br.err = err
		br.loading = false
		br.lmu.Unlock()
		return
	}
	br.read = h

	// Events that slipped in from the superseded read before the swap are dropped here.
	br.lmu.Lock()
	if br.listingID != h.ID() {
		br.listing = nil
		br.listingID = h.ID()
		br.loading = true
		br.err = nil
	}
	br.lmu.Unlock()
}

func (br *Browser) stopRead() {
	if br.read != nil {
		br.read.Stop()
		br.read.Wait()
	}
}

func (br *Browser) onEvent(ev session.Event) {
	if ev.Mode != session.Listing {
		return
	}
	br.lmu.Lock()
	defer br.lmu.Unlock()
	if ev.Session != br.listingID {
		br.listing = nil
		br.listingID = ev.Session
	}
	switch ev.Kind {
	case session.Found:
		br.listing = append(br.listing, *ev.Entry)
	case session.Done:
		br.loading = false
		br.err = ev.Summary.Err
	}
}

// HandleVolumesChanged resets the browser when the present location was on a
// removed volume: the read is stopped, then the history is reset, then the
// listing is cleared.
func (br *Browser) HandleVolumesChanged(old, new []types.VolumeInfo) {
	br.mu.Lock()
	defer br.mu.Unlock()

	present := br.hist.Present()
	if present == "" {
		return
	}
	for _, mp := range volume.Removed(old, new) {
		if !volume.Contains(mp, present) {
			continue
		}
		log.LogWithFields(log.F("mountpoint", mp), log.F("present", present)).Info("Current volume removed, resetting navigation")

		br.stopRead()
		br.hist.Reset()

		br.lmu.Lock()
		br.listing = nil
		br.listingID = ""
		br.loading = false
		br.err = nil
		br.lmu.Unlock()
		return
	}
}

// State returns a copy of the navigation history.
func (br *Browser) State() history.State {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.hist.Snapshot()
}

// Present returns the current location.
func (br *Browser) Present() string {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.hist.Present()
}

// CanGoBack reports whether Back would move.
func (br *Browser) CanGoBack() bool {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.hist.CanUndo()
}

// CanGoForward reports whether Forward would move.
func (br *Browser) CanGoForward() bool {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.hist.CanRedo()
}

// Listing returns the entries read so far for the present location.
func (br *Browser) Listing() []types.Entry {
	br.lmu.Lock()
	defer br.lmu.Unlock()
	return slices.Clone(br.listing)
}

// SortedListing returns the listing ordered by SortListing.
func (br *Browser) SortedListing(foldersFirst bool) []types.Entry {
	return SortListing(br.Listing(), foldersFirst)
}

// Loading reports whether the read of the present location is still running.
func (br *Browser) Loading() bool {
	br.lmu.Lock()
	defer br.lmu.Unlock()
	return br.loading
}

// Err returns the error of the last finished read, if any.
func (br *Browser) Err() error {
	br.lmu.Lock()
	defer br.lmu.Unlock()
	return br.err
}

// Wait blocks until the current read has finished.
func (br *Browser) Wait() {
	br.mu.Lock()
	h := br.read
	br.mu.Unlock()
	if h != nil {
		h.Wait()
	}
}

// SortListing orders entries by name, case-insensitively, optionally putting
// folders before files. The input is not modified.
func SortListing(entries []types.Entry, foldersFirst bool) []types.Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b types.Entry) int {
		if foldersFirst && a.IsFolder != b.IsFolder {
			if a.IsFolder {
				return -1
			}
			return 1
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
