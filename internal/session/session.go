package session

import (
	"context"
	"iter"
	"time"

	"ferret/internal/log"
	"ferret/internal/walk"
	"ferret/pkg/types"
)

// Handle controls one running session.
type Handle struct {
	id     string
	mode   Mode
	req    types.SearchRequest
	reg    *Registry
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	summary Summary
}

// ID returns the session identifier carried by its events.
func (h *Handle) ID() string { return h.id }

// Mode returns whether the session lists or searches.
func (h *Handle) Mode() Mode { return h.mode }

// Request returns the request the session was started with.
func (h *Handle) Request() types.SearchRequest { return h.req }

// Stop requests cancellation. The walk notices it before the next entry.
// Stopping a finished session has no effect.
func (h *Handle) Stop() {
	h.cancel()
}

// Wait blocks until the session has emitted its last event.
func (h *Handle) Wait() Summary {
	<-h.done
	return h.summary
}

// Finished reports whether the session has completed.
func (h *Handle) Finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *Handle) logger() *log.Logger {
	return log.LogWithFields(
		log.F("session", h.id),
		log.F("mode", h.mode.String()),
		log.F("root", h.req.Root),
	)
}

// run walks seq and reports entries accepted by accept. A nil accept reports everything.
func (h *Handle) run(seq iter.Seq[types.Entry], accept func(types.Entry) bool) {
	defer close(h.done)
	defer h.cancel()

	h.summary = Summary{
		ID:      h.id,
		Mode:    h.mode,
		Request: h.req,
		Started: time.Now(),
	}
	h.logger().With(log.F("pattern", h.req.Pattern), log.F("kind", h.req.Kind.String())).Debug("session started")

	if err := walk.Stat(h.req.Root); err != nil {
		h.summary.Err = err
	} else {
		for e := range seq {
			if h.ctx.Err() != nil {
				h.summary.Stopped = true
				break
			}
			if accept != nil && !accept(e) {
				continue
			}
			h.summary.Count++
			entry := e
			h.reg.deliver(h, Event{Kind: Found, Mode: h.mode, Session: h.id, Entry: &entry})
		}
	}

	h.summary.Finished = time.Now()
	sum := h.summary
	h.reg.deliver(h, Event{Kind: Done, Mode: h.mode, Session: h.id, Summary: &sum})

	l := h.logger().With(
		log.F("count", sum.Count),
		log.F("elapsed", sum.Elapsed().String()),
		log.F("stopped", sum.Stopped),
	)
	if sum.Err != nil {
		l.With(log.F("error", sum.Err.Error())).Warn("session failed")
		return
	}
	l.Debug("session finished")
}
