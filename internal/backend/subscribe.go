package backend

import (
	"sync"

	"ferret/internal/session"
)

// subscriber queues events without bound so a slow consumer never blocks a walk.
type subscriber struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []session.Event
	closed bool

	out  chan session.Event
	done chan struct{}
}

func newSubscriber() *subscriber {
	s := &subscriber{
		out:  make(chan session.Event),
		done: make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.loop()
	return s
}

func (s *subscriber) push(ev session.Event) {
	s.mu.Lock()
	if !s.closed {
		s.queue = append(s.queue, ev)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *subscriber) close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}

func (s *subscriber) loop() {
	defer close(s.out)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		ev := s.queue[0]
		s.queue[0] = session.Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- ev:
		case <-s.done:
			return
		}
	}
}

// Subscribe returns a channel receiving every delivered read and search
// event in order, and a function ending the subscription. The channel is
// closed once the subscription ends.
func (b *Backend) Subscribe() (<-chan session.Event, func()) {
	s := newSubscriber()

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.mu.Unlock()

	return s.out, func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		s.close()
	}
}
