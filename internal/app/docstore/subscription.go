// internal/app/docstore/subscription.go
package docstore

import "sync"

// Subscription is a replay-one snapshot stream. It buffers at most one
// undelivered snapshot: a newer snapshot replaces an older one that the
// consumer has not received yet, so a slow consumer always sees the latest
// state and never blocks the backend.
type Subscription struct {
	name string
	c    chan []Record
	done chan struct{}

	mu     sync.Mutex
	closed bool
	err    error

	stopOnce sync.Once
	stop     func()
}

// NewSubscription is used by backends. stop is called once when the
// subscription is cancelled and should release backend resources.
func NewSubscription(name string, stop func()) *Subscription {
	return &Subscription{
		name: name,
		c:    make(chan []Record, 1),
		done: make(chan struct{}),
		stop: stop,
	}
}

// Name is the collection this subscription follows.
func (s *Subscription) Name() string { return s.name }

// C delivers snapshots. It is closed when the subscription ends.
func (s *Subscription) C() <-chan []Record { return s.c }

// Done is closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Err reports why the subscription ended; nil after a normal Cancel.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Publish offers a snapshot to the consumer, replacing any snapshot still
// waiting in the buffer. It reports false once the subscription is closed.
func (s *Subscription) Publish(recs []Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.c <- recs:
	default:
		select {
		case <-s.c:
		default:
		}
		s.c <- recs
	}
	return true
}

// Close ends the subscription with err (nil for a clean end) without
// calling the backend stop hook. Backends call it when their feed fails.
func (s *Subscription) Close(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.c)
	close(s.done)
}

// Cancel unsubscribes. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.stopOnce.Do(func() {
		if s.stop != nil {
			s.stop()
		}
	})
	s.Close(nil)
}
