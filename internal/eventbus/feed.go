package eventbus

import "sync"

// Feed is a fan-out channel bus for values of type T. Unlike Signal it hands
// events to consumers over buffered channels with non-blocking delivery, which
// suits external observers (status printers, metric pollers) that must never
// stall the tick loop.
type Feed[T any] struct {
	mu     sync.RWMutex
	subs   []chan T
	closed bool
}

// NewFeed creates a new Feed.
func NewFeed[T any]() *Feed[T] { return &Feed[T]{} }

// Publish sends the event to all subscribers. Delivery is non-blocking; a
// subscriber with a full buffer misses the event.
func (f *Feed[T]) Publish(e T) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return
	}
	for _, ch := range f.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel.
func (f *Feed[T]) Subscribe() <-chan T {
	ch := make(chan T, 8)
	f.mu.Lock()
	if f.closed {
		close(ch)
	} else {
		f.subs = append(f.subs, ch)
	}
	f.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (f *Feed[T]) Unsubscribe(sub <-chan T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ch := range f.subs {
		if ch == sub {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			if !f.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes the feed and all subscriber channels.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	for _, ch := range f.subs {
		close(ch)
	}
	f.subs = nil
	f.mu.Unlock()
}
