package eventbus

// Signal is a synchronous publish/subscribe channel for events of type T.
// Handlers run inline on Publish, in subscription order, so any state a
// handler mutates is visible as soon as Publish returns. Signals are not safe
// for concurrent use; the scheduling core that relies on them runs on a
// single goroutine.
type Signal[T any] struct {
	subs []handler[T]
	next int
}

type handler[T any] struct {
	id int
	fn func(T)
}

// Subscription identifies one handler registered on a Signal.
type Subscription struct {
	id int
}

// NewSignal creates an empty Signal.
func NewSignal[T any]() *Signal[T] { return &Signal[T]{} }

// Subscribe registers fn and returns a token for Unsubscribe.
func (s *Signal[T]) Subscribe(fn func(T)) Subscription {
	s.next++
	s.subs = append(s.subs, handler[T]{id: s.next, fn: fn})
	return Subscription{id: s.next}
}

// Unsubscribe removes the handler identified by sub. Removing a handler that
// was already removed, or the zero Subscription, is a no-op.
func (s *Signal[T]) Unsubscribe(sub Subscription) {
	if sub.id == 0 {
		return
	}
	for i, h := range s.subs {
		if h.id == sub.id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Publish invokes every subscribed handler with e, in subscription order. The
// handler list is snapshotted first, so a handler that subscribes or
// unsubscribes during dispatch does not disturb the current delivery.
func (s *Signal[T]) Publish(e T) {
	if len(s.subs) == 0 {
		return
	}
	snapshot := make([]handler[T], len(s.subs))
	copy(snapshot, s.subs)
	for _, h := range snapshot {
		h.fn(e)
	}
}

// Len reports the number of registered handlers.
func (s *Signal[T]) Len() int { return len(s.subs) }
