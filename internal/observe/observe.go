// Package observe provides synchronous observable values.
//
// Observers are invoked on the calling goroutine before Set or Emit
// returns. None of the types in this package are safe for concurrent use;
// callers own a single event loop.
package observe

// Subscription is a handle to a registered observer. Dispose is idempotent.
type Subscription struct {
	cancel   func()
	disposed bool
	owner    *Bag
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Disposed returns a subscription that is already released.
func Disposed() *Subscription {
	return &Subscription{disposed: true}
}

// Dispose releases the observer. Calling it more than once is a no-op.
func (s *Subscription) Dispose() {
	if s == nil || s.disposed {
		return
	}
	s.disposed = true
	if s.owner != nil {
		s.owner.remove(s)
		s.owner = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// IsDisposed reports whether Dispose has been called.
func (s *Subscription) IsDisposed() bool {
	return s == nil || s.disposed
}

type observer[T any] struct {
	fn     func(T)
	active bool
}

// Hub fans a value out to every registered observer in registration order.
// OnActive runs when the first observer registers and OnIdle when the last
// one is disposed.
type Hub[T any] struct {
	observers []*observer[T]
	gen       uint64
	OnActive  func()
	OnIdle    func()
}

// Subscribe registers fn and returns its handle.
func (h *Hub[T]) Subscribe(fn func(T)) *Subscription {
	o := &observer[T]{fn: fn, active: true}
	h.observers = append(h.observers, o)
	if len(h.observers) == 1 && h.OnActive != nil {
		h.OnActive()
	}
	return newSubscription(func() { h.remove(o) })
}

func (h *Hub[T]) remove(o *observer[T]) {
	o.active = false
	for i, cur := range h.observers {
		if cur == o {
			h.observers = append(h.observers[:i:i], h.observers[i+1:]...)
			break
		}
	}
	if len(h.observers) == 0 && h.OnIdle != nil {
		h.OnIdle()
	}
}

// Emit calls every observer with v. Observers disposed while the emission
// is in progress are skipped. When an observer causes a newer Emit on the
// same hub, delivery of v stops so that no observer sees v after the newer
// value.
func (h *Hub[T]) Emit(v T) {
	h.gen++
	if len(h.observers) == 0 {
		return
	}
	gen := h.gen
	snapshot := append([]*observer[T](nil), h.observers...)
	for _, o := range snapshot {
		if h.gen != gen {
			return
		}
		if o.active {
			o.fn(v)
		}
	}
}

// Len returns the number of registered observers.
func (h *Hub[T]) Len() int {
	return len(h.observers)
}

// Cell holds a value and notifies observers on every Set.
type Cell[T any] struct {
	value T
	hub   Hub[T]
}

// NewCell returns a cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set stores v and notifies observers, even when v equals the current value.
func (c *Cell[T]) Set(v T) {
	c.value = v
	c.hub.Emit(v)
}

// Observe registers fn to be called with each new value.
func (c *Cell[T]) Observe(fn func(T)) *Subscription {
	return c.hub.Subscribe(fn)
}

// Observers returns the number of active observers.
func (c *Cell[T]) Observers() int {
	return c.hub.Len()
}

// Bag owns a set of subscriptions and releases them together.
type Bag struct {
	subs   []*Subscription
	closed bool
}

// Add takes ownership of s. Once the bag is disposed, s is released
// immediately instead. A subscription disposed on its own leaves the bag.
func (b *Bag) Add(s *Subscription) *Subscription {
	if b.closed {
		s.Dispose()
		return s
	}
	if s.IsDisposed() {
		return s
	}
	s.owner = b
	b.subs = append(b.subs, s)
	return s
}

func (b *Bag) remove(s *Subscription) {
	for i, cur := range b.subs {
		if cur == s {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of live subscriptions held.
func (b *Bag) Len() int {
	return len(b.subs)
}

// Dispose releases every held subscription once and closes the bag.
func (b *Bag) Dispose() {
	if b.closed {
		return
	}
	b.closed = true
	b.Reset()
}

// Reset releases every held subscription but leaves the bag usable.
func (b *Bag) Reset() {
	subs := b.subs
	b.subs = nil
	for _, s := range subs {
		s.owner = nil
		s.Dispose()
	}
}

// Closed reports whether Dispose has been called.
func (b *Bag) Closed() bool {
	return b.closed
}
