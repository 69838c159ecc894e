package rewind

// signal is an ordered list of subscribers for one notification.
type signal[T any] struct {
	nextID uint64
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// subscribe adds fn and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (s *signal[T]) subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// emit calls every subscriber in subscription order. The list is copied
// first so handlers may unsubscribe while being notified.
func (s *signal[T]) emit(v T) {
	if len(s.subs) == 0 {
		return
	}
	subs := append([]subscriber[T](nil), s.subs...)
	for _, sub := range subs {
		sub.fn(v)
	}
}

// OnRewindStart subscribes fn to rewind start. It returns an unsubscribe
// function.
func (c *Coordinator) OnRewindStart(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return c.started.subscribe(func(struct{}) { fn() })
}

// OnRewindStop subscribes fn to rewind stop. It returns an unsubscribe
// function.
func (c *Coordinator) OnRewindStop(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return c.stopped.subscribe(func(struct{}) { fn() })
}

// OnRewindProgress subscribes fn to the per-step progress notification.
// Progress runs from 0 (live) to 1 (oldest reachable point).
func (c *Coordinator) OnRewindProgress(fn func(progress float64)) func() {
	return c.progress.subscribe(fn)
}
