// Package observable provides a value cell whose dependents are told when it changes.
package observable

import "sync"

// Cell holds the latest value of T. Subscribers are called after every Set, outside the
// cell's lock, in subscription order.
type Cell[T any] struct {
	mu          sync.RWMutex
	value       T
	subscribers map[int]func(T)
	order       []int
	nextID      int
}

func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial, subscribers: make(map[int]func(T))}
}

func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	fns := c.snapshot()
	c.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}

// SetIfChanged stores value and notifies subscribers only when equal reports it differs
// from the current value. The compare and the store happen under one lock, so concurrent
// callers publishing the same transition notify once. It reports whether the value changed.
func (c *Cell[T]) SetIfChanged(value T, equal func(a, b T) bool) bool {
	c.mu.Lock()
	if equal(c.value, value) {
		c.mu.Unlock()
		return false
	}
	c.value = value
	fns := c.snapshot()
	c.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
	return true
}

// snapshot must be called with c.mu held.
func (c *Cell[T]) snapshot() []func(T) {
	fns := make([]func(T), 0, len(c.order))
	for _, id := range c.order {
		fns = append(fns, c.subscribers[id])
	}
	return fns
}

// Subscribe registers fn and returns a function that removes it.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	c.order = append(c.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			for i, v := range c.order {
				if v == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		})
	}
}
