package cache

import "github.com/handlebridge/bridge/pkg/engine"

type playerEntry[T any] struct {
	handle engine.PlayerHandle
	value  T
}

// PlayerCache keeps one projection per server id. An entry is only returned
// while the engine still maps the server id to the handle it was built for;
// a different handle evicts it. Not safe for concurrent use.
type PlayerCache[T any] struct {
	entries map[engine.ServerID]playerEntry[T]
	hits    int
	misses  int
}

// NewPlayerCache creates an empty cache.
func NewPlayerCache[T any]() *PlayerCache[T] {
	return &PlayerCache[T]{
		entries: make(map[engine.ServerID]playerEntry[T]),
	}
}

// Get returns the cached value for id if it was stored for handle.
func (c *PlayerCache[T]) Get(id engine.ServerID, handle engine.PlayerHandle) (T, bool) {
	e, ok := c.entries[id]
	if !ok {
		c.misses++
		var zero T
		return zero, false
	}
	if e.handle != handle {
		delete(c.entries, id)
		c.misses++
		var zero T
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Put stores v for id under handle, replacing any previous entry.
func (c *PlayerCache[T]) Put(id engine.ServerID, handle engine.PlayerHandle, v T) {
	c.entries[id] = playerEntry[T]{handle: handle, value: v}
}

// Remove drops the entry for id.
func (c *PlayerCache[T]) Remove(id engine.ServerID) {
	delete(c.entries, id)
}

// Len returns the number of entries.
func (c *PlayerCache[T]) Len() int {
	return len(c.entries)
}

// Stats returns hit and miss counts since creation or the last Reset.
func (c *PlayerCache[T]) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Reset empties the cache.
func (c *PlayerCache[T]) Reset() {
	c.entries = make(map[engine.ServerID]playerEntry[T])
	c.hits, c.misses = 0, 0
}
