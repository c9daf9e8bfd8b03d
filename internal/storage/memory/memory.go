// Package memory keeps journal records in process memory.
package memory

import (
	"sync"

	"github.com/handlebridge/bridge/internal/model"
)

// Backend stores journal records in slices
type Backend struct {
	mu      sync.RWMutex
	events  []model.EventRecord
	changes []model.StateChangeRecord
	nextID  uint
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init() error  { return nil }
func (b *Backend) Close() error { return nil }

// RecordEvent stores a copy of e and assigns its ID.
func (b *Backend) RecordEvent(e *model.EventRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	e.ID = b.nextID
	b.events = append(b.events, *e)
	return nil
}

// RecordStateChange stores a copy of c and assigns its ID.
func (b *Backend) RecordStateChange(c *model.StateChangeRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	c.ID = b.nextID
	b.changes = append(b.changes, *c)
	return nil
}

// Events returns a snapshot of recorded events in arrival order.
func (b *Backend) Events() []model.EventRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]model.EventRecord(nil), b.events...)
}

// StateChanges returns a snapshot of recorded state changes in arrival order.
func (b *Backend) StateChanges() []model.StateChangeRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]model.StateChangeRecord(nil), b.changes...)
}
