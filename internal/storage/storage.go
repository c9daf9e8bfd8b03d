// Package storage persists the diagnostic journal: events as they were
// decoded and state bag changes as they were delivered.
package storage

import "github.com/handlebridge/bridge/internal/model"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	RecordEvent(e *model.EventRecord) error
	RecordStateChange(c *model.StateChangeRecord) error
}
