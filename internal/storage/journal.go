package storage

import (
	"log/slog"
	"time"

	"github.com/handlebridge/bridge/internal/model"
	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/statebag"
)

// Journal turns runtime events and state changes into records on a Backend.
// Write failures are logged and counted, never returned to the script.
type Journal struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
	failed  int
}

// NewJournal creates a Journal writing to b.
func NewJournal(b Backend, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{backend: b, logger: logger, now: time.Now}
}

// EventReceived records a decoded event.
func (j *Journal) EventReceived(name string, networked bool, source engine.ServerID, args []any) {
	payload, err := model.ToJSON(args)
	if err != nil {
		j.fail("encode event", err, "event", name)
		return
	}
	rec := &model.EventRecord{
		Time:      j.now(),
		Name:      name,
		Networked: networked,
		Source:    int32(source),
		Args:      payload,
	}
	if err := j.backend.RecordEvent(rec); err != nil {
		j.fail("record event", err, "event", name)
	}
}

// StateChanged records a delivered state bag change.
func (j *Journal) StateChanged(c statebag.Change) {
	value, err := model.ToJSON(c.Value)
	if err != nil {
		j.fail("encode state change", err, "scope", c.Scope, "key", c.Key)
		return
	}
	rec := &model.StateChangeRecord{
		Time:       j.now(),
		Scope:      c.Scope,
		Bag:        c.Bag,
		Key:        c.Key,
		Value:      value,
		Replicated: c.Replicated,
	}
	if err := j.backend.RecordStateChange(rec); err != nil {
		j.fail("record state change", err, "scope", c.Scope, "key", c.Key)
	}
}

// Failures returns how many records could not be written.
func (j *Journal) Failures() int {
	return j.failed
}

func (j *Journal) fail(op string, err error, attrs ...any) {
	j.failed++
	j.logger.Warn("journal "+op+" failed", append(attrs, "error", err)...)
}
