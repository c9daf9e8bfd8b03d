// Package gormstorage implements the storage.Backend interface on top of any
// GORM dialect, with internal queues and a background DB writer goroutine.
package gormstorage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/handlebridge/bridge/internal/database"
	"github.com/handlebridge/bridge/internal/model"
	"github.com/handlebridge/bridge/internal/queue"
)

// DefaultFlushInterval is used when no interval is configured.
const DefaultFlushInterval = 2 * time.Second

// DefaultBatchSize caps how many records of one kind go into a transaction.
const DefaultBatchSize = 5000

// Backend implements storage.Backend with queue-based batch writes.
type Backend struct {
	db            *gorm.DB
	log           zerolog.Logger
	flushInterval time.Duration
	batchSize     int

	events  *queue.Queue[*model.EventRecord]
	changes *queue.Queue[*model.StateChangeRecord]

	flushMu  sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Backend.
type Option func(*Backend)

// WithFlushInterval sets how often queued records are written. Values <= 0
// keep the default.
func WithFlushInterval(d time.Duration) Option {
	return func(b *Backend) {
		if d > 0 {
			b.flushInterval = d
		}
	}
}

// WithBatchSize caps records per kind per transaction.
func WithBatchSize(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithLogger sets the writer's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Backend) {
		b.log = log
	}
}

// New creates a backend writing to db. Init must be called before records
// are flushed.
func New(db *gorm.DB, opts ...Option) *Backend {
	b := &Backend{
		db:            db,
		log:           zerolog.Nop(),
		flushInterval: DefaultFlushInterval,
		batchSize:     DefaultBatchSize,
		events:        queue.New[*model.EventRecord](),
		changes:       queue.New[*model.StateChangeRecord](),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Init migrates the schema and starts the writer.
func (b *Backend) Init() error {
	if err := database.Migrate(b.db, b.log); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	go b.writeLoop()
	return nil
}

// Close stops the writer and flushes whatever is still queued.
func (b *Backend) Close() error {
	b.stopOnce.Do(func() {
		if b.stopChan != nil {
			close(b.stopChan)
			<-b.done
		}
	})
	return b.Flush()
}

// RecordEvent queues e for the next flush.
func (b *Backend) RecordEvent(e *model.EventRecord) error {
	b.events.Push(e)
	return nil
}

// RecordStateChange queues c for the next flush.
func (b *Backend) RecordStateChange(c *model.StateChangeRecord) error {
	b.changes.Push(c)
	return nil
}

// Pending returns how many records are waiting to be written.
func (b *Backend) Pending() int {
	return b.events.Len() + b.changes.Len()
}

// Flush writes everything queued so far. Failed batches stay queued.
func (b *Backend) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	var errs []error
	for !b.events.Empty() {
		if err := writeQueue(b.db, b.events, "event records", b.batchSize, b.log); err != nil {
			errs = append(errs, err)
			break
		}
	}
	for !b.changes.Empty() {
		if err := writeQueue(b.db, b.changes, "state change records", b.batchSize, b.log); err != nil {
			errs = append(errs, err)
			break
		}
	}
	return errors.Join(errs...)
}

// writeLoop periodically drains the queues into the DB.
func (b *Backend) writeLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			n := b.Pending()
			if n == 0 {
				continue
			}
			if err := b.Flush(); err != nil {
				continue
			}
			b.log.Debug().Int("records", n).Dur("took", time.Since(start)).Msg("Flushed journal")
		}
	}
}

// writeQueue drains up to max items from q and inserts them in one
// transaction. On failure the items are put back at the front of q.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, max int, log zerolog.Logger) error {
	if q.Empty() {
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin %s: %w", name, tx.Error)
	}
	items := q.Drain(max)
	if err := tx.Create(&items).Error; err != nil {
		log.Error().Err(err).Str("table", name).Int("count", len(items)).Msg("Error creating records")
		tx.Rollback()
		q.Requeue(items...)
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := tx.Commit().Error; err != nil {
		q.Requeue(items...)
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}
