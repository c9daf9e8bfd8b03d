// Package sqlitestorage implements the storage.Backend interface on a local
// SQLite file. It wraps the GORM backend; the only SQLite-specific concerns
// are opening the file and snapshotting it.
package sqlitestorage

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/handlebridge/bridge/internal/database"
	gormstorage "github.com/handlebridge/bridge/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	path string
}

// New opens the database at path. An empty path keeps the journal in memory.
func New(path string, log zerolog.Logger, opts ...gormstorage.Option) (*Backend, error) {
	db, err := database.GetSqliteDB(path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite DB: %w", err)
	}
	opts = append([]gormstorage.Option{gormstorage.WithLogger(log)}, opts...)
	return &Backend{
		Backend: gormstorage.New(db, opts...),
		path:    path,
	}, nil
}

// Path returns the database file, or "" for an in-memory journal.
func (b *Backend) Path() string {
	return b.path
}

// Close flushes pending records and closes the connection.
func (b *Backend) Close() error {
	flushErr := b.Backend.Close()
	sqlDB, err := b.DB().DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite db: %w", err)
	}
	return flushErr
}

// Snapshot flushes pending records and writes a point-in-time copy of the
// journal to dest, replacing any existing file.
func (b *Backend) Snapshot(dest string) error {
	if dest == "" {
		return fmt.Errorf("sqlite snapshot path not set")
	}
	if err := b.Flush(); err != nil {
		return err
	}
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("error removing existing DB file: %w", err)
		}
	}
	if err := b.DB().Exec("VACUUM INTO ?", dest).Error; err != nil {
		return fmt.Errorf("error dumping DB to disk: %w", err)
	}
	return nil
}
