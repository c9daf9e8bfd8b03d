package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/handlebridge/bridge/internal/config"
	gormstorage "github.com/handlebridge/bridge/internal/storage/gorm"
	"github.com/handlebridge/bridge/internal/storage/memory"
	postgresstorage "github.com/handlebridge/bridge/internal/storage/postgres"
	sqlitestorage "github.com/handlebridge/bridge/internal/storage/sqlite"
)

// Storage types accepted in storage.type.
const (
	TypeNone     = "none"
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// NewBackend creates a storage backend based on configuration. The "none"
// type yields a nil backend and no error.
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case TypeNone, "":
		return nil, nil
	case TypeMemory:
		return memory.New(), nil
	case TypeSQLite:
		b, err := sqlitestorage.New(cfg.SQLite.Path, log, gormstorage.WithFlushInterval(cfg.FlushInterval))
		if err != nil {
			return nil, err
		}
		return b, nil
	case TypePostgres:
		b, err := postgresstorage.New(cfg.DB, log, gormstorage.WithFlushInterval(cfg.FlushInterval))
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

var (
	_ Backend = (*memory.Backend)(nil)
	_ Backend = (*sqlitestorage.Backend)(nil)
	_ Backend = (*gormstorage.Backend)(nil)
)
