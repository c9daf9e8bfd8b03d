// Package postgres implements the storage.Backend interface on PostgreSQL
// through the batched GORM backend.
package postgres

import (
	"github.com/rs/zerolog"

	"github.com/handlebridge/bridge/internal/config"
	"github.com/handlebridge/bridge/internal/database"
	gormstorage "github.com/handlebridge/bridge/internal/storage/gorm"
)

// New connects to the configured database and returns a batched backend.
func New(cfg config.DBConfig, log zerolog.Logger, opts ...gormstorage.Option) (*gormstorage.Backend, error) {
	db, err := database.GetPostgresDB(cfg, log)
	if err != nil {
		return nil, err
	}
	opts = append([]gormstorage.Option{gormstorage.WithLogger(log)}, opts...)
	return gormstorage.New(db, opts...), nil
}
