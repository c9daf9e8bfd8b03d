package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handlebridge/bridge/internal/config"
	"github.com/handlebridge/bridge/internal/model"
)

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DBConfig{
		Host:     "db",
		Port:     "5433",
		Username: "u",
		Password: "p",
		Database: "journal",
	})

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=journal sslmode=disable", dsn)
}

func TestGetSqliteDB_FileAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	db, err := GetSqliteDB(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db, zerolog.Nop()))

	assert.True(t, db.Migrator().HasTable(&model.EventRecord{}))
	assert.True(t, db.Migrator().HasTable(&model.StateChangeRecord{}))

	rec := &model.EventRecord{Time: time.Now(), Name: "spawn", Args: []byte(`[1]`)}
	require.NoError(t, db.Create(rec).Error)
	assert.NotZero(t, rec.ID)

	var count int64
	require.NoError(t, db.Model(&model.EventRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetSqliteDB_Memory(t *testing.T) {
	db, err := GetSqliteDB("", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db, zerolog.Nop()))

	require.NoError(t, db.Create(&model.StateChangeRecord{Scope: "entity:1", Key: "k"}).Error)

	var got model.StateChangeRecord
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "entity:1", got.Scope)
}

func TestGetPostgresDB_Unreachable(t *testing.T) {
	_, err := GetPostgresDB(config.DBConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		Username: "u",
		Password: "p",
		Database: "none",
	}, zerolog.Nop())

	assert.Error(t, err)
}
