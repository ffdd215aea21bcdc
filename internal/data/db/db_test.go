package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/workspace-backend/internal/data/docstore"
)

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", Name: "workspace"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/workspace?sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestOpenMemory(t *testing.T) {
	s, err := Open(nil, Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.Nil(t, s.DB)
	_, ok := s.Store.(*docstore.Memory)
	assert.True(t, ok)
	assert.NoError(t, s.Close())
}

func TestOpenSQLiteMigrates(t *testing.T) {
	s, err := Open(nil, Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "ws.db")})
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.DB.Migrator().HasTable(&docstore.DocumentRow{}))
	id, err := s.InsertOne(context.Background(), "tags", docstore.Document{"name": "x"})
	require.NoError(t, err)
	doc, err := s.FindByID(context.Background(), "tags", id)
	require.NoError(t, err)
	assert.Equal(t, "x", doc["name"])
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(nil, Config{Driver: "mongo"})
	assert.Error(t, err)
}
