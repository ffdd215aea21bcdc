package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/workspace-backend/internal/data/db"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PORT", "")
	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, db.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 10, cfg.DefaultItemsPerPage)
	assert.Equal(t, 5, cfg.CASMaxAttempts)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"port: 9090",
		"store:",
		"  driver: sqlite",
		"  sqlitePath: /tmp/x.db",
		"defaultItemsPerPage: 25",
		"metricsScrapeInterval: 30s",
		"corsOrigins: [\"https://app.example.com\"]",
	}, "\n")), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("STORE_DRIVER", "")
	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port, "env wins over file")
	assert.Equal(t, db.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Store.SQLitePath)
	assert.Equal(t, 25, cfg.DefaultItemsPerPage)
	assert.Equal(t, 30*time.Second, cfg.MetricsScrapeInterval)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoadConfigRejectsUnknownKeysAndBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prot: 1\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	_, err := LoadConfig(logger.NewNop())
	assert.Error(t, err)

	cfg := defaultConfig()
	cfg.Store.Driver = "mongo"
	cfg.CASMaxAttempts = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
	assert.Contains(t, err.Error(), "casMaxAttempts")
}

func TestNewWithMemoryStoreServesAPI(t *testing.T) {
	cfg := defaultConfig()
	cfg.Store.Driver = db.DriverMemory
	ctx := context.Background()
	a, err := NewWithConfig(ctx, logger.NewNop(), cfg)
	require.NoError(t, err)
	require.NoError(t, a.Start(ctx))
	defer func() { assert.NoError(t, a.Close(ctx)) }()

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"email":"a@example.com","firstName":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ws_repository_operations_total{collection="users",op="create",status="success"} 1`)
	assert.Contains(t, rec.Body.String(), `ws_store_operations_total{driver="memory",primitive="insertOne",status="success"} 1`)
}
