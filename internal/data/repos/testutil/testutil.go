package testutil

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/google/uuid"
	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/docstore"
	"github.com/yungbote/workspace-backend/internal/data/repos"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	pgOnce sync.Once
	pg     *gorm.DB
	pgErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// Clock is a settable time source for deterministic timestamps.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock { return &Clock{now: start.UTC()} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Registry wires every repository on top of store.
func Registry(tb testing.TB, store docstore.Store, opts ...func(*aggregates.Deps)) *repos.Registry {
	tb.Helper()
	deps := aggregates.Deps{Store: store, Log: Logger(tb)}
	for _, opt := range opts {
		opt(&deps)
	}
	return repos.NewRegistry(deps)
}

// Memory returns a fresh in-memory store with call counters.
func Memory(tb testing.TB) *docstore.Memory {
	tb.Helper()
	return docstore.NewMemory()
}

// SQLite returns a gorm-backed store on a private in-memory database.
func SQLite(tb testing.TB) *docstore.Gorm {
	tb.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	// shared-cache memory databases vanish with their last connection
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	store := docstore.NewGorm(db, Logger(tb))
	if err := store.AutoMigrate(); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	return store
}

// Postgres returns a gorm-backed store on TEST_POSTGRES_DSN, skipping the
// test when it is unset. Each call clears the documents table.
func Postgres(tb testing.TB) *docstore.Gorm {
	tb.Helper()

	pgOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			pgErr = errMissingDSN
			return
		}
		pg, pgErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if pgErr != nil {
			return
		}
		pgErr = pg.AutoMigrate(&docstore.DocumentRow{})
	})

	if errors.Is(pgErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run document store integration tests")
	}
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	if err := pg.Exec("DELETE FROM documents").Error; err != nil {
		tb.Fatalf("reset documents: %v", err)
	}
	return docstore.NewGorm(pg, Logger(tb))
}
