package database

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/time"
)

// TestDBManager provides an isolated in-memory SQLite database for tests
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager connects a fresh shared-cache in-memory database named after the test
// and migrates the report view store; the connection is closed on cleanup
func NewTestDBManager(t *testing.T) *TestDBManager {
	t.Helper()

	timeProvider := timeprovider.NewRealTimeProvider()
	log := logger.NewNoopLogger()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	config := &Config{
		Driver: DriverSQLite,
		// Shared cache keeps every pooled connection on the same database
		Database:      fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		QueryTimeout:  5 * time.Second,
		LogLevel:      "silent",
		RetryAttempts: 1,
	}

	manager := NewManager(config, log, timeProvider)
	if _, err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       log,
		TimeProvider: timeProvider,
	}
}

// Exec runs raw SQL against the test database, failing the test on error
func (m *TestDBManager) Exec(t *testing.T, sql string, args ...any) {
	t.Helper()

	if err := m.Manager.DB().Exec(sql, args...).Error; err != nil {
		t.Fatalf("Failed to execute %q: %v", sql, err)
	}
}
