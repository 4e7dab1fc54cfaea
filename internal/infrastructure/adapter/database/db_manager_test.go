package database

import (
	"context"
	"testing"
	"time"

	domainErr "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/time"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Run("Migrate creates the view store once", func(t *testing.T) {
		testDB := NewTestDBManager(t)
		ctx := context.Background()

		// NewTestDBManager already migrated; a second run is a no-op
		require.NoError(t, testDB.Manager.Migrate(ctx))

		db := testDB.Manager.DB()
		assert.True(t, db.Migrator().HasTable("report_views"))
		assert.True(t, db.Migrator().HasIndex("report_views", "idx_report_views_base_table"))
		assert.False(t, db.Migrator().HasIndex("report_views", "idx_report_views_definition_gin"))

		var versions int64
		require.NoError(t, db.Table("report_view_schema_versions").Count(&versions).Error)
		assert.Equal(t, int64(1), versions)

		version, err := migration.NewMigrationManager(db, testDB.Logger, testDB.TimeProvider).GetCurrentVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, migration.CurrentSchemaVersion, version)
	})

	t.Run("Monitoring samples the pool", func(t *testing.T) {
		testDB := NewTestDBManager(t)

		testDB.Manager.StartMonitoring(time.Hour)

		assert.Equal(t, 1, testDB.Manager.PoolMetrics().MaxOpenConnections)
	})

	t.Run("Unsupported driver", func(t *testing.T) {
		manager := NewManager(&Config{Driver: "oracle", RetryAttempts: 1}, logger.NewNoopLogger(), timeprovider.NewRealTimeProvider())

		_, err := manager.Connect(context.Background())

		assert.ErrorIs(t, err, domainErr.ErrDatabaseConnection)
		assert.NoError(t, manager.Close())
	})

	t.Run("Migrate requires a connection", func(t *testing.T) {
		manager := NewManager(&Config{Driver: DriverSQLite}, logger.NewNoopLogger(), timeprovider.NewRealTimeProvider())

		assert.ErrorIs(t, manager.Migrate(context.Background()), domainErr.ErrDatabaseConnection)
	})
}

func TestExtractStatementType(t *testing.T) {
	assert.Equal(t, "SELECT", extractStatementType("select * from report_views"))
	assert.Equal(t, "ALTER", extractStatementType("  ALTER TABLE migrate_map_files DROP COLUMN source_data"))
	assert.Equal(t, "", extractStatementType("PRAGMA foreign_keys"))
	assert.Equal(t, "", extractStatementType(""))
}
