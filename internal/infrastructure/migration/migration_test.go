package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

func TestEmbeddedScripts(t *testing.T) {
	files, err := fs.Glob(scripts, "scripts/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	goose.SetBaseFS(scripts)
	t.Cleanup(func() { goose.SetBaseFS(nil) })
	migrations, err := goose.CollectMigrations(scriptsDir, 0, goose.MaxVersion)
	require.NoError(t, err)
	assert.Len(t, migrations, len(files))
	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version, "versions are contiguous")
	}

	for _, name := range files {
		body, err := fs.ReadFile(scripts, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestEmbeddedScriptsCoverModelTables(t *testing.T) {
	var all strings.Builder
	files, err := fs.Glob(scripts, "scripts/*.sql")
	require.NoError(t, err)
	for _, name := range files {
		body, err := fs.ReadFile(scripts, name)
		require.NoError(t, err)
		all.Write(body)
	}

	for _, table := range []string{
		constants.TableTickets, constants.TableTicketStatusHistory, constants.TableTicketComments,
		constants.TableQuoteRequests, constants.TableInvoices, constants.TablePaymentBatches,
		constants.TablePaymentBatchSequences, constants.TablePayments, constants.TableProcessedWebhooks,
		constants.TableSubscriptions, constants.TableNotificationOutbox, constants.TableUserDirectory,
		constants.TableCasbinRule,
	} {
		assert.Contains(t, all.String(), "CREATE TABLE "+table+" (", table)
	}
}

func TestManager_AutoMigrateInDevelopment(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m := NewManager(constants.EnvDevelopment, logger.NewNop())
	assert.Equal(t, "gorm_auto_migrate", m.GetStrategy().GetName())
	require.NoError(t, m.Migrate(db))
	assert.True(t, db.Migrator().HasTable(constants.TableInvoices))

	assert.Equal(t, "goose", NewManager(constants.EnvProduction, logger.NewNop()).GetStrategy().GetName())
}
