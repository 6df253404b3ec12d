package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/database"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// setupTestDB opens a private in-memory database. A single connection keeps
// every query on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := database.Open(sqlite.Open(":memory:"), nil, logger.NewNop())
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

var (
	testNow   = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tenantAdm = authorization.Actor{UserID: 1, Role: authorization.RoleTenantAdmin, TenantID: 1}
)

func createTestTicket(t *testing.T, repo *TicketRepository, tenantID uint, n int, dept authorization.Department) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(tenantID, 100, fmt.Sprintf("Ticket %d", n), "Broken till", vo.PriorityMedium, dept, testNow)
	require.NoError(t, err)
	require.NoError(t, tk.SetSID(fmt.Sprintf("tk_%d_%d", tenantID, n)))
	require.NoError(t, tk.SetNumber(fmt.Sprintf("TT-%05d", n)))
	require.NoError(t, repo.Create(t.Context(), tk))
	return tk
}
