package telemetry_test

import (
	"context"
	"testing"

	"github.com/erp/fulfillment/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStatsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE sales_orders (id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL)`,
		`CREATE TABLE fulfillment_documents (id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL, document_type TEXT NOT NULL, status TEXT NOT NULL)`,
		`CREATE TABLE inventory_items (id TEXT PRIMARY KEY, tenant_id TEXT NOT NULL, warehouse_id TEXT NOT NULL, reserved_quantity NUMERIC NOT NULL)`,
		`CREATE TABLE outbox_entries (id TEXT PRIMARY KEY, status TEXT NOT NULL)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestGormStatsProvider(t *testing.T) {
	ctx := context.Background()
	db := newStatsDB(t)
	tenantA, tenantB := uuid.New(), uuid.New()
	warehouse := uuid.New()

	exec := func(sql string, args ...any) {
		require.NoError(t, db.Exec(sql, args...).Error)
	}
	exec(`INSERT INTO sales_orders VALUES (?, ?), (?, ?), (?, ?)`,
		uuid.NewString(), tenantA, uuid.NewString(), tenantA, uuid.NewString(), tenantB)
	exec(`INSERT INTO fulfillment_documents VALUES (?, ?, 'PACK', 'pending'), (?, ?, 'PACK', 'pending'), (?, ?, 'SHIP', 'stored'), (?, ?, 'DELIVERY', 'pending')`,
		uuid.NewString(), tenantA, uuid.NewString(), tenantA, uuid.NewString(), tenantA, uuid.NewString(), tenantB)
	exec(`INSERT INTO inventory_items VALUES (?, ?, ?, 12.5), (?, ?, ?, 7.5), (?, ?, ?, 0)`,
		uuid.NewString(), tenantA, warehouse, uuid.NewString(), tenantA, warehouse, uuid.NewString(), tenantA, uuid.New())
	exec(`INSERT INTO outbox_entries VALUES (?, 'PENDING'), (?, 'PENDING'), (?, 'SENT'), (?, 'DEAD')`,
		uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString())

	p := telemetry.NewGormStatsProvider(db)

	tenants, err := p.ActiveTenantIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{tenantA, tenantB}, tenants)

	pending, err := p.PendingDocumentsByType(ctx, tenantA)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"PACK": 2}, pending)

	reserved, err := p.ReservedQuantityByWarehouse(ctx, tenantA)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{warehouse: 20}, reserved)

	backlog, err := p.OutboxBacklog(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"PENDING": 2, "DEAD": 1}, backlog)
}
