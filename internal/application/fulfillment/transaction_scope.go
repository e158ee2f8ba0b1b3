package fulfillment

import (
	"context"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/inventory"
	"github.com/erp/fulfillment/internal/domain/procurement"
	"github.com/erp/fulfillment/internal/domain/shared"
)

// TransactionScope runs one unit of work. Every transition executes inside
// exactly one call to Execute.
type TransactionScope interface {
	// Execute runs fn in a database transaction, rolling back when fn fails
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to every repository a transition
// touches. All of them share the same underlying transaction, so reads made
// through them observe the transition's own writes.
type TransactionalRepositories interface {
	OrderRepo() fulfillment.SalesOrderRepository
	AllocationRepo() fulfillment.AllocationRepository
	PickRepo() fulfillment.PickRepository
	PackageRepo() fulfillment.PackageRepository
	ShipmentRepo() fulfillment.ShipmentRepository
	DeliveryRepo() fulfillment.DeliveryRepository
	DocumentRepo() fulfillment.DocumentRepository
	InventoryRepo() inventory.InventoryItemRepository
	WarehouseRepo() inventory.WarehouseRepository
	PurchaseOrderRepo() procurement.PurchaseOrderRepository
	OutboxRepo() shared.OutboxRepository
}
