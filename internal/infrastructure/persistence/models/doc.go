// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no GORM tags; each model converts to and from its
// domain type with ToDomain/FromDomain.
//
// Files:
//   - base.go: shared columns (BaseModel, TenantAggregateModel)
//   - fulfillment.go: sales orders, allocations, picks, packages, shipments,
//     deliveries and fulfillment documents
//   - inventory.go: inventory items and warehouses
//   - procurement.go: return purchase orders
//   - docnumber.go: document sequences and number history
//   - audit.go: audit log
//   - workflow.go: workflow definitions
//   - outbox.go: transactional outbox entries
package models
