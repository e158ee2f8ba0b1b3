package procurement

import (
	"fmt"

	"github.com/erp/fulfillment/internal/domain/inventory"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CostBasis selects where a return line's unit cost comes from
type CostBasis string

const (
	// CostBasisSalesUnitPrice uses the sales price as an approximation of cost
	CostBasisSalesUnitPrice CostBasis = "sales_unit_price"
	// CostBasisInventoryUnitCost uses the on-hand weighted unit cost of the
	// product in the return warehouse
	CostBasisInventoryUnitCost CostBasis = "inventory_unit_cost"
)

// ParseCostBasis parses a configured cost basis. Empty means the sales price.
func ParseCostBasis(s string) (CostBasis, error) {
	switch CostBasis(s) {
	case "":
		return CostBasisSalesUnitPrice, nil
	case CostBasisSalesUnitPrice, CostBasisInventoryUnitCost:
		return CostBasis(s), nil
	}
	return "", shared.NewDomainError("INVALID_COST_BASIS", fmt.Sprintf("Unknown return cost basis %q", s))
}

// UnitCost resolves a return line's unit cost. With the inventory basis the
// stock records' unit costs are weighted by on-hand quantity; when no record
// carries a cost the sales price is used.
func (b CostBasis) UnitCost(salesUnitPrice decimal.Decimal, stock []inventory.InventoryItem) decimal.Decimal {
	if b != CostBasisInventoryUnitCost {
		return salesUnitPrice
	}
	value, quantity := decimal.Zero, decimal.Zero
	for _, item := range stock {
		if !item.UnitCost.IsPositive() || !item.OnHandQuantity.IsPositive() {
			continue
		}
		value = value.Add(item.UnitCost.Mul(item.OnHandQuantity))
		quantity = quantity.Add(item.OnHandQuantity)
	}
	if quantity.IsZero() {
		return salesUnitPrice
	}
	return value.Div(quantity).Round(4)
}
