package fulfillment

import (
	"fmt"
	"sort"
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Package is a shippable container of picked quantities
type Package struct {
	ID                 uuid.UUID
	TenantID           uuid.UUID
	OrderID            uuid.UUID
	ShipmentID         *uuid.UUID
	PackageNumber      string
	Length             decimal.Decimal
	Width              decimal.Decimal
	Height             decimal.Decimal
	Weight             decimal.Decimal
	Barcode            string
	DeliveryLocationID *uuid.UUID
	Items              []PackageItem
	CreatedAt          time.Time
}

// PackageItem is a quantity of one order line inside a package
type PackageItem struct {
	ID          uuid.UUID
	PackageID   uuid.UUID
	OrderItemID uuid.UUID
	ProductID   uuid.UUID
	Quantity    decimal.Decimal
}

// PackageSpec describes a package to create
type PackageSpec struct {
	Length  decimal.Decimal
	Width   decimal.Decimal
	Height  decimal.Decimal
	Weight  decimal.Decimal
	Barcode string
	Items   []PackageItemSpec
}

// PackageItemSpec is one line of a PackageSpec
type PackageItemSpec struct {
	OrderItemID uuid.UUID
	Quantity    decimal.Decimal
}

// PackageNumber formats the deterministic package identifier
func PackageNumber(orderNumber string, seq int) string {
	return fmt.Sprintf("PKG-%s-%03d", orderNumber, seq)
}

// BuildPackages turns specs into packages numbered 1..n. The packed quantity
// of each product across all packages must not exceed its picked quantity.
func BuildPackages(order *SalesOrder, specs []PackageSpec) ([]*Package, error) {
	if len(specs) == 0 {
		return nil, shared.NewDomainError("INVALID_PACKAGES", "At least one package is required")
	}

	packed := make(map[uuid.UUID]decimal.Decimal)
	now := time.Now()
	packages := make([]*Package, 0, len(specs))
	for idx, spec := range specs {
		if len(spec.Items) == 0 {
			return nil, shared.NewDomainError("INVALID_PACKAGES", fmt.Sprintf("Package %d has no items", idx+1))
		}
		if spec.Weight.IsNegative() || spec.Length.IsNegative() || spec.Width.IsNegative() || spec.Height.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PACKAGES", "Package dimensions cannot be negative")
		}
		pkg := &Package{
			ID:            uuid.New(),
			TenantID:      order.TenantID,
			OrderID:       order.ID,
			PackageNumber: PackageNumber(order.OrderNumber, idx+1),
			Length:        spec.Length,
			Width:         spec.Width,
			Height:        spec.Height,
			Weight:        spec.Weight,
			Barcode:       spec.Barcode,
			Items:         make([]PackageItem, 0, len(spec.Items)),
			CreatedAt:     now,
		}
		for _, is := range spec.Items {
			item, err := order.Item(is.OrderItemID)
			if err != nil {
				return nil, err
			}
			if is.Quantity.LessThanOrEqual(decimal.Zero) {
				return nil, shared.NewDomainError("INVALID_QUANTITY", "Package item quantity must be positive")
			}
			packed[item.ProductID] = packed[item.ProductID].Add(is.Quantity)
			pkg.Items = append(pkg.Items, PackageItem{
				ID:          uuid.New(),
				PackageID:   pkg.ID,
				OrderItemID: item.ID,
				ProductID:   item.ProductID,
				Quantity:    is.Quantity,
			})
		}
		packages = append(packages, pkg)
	}

	picked := order.PickedByProduct()
	productIDs := make([]uuid.UUID, 0, len(packed))
	for id := range packed {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i].String() < productIDs[j].String() })
	for _, productID := range productIDs {
		if packed[productID].GreaterThan(picked[productID]) {
			return nil, &OverPackError{ProductID: productID, Picked: picked[productID], Packed: packed[productID]}
		}
	}
	return packages, nil
}

// ShippedQuantities sums package contents per order line
func ShippedQuantities(packages []*Package) map[uuid.UUID]decimal.Decimal {
	shipped := make(map[uuid.UUID]decimal.Decimal)
	for _, pkg := range packages {
		for _, item := range pkg.Items {
			shipped[item.OrderItemID] = shipped[item.OrderItemID].Add(item.Quantity)
		}
	}
	return shipped
}

// LocationAssignment maps a package to its delivery location
type LocationAssignment struct {
	PackageNumber string
	LocationID    uuid.UUID
}

// AssignLocations requires every package to appear exactly once in the
// assignments and sets each package's delivery location.
func AssignLocations(orderID uuid.UUID, packages []*Package, assignments []LocationAssignment) error {
	byNumber := make(map[string]*Package, len(packages))
	for _, pkg := range packages {
		byNumber[pkg.PackageNumber] = pkg
	}

	assigned := make(map[string]uuid.UUID, len(assignments))
	for _, a := range assignments {
		if _, ok := byNumber[a.PackageNumber]; !ok {
			return shared.NewDomainError("UNKNOWN_PACKAGE", fmt.Sprintf("Package %s does not belong to the order", a.PackageNumber))
		}
		if _, dup := assigned[a.PackageNumber]; dup {
			return shared.NewDomainError("DUPLICATE_LOCATION_ASSIGNMENT", fmt.Sprintf("Package %s is assigned more than once", a.PackageNumber))
		}
		if a.LocationID == uuid.Nil {
			continue
		}
		assigned[a.PackageNumber] = a.LocationID
	}

	var missing []string
	for _, pkg := range packages {
		if _, ok := assigned[pkg.PackageNumber]; !ok {
			missing = append(missing, pkg.PackageNumber)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingLocationAssignmentError{OrderID: orderID, PackageNumbers: missing}
	}

	for _, pkg := range packages {
		loc := assigned[pkg.PackageNumber]
		pkg.DeliveryLocationID = &loc
	}
	return nil
}
