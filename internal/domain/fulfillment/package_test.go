package fulfillment

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickedOrder(t *testing.T, quantity int64) *SalesOrder {
	t.Helper()
	order := newTestOrder(t, quantity)
	q := decimal.NewFromInt(quantity)
	require.NoError(t, order.Items[0].Allocate(q))
	require.NoError(t, order.Items[0].Pick(q))
	return order
}

func TestPackageNumber(t *testing.T) {
	assert.Equal(t, "PKG-SO-1001-001", PackageNumber("SO-1001", 1))
	assert.Equal(t, "PKG-SO-1001-012", PackageNumber("SO-1001", 12))
}

func TestBuildPackages(t *testing.T) {
	t.Run("numbers packages deterministically", func(t *testing.T) {
		order := pickedOrder(t, 10)
		itemID := order.Items[0].ID
		specs := []PackageSpec{
			{Weight: decimal.NewFromInt(2), Items: []PackageItemSpec{{OrderItemID: itemID, Quantity: decimal.NewFromInt(6)}}},
			{Weight: decimal.NewFromInt(1), Items: []PackageItemSpec{{OrderItemID: itemID, Quantity: decimal.NewFromInt(4)}}},
		}

		first, err := BuildPackages(order, specs)
		require.NoError(t, err)
		second, err := BuildPackages(order, specs)
		require.NoError(t, err)

		require.Len(t, first, 2)
		assert.Equal(t, "PKG-SO-1001-001", first[0].PackageNumber)
		assert.Equal(t, "PKG-SO-1001-002", first[1].PackageNumber)
		assert.Equal(t, first[0].PackageNumber, second[0].PackageNumber)
		assert.Equal(t, order.Items[0].ProductID, first[0].Items[0].ProductID)
	})

	t.Run("rejects more than picked", func(t *testing.T) {
		order := pickedOrder(t, 5)
		specs := []PackageSpec{{Items: []PackageItemSpec{{OrderItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(6)}}}}

		_, err := BuildPackages(order, specs)

		var overPack *OverPackError
		require.True(t, errors.As(err, &overPack))
		assert.True(t, overPack.Picked.Equal(decimal.NewFromInt(5)))
	})

	t.Run("rejects unknown order item", func(t *testing.T) {
		order := pickedOrder(t, 5)
		specs := []PackageSpec{{Items: []PackageItemSpec{{OrderItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}}}}

		_, err := BuildPackages(order, specs)
		assert.Error(t, err)
	})

	t.Run("rejects empty list", func(t *testing.T) {
		_, err := BuildPackages(pickedOrder(t, 5), nil)
		assert.Error(t, err)
	})
}

func TestAssignLocations(t *testing.T) {
	order := pickedOrder(t, 10)
	itemID := order.Items[0].ID
	build := func() []*Package {
		pkgs, err := BuildPackages(order, []PackageSpec{
			{Items: []PackageItemSpec{{OrderItemID: itemID, Quantity: decimal.NewFromInt(5)}}},
			{Items: []PackageItemSpec{{OrderItemID: itemID, Quantity: decimal.NewFromInt(5)}}},
		})
		require.NoError(t, err)
		return pkgs
	}

	t.Run("names the unassigned package", func(t *testing.T) {
		pkgs := build()

		err := AssignLocations(order.ID, pkgs, []LocationAssignment{
			{PackageNumber: pkgs[0].PackageNumber, LocationID: uuid.New()},
		})

		var missing *MissingLocationAssignmentError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, []string{"PKG-SO-1001-002"}, missing.PackageNumbers)
		assert.Nil(t, pkgs[0].DeliveryLocationID, "nothing assigned on failure")
	})

	t.Run("rejects duplicate assignment", func(t *testing.T) {
		pkgs := build()
		loc := uuid.New()

		err := AssignLocations(order.ID, pkgs, []LocationAssignment{
			{PackageNumber: pkgs[0].PackageNumber, LocationID: loc},
			{PackageNumber: pkgs[0].PackageNumber, LocationID: loc},
			{PackageNumber: pkgs[1].PackageNumber, LocationID: loc},
		})
		assert.Error(t, err)
	})

	t.Run("assigns every package", func(t *testing.T) {
		pkgs := build()
		loc1, loc2 := uuid.New(), uuid.New()

		err := AssignLocations(order.ID, pkgs, []LocationAssignment{
			{PackageNumber: pkgs[1].PackageNumber, LocationID: loc2},
			{PackageNumber: pkgs[0].PackageNumber, LocationID: loc1},
		})

		require.NoError(t, err)
		assert.Equal(t, loc1, *pkgs[0].DeliveryLocationID)
		assert.Equal(t, loc2, *pkgs[1].DeliveryLocationID)
	})
}
