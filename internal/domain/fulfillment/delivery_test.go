package fulfillment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shippedFixture(t *testing.T, quantity int64) (*SalesOrder, *Shipment, []*Package) {
	t.Helper()
	order := pickedOrder(t, quantity)
	pkgs, err := BuildPackages(order, []PackageSpec{
		{Items: []PackageItemSpec{{OrderItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(quantity)}}},
	})
	require.NoError(t, err)
	shipment, err := NewShipment(order, "SHIP-202610-00001", ShipmentDetails{Carrier: "DHL"}, time.Now())
	require.NoError(t, err)
	return order, shipment, pkgs
}

func TestNewFullDelivery(t *testing.T) {
	order, shipment, pkgs := shippedFixture(t, 5)

	d, err := NewFullDelivery(order, shipment, pkgs, DeliveryRecipient{Name: "Jo Recipient"})

	require.NoError(t, err)
	assert.Equal(t, DeliveryStatusComplete, d.Status)
	require.Len(t, d.Items, 1)
	assert.True(t, d.Items[0].AcceptedQuantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, d.Items[0].RejectedQuantity.IsZero())
	assert.True(t, d.TotalRejected().IsZero())
	assert.Empty(t, d.RejectedItems())
}

func TestNewPartialDelivery(t *testing.T) {
	t.Run("splits accepted and rejected", func(t *testing.T) {
		order, shipment, pkgs := shippedFixture(t, 10)

		d, err := NewPartialDelivery(order, shipment, pkgs, DeliveryRecipient{Name: "Jo"}, []DeliverySplit{
			{OrderItemID: order.Items[0].ID, Accepted: decimal.NewFromInt(7), Rejected: decimal.NewFromInt(3), Notes: "damaged"},
		})

		require.NoError(t, err)
		assert.Equal(t, DeliveryStatusPartial, d.Status)
		assert.True(t, d.TotalRejected().Equal(decimal.NewFromInt(3)))
		for _, item := range d.Items {
			assert.True(t, item.AcceptedQuantity.Add(item.RejectedQuantity).Equal(item.ShippedQuantity))
		}
		require.Len(t, d.RejectedItems(), 1)
		assert.Equal(t, "damaged", d.RejectedItems()[0].RejectionNotes)
	})

	t.Run("split must add up to shipped", func(t *testing.T) {
		order, shipment, pkgs := shippedFixture(t, 10)

		_, err := NewPartialDelivery(order, shipment, pkgs, DeliveryRecipient{Name: "Jo"}, []DeliverySplit{
			{OrderItemID: order.Items[0].ID, Accepted: decimal.NewFromInt(7), Rejected: decimal.NewFromInt(2)},
		})
		assert.Error(t, err)
	})

	t.Run("every shipped line needs a split", func(t *testing.T) {
		order, shipment, pkgs := shippedFixture(t, 10)

		_, err := NewPartialDelivery(order, shipment, pkgs, DeliveryRecipient{Name: "Jo"}, nil)
		assert.Error(t, err)
	})

	t.Run("unshipped lines are reported in request order", func(t *testing.T) {
		order, shipment, pkgs := shippedFixture(t, 10)
		first, second := uuid.New(), uuid.New()

		for i := 0; i < 20; i++ {
			_, err := NewPartialDelivery(order, shipment, pkgs, DeliveryRecipient{Name: "Jo"}, []DeliverySplit{
				{OrderItemID: first, Accepted: decimal.NewFromInt(1), Rejected: decimal.Zero},
				{OrderItemID: order.Items[0].ID, Accepted: decimal.NewFromInt(10), Rejected: decimal.Zero},
				{OrderItemID: second, Accepted: decimal.NewFromInt(1), Rejected: decimal.Zero},
			})
			require.Error(t, err)
			assert.Equal(t, "Order item "+first.String()+" was not shipped", err.Error())
		}
	})

	t.Run("recipient is required", func(t *testing.T) {
		order, shipment, pkgs := shippedFixture(t, 10)

		_, err := NewFullDelivery(order, shipment, pkgs, DeliveryRecipient{})
		assert.Error(t, err)
	})
}

func TestPartialDeliveryRejectedEvent(t *testing.T) {
	order, shipment, pkgs := shippedFixture(t, 10)
	d, err := NewPartialDelivery(order, shipment, pkgs, DeliveryRecipient{Name: "Jo"}, []DeliverySplit{
		{OrderItemID: order.Items[0].ID, Accepted: decimal.NewFromInt(6), Rejected: decimal.NewFromInt(4)},
	})
	require.NoError(t, err)
	returnID := uuid.New()

	evt := NewPartialDeliveryRejectedEvent(order, d, returnID)

	assert.True(t, evt.RequiresHandler())
	assert.Equal(t, returnID, evt.ReturnOrderID)
	assert.Equal(t, order.TenantID, evt.TenantID())
	require.Len(t, evt.Items, 1)
	assert.True(t, evt.Items[0].UnitPrice.Equal(decimal.NewFromInt(12)))
	assert.True(t, evt.TotalQuantity().Equal(decimal.NewFromInt(4)))
}

func TestShipment_MarkDelivered(t *testing.T) {
	_, shipment, _ := shippedFixture(t, 1)

	require.NoError(t, shipment.MarkDelivered(time.Now()))
	assert.Equal(t, ShipmentStatusDelivered, shipment.Status)
	assert.Error(t, shipment.MarkDelivered(time.Now()))
}
