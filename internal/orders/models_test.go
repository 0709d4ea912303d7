package orders

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOrdinalsAndLabels(t *testing.T) {
	// The ordinal encoding is persisted; this order must never change.
	want := []struct {
		status Status
		label  string
	}{
		{StatusCart, "cart"},
		{StatusPendingPayment, "pending_payment"},
		{StatusPaid, "paid"},
		{StatusProcessing, "processing"},
		{StatusShipped, "shipped"},
		{StatusDelivered, "delivered"},
		{StatusCancelled, "cancelled"},
		{StatusRefunded, "refunded"},
	}
	for i, tc := range want {
		assert.Equal(t, i, int(tc.status))
		assert.Equal(t, tc.label, tc.status.String())
		assert.True(t, tc.status.Valid())

		parsed, err := ParseStatus(tc.label)
		require.NoError(t, err)
		assert.Equal(t, tc.status, parsed)
	}

	_, err := ParseStatus("bogus")
	assert.Error(t, err)
	assert.False(t, Status(8).Valid())
}

func TestStatusCanCancel(t *testing.T) {
	cancellable := map[Status]bool{
		StatusCart:           false,
		StatusPendingPayment: true,
		StatusPaid:           true,
		StatusProcessing:     true,
		StatusShipped:        false,
		StatusDelivered:      false,
		StatusCancelled:      false,
		StatusRefunded:       false,
	}
	for status, want := range cancellable {
		assert.Equal(t, want, status.CanCancel(), "status %s", status)
	}
}

func TestStatusJSON(t *testing.T) {
	encoded, err := json.Marshal(StatusPendingPayment)
	require.NoError(t, err)
	assert.Equal(t, `"pending_payment"`, string(encoded))

	var decoded Status
	require.NoError(t, json.Unmarshal([]byte(`"shipped"`), &decoded))
	assert.Equal(t, StatusShipped, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &decoded))
}

func TestOrderTotalItems(t *testing.T) {
	order := Order{Items: []Item{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, 5, order.TotalItems())
	assert.Equal(t, 0, Order{}.TotalItems())
}

func TestOrderDerivedDisplayValues(t *testing.T) {
	order := Order{
		SubtotalCents: 10000,
		DiscountCents: 1000,
		ShippingCents: 999,
		TaxCents:      800,
		TotalCents:    10799,
	}
	assert.InDelta(t, 100.00, order.Subtotal(), 0.0001)
	assert.InDelta(t, 10.00, order.Discount(), 0.0001)
	assert.InDelta(t, 9.99, order.Shipping(), 0.0001)
	assert.InDelta(t, 8.00, order.Tax(), 0.0001)
	assert.InDelta(t, 107.99, order.Total(), 0.0001)
}

func TestOrderCanCancelDelegatesToStatus(t *testing.T) {
	assert.True(t, Order{Status: StatusProcessing}.CanCancel())
	assert.False(t, Order{Status: StatusShipped}.CanCancel())
}
