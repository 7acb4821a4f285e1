package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	bill := Bill{
		Items: []BillItem{
			{Quantity: 2, UnitPrice: 100.25},
			{Quantity: 1, UnitPrice: 49.50},
		},
	}
	assert.Equal(t, 250.0, bill.Subtotal())
	assert.Equal(t, 250.0, bill.ComputeTotal())

	bill.Charges = append(bill.Charges, Charge{Name: "Delivery", Amount: 50})
	assert.Equal(t, 300.0, bill.ComputeTotal())

	// Percentage discounts apply to the item subtotal, not the charged total.
	bill.Discounts = append(bill.Discounts, Discount{Type: DiscountTypePercentage, Value: 10})
	assert.Equal(t, 275.0, bill.ComputeTotal())

	bill.Discounts = append(bill.Discounts, Discount{Type: DiscountTypeAmount, Value: 25})
	assert.Equal(t, 250.0, bill.ComputeTotal())
}

func TestComputeTotalEmptyBill(t *testing.T) {
	var bill Bill
	assert.Equal(t, 0.0, bill.ComputeTotal())
}

func TestBillTypeValid(t *testing.T) {
	assert.True(t, BillTypeSale.Valid())
	assert.True(t, BillTypePurchase.Valid())
	assert.False(t, BillType("estimate").Valid())
	assert.False(t, BillType("").Valid())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentMethodUnpaid.Valid())
	assert.True(t, PaymentMethodCash.Valid())
	assert.True(t, PaymentMethodOnline.Valid())
	assert.False(t, PaymentMethod("credit").Valid())
}
