// Package domain contains persistence models for bills.
package domain

import (
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BillType distinguishes sale bills from purchase bills. Each type keeps
// its own numbering sequence per business.
type BillType string

const (
	BillTypeSale     BillType = "sale"
	BillTypePurchase BillType = "purchase"
)

// Valid reports whether the type is one of the supported bill types.
func (t BillType) Valid() bool {
	return t == BillTypeSale || t == BillTypePurchase
}

// PaymentMethod represents how a bill was settled.
type PaymentMethod string

const (
	PaymentMethodUnpaid PaymentMethod = "unpaid"
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

// Valid reports whether the payment method is supported.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodUnpaid || m == PaymentMethodCash || m == PaymentMethodOnline
}

// DiscountType distinguishes percentage discounts from flat amounts.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeAmount     DiscountType = "amount"
)

// Charge is an additional named charge applied on top of the item subtotal.
type Charge struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Discount reduces the bill total, either by a percentage of the item
// subtotal or by a flat amount.
type Discount struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// Bill represents a sale or purchase bill issued by a business.
type Bill struct {
	ID           snowflake.ID                  `gorm:"primaryKey" json:"id"`
	BusinessID   snowflake.ID                  `gorm:"not null;index;uniqueIndex:ux_bill_number,priority:1" json:"business_id"`
	Type         BillType                      `gorm:"type:text;not null;uniqueIndex:ux_bill_number,priority:2" json:"type"`
	BillNumber   int64                         `gorm:"not null;uniqueIndex:ux_bill_number,priority:3" json:"bill_number"`
	Date         time.Time                     `gorm:"not null;index" json:"date"`
	PartyID      snowflake.ID                  `gorm:"not null;index" json:"party_id"`
	PartyName    string                        `gorm:"type:text;not null" json:"party_name"`
	PartyPhone   string                        `gorm:"type:text;not null" json:"party_phone"`
	Charges      datatypes.JSONSlice[Charge]   `json:"charges"`
	Discounts    datatypes.JSONSlice[Discount] `json:"discounts"`
	CustomFields datatypes.JSONMap             `gorm:"not null;default:'{}'" json:"custom_fields"`
	Addresses    datatypes.JSONMap             `gorm:"not null;default:'{}'" json:"addresses"`
	Terms        string                        `gorm:"type:text" json:"terms"`
	Note         string                        `gorm:"type:text" json:"note"`
	Photos       datatypes.JSONSlice[string]   `json:"photos"`
	Method       PaymentMethod                 `gorm:"type:text;not null;default:'unpaid'" json:"method"`
	DueDate      *time.Time                    `json:"due_date,omitempty"`
	BalanceDue   *float64                      `json:"balance_due,omitempty"`
	TotalAmount  *float64                      `json:"total_amount,omitempty"`
	Items        []BillItem                    `gorm:"foreignKey:BillID" json:"items"`
	CreatedAt    time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }

// BillItem represents a product line on a bill.
type BillItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	BusinessID  snowflake.ID `gorm:"not null;index" json:"business_id"`
	BillID      snowflake.ID `gorm:"not null;index" json:"bill_id"`
	ProductID   snowflake.ID `gorm:"not null;index" json:"product_id"`
	ProductName string       `gorm:"type:text;not null" json:"product_name"`
	Quantity    int64        `gorm:"not null" json:"quantity"`
	UnitPrice   float64      `gorm:"not null" json:"unit_price"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (BillItem) TableName() string { return "bill_items" }

// Subtotal sums quantity times unit price across all line items.
func (b *Bill) Subtotal() float64 {
	var sum float64
	for _, it := range b.Items {
		sum += float64(it.Quantity) * it.UnitPrice
	}
	return round2(sum)
}

// ComputeTotal derives the bill total from line items, charges and
// discounts. Percentage discounts apply to the item subtotal.
func (b *Bill) ComputeTotal() float64 {
	subtotal := b.Subtotal()
	total := subtotal
	for _, c := range b.Charges {
		total += c.Amount
	}
	for _, d := range b.Discounts {
		switch d.Type {
		case DiscountTypePercentage:
			total -= subtotal * d.Value / 100
		case DiscountTypeAmount:
			total -= d.Value
		}
	}
	return round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
