package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

// PartyRef identifies the counterparty on a bill. The name and phone are
// snapshotted onto the bill so later party edits do not rewrite history.
type PartyRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// LineItemInput is a product line on an incoming bill payload.
type LineItemInput struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ChargeInput is an additional charge on an incoming bill payload.
// Entries missing a name or amount are dropped during sanitation.
type ChargeInput struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount"`
}

// DiscountInput is a discount on an incoming bill payload. Entries
// missing a type or value are dropped during sanitation.
type DiscountInput struct {
	Type  string   `json:"type"`
	Value *float64 `json:"value"`
}

// CreateBillRequest carries everything needed to issue a new bill.
// The bill number is never client supplied.
type CreateBillRequest struct {
	Type         string          `json:"type"`
	Date         *time.Time      `json:"date,omitempty"`
	Party        PartyRef        `json:"party"`
	Items        []LineItemInput `json:"items"`
	Charges      []ChargeInput   `json:"charges,omitempty"`
	Discounts    []DiscountInput `json:"discounts,omitempty"`
	CustomFields map[string]any  `json:"custom_fields,omitempty"`
	Addresses    map[string]any  `json:"addresses,omitempty"`
	Terms        string          `json:"terms,omitempty"`
	Note         string          `json:"note,omitempty"`
	Photos       []string        `json:"photos,omitempty"`
	Method       string          `json:"method,omitempty"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	BalanceDue   *float64        `json:"balance_due,omitempty"`
	TotalAmount  *float64        `json:"total_amount,omitempty"`
}

// UpdateBillRequest patches an existing bill. Nil fields are left
// untouched. BusinessID, Type and BillNumber may be echoed back by
// clients but must match the stored bill.
type UpdateBillRequest struct {
	ID           string           `json:"-"`
	BusinessID   *string          `json:"business_id,omitempty"`
	Type         *string          `json:"type,omitempty"`
	BillNumber   *int64           `json:"bill_number,omitempty"`
	Date         *time.Time       `json:"date,omitempty"`
	Party        *PartyRef        `json:"party,omitempty"`
	Items        *[]LineItemInput `json:"items,omitempty"`
	Charges      *[]ChargeInput   `json:"charges,omitempty"`
	Discounts    *[]DiscountInput `json:"discounts,omitempty"`
	CustomFields map[string]any   `json:"custom_fields,omitempty"`
	Addresses    map[string]any   `json:"addresses,omitempty"`
	Terms        *string          `json:"terms,omitempty"`
	Note         *string          `json:"note,omitempty"`
	Photos       *[]string        `json:"photos,omitempty"`
	Method       *string          `json:"method,omitempty"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	BalanceDue   *float64         `json:"balance_due,omitempty"`
	TotalAmount  *float64         `json:"total_amount,omitempty"`
}

// ListBillRequest filters and paginates the bill listing. Search matches
// party name or phone as a case-insensitive substring. Date bounds are
// inclusive.
type ListBillRequest struct {
	pagination.Pagination
	Type       string     `form:"type"`
	Method     string     `form:"method"`
	BillNumber *int64     `form:"bill_number"`
	Search     string     `form:"search"`
	StartDate  *time.Time `form:"-"`
	EndDate    *time.Time `form:"-"`
}

// ListBillResponse is a page of bills ordered by date then bill number,
// both descending.
type ListBillResponse struct {
	pagination.PageInfo
	Bills []Bill `json:"bills"`
}

// NextNumberResponse reports the bill number the next created bill of a
// type would receive. Peeking never consumes the number.
type NextNumberResponse struct {
	Type       BillType `json:"type"`
	BillNumber int64    `json:"bill_number"`
}

// Service manages the bill lifecycle, including numbering and the stock
// side effects of issuing, amending and voiding bills.
type Service interface {
	Create(ctx context.Context, req CreateBillRequest) (Bill, error)
	GetByID(ctx context.Context, id string) (Bill, error)
	List(ctx context.Context, req ListBillRequest) (ListBillResponse, error)
	Update(ctx context.Context, req UpdateBillRequest) (Bill, error)
	Delete(ctx context.Context, id string) error
	PeekNextNumber(ctx context.Context, billType string) (NextNumberResponse, error)
}

var (
	ErrInvalidBusiness = errors.New("invalid_business")
	ErrInvalidType     = errors.New("invalid_bill_type")
	ErrInvalidID       = errors.New("invalid_bill_id")
	ErrInvalidParty    = errors.New("invalid_party")
	ErrEmptyItems      = errors.New("empty_items")
	ErrInvalidItem     = errors.New("invalid_item")
	ErrInvalidMethod   = errors.New("invalid_payment_method")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrImmutableField  = errors.New("immutable_field")
	ErrNotFound        = errors.New("bill_not_found")
)
