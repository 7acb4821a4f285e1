package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

// CreateEntryRequest records cash in or out.
type CreateEntryRequest struct {
	Direction string     `json:"direction"`
	Amount    float64    `json:"amount"`
	Method    string     `json:"method"`
	Date      *time.Time `json:"date,omitempty"`
	Note      string     `json:"note,omitempty"`
}

// ListEntryRequest filters the cashbook listing. Date bounds are inclusive.
type ListEntryRequest struct {
	pagination.Pagination
	Direction string     `form:"direction"`
	Method    string     `form:"method"`
	StartDate *time.Time `form:"-"`
	EndDate   *time.Time `form:"-"`
}

// Summary totals the filtered entry set, not just the page.
type Summary struct {
	TotalIn    float64 `json:"total_in"`
	TotalOut   float64 `json:"total_out"`
	NetBalance float64 `json:"net_balance"`
}

// ListEntryResponse is a page of cash entries plus the filtered summary.
type ListEntryResponse struct {
	pagination.PageInfo
	Summary Summary     `json:"summary"`
	Entries []CashEntry `json:"entries"`
}

// Service manages the cashbook.
type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (CashEntry, error)
	List(ctx context.Context, req ListEntryRequest) (ListEntryResponse, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidBusiness  = errors.New("invalid_business")
	ErrInvalidDirection = errors.New("invalid_direction")
	ErrInvalidMethod    = errors.New("invalid_method")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidID        = errors.New("invalid_entry_id")
	ErrNotFound         = errors.New("entry_not_found")
)
