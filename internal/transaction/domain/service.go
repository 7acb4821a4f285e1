package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

// CreateEntryRequest records a ledger line against a party.
type CreateEntryRequest struct {
	PartyID   string     `json:"party_id"`
	Direction string     `json:"direction"`
	Amount    float64    `json:"amount"`
	Date      *time.Time `json:"date,omitempty"`
	Note      string     `json:"note,omitempty"`
}

// ListEntryRequest filters the ledger listing. Date bounds are inclusive.
type ListEntryRequest struct {
	pagination.Pagination
	PartyID   string     `form:"party_id"`
	Direction string     `form:"direction"`
	StartDate *time.Time `form:"-"`
	EndDate   *time.Time `form:"-"`
}

// ListEntryResponse is a page of ledger entries, newest first.
type ListEntryResponse struct {
	pagination.PageInfo
	Entries []Entry `json:"entries"`
}

// Service manages the party ledger. Every create and delete keeps the
// party's running balance in step with the entry set.
type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (Entry, error)
	List(ctx context.Context, req ListEntryRequest) (ListEntryResponse, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidBusiness  = errors.New("invalid_business")
	ErrInvalidParty     = errors.New("invalid_party")
	ErrInvalidDirection = errors.New("invalid_direction")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidID        = errors.New("invalid_entry_id")
	ErrNotFound         = errors.New("entry_not_found")
)
