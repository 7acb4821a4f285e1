// Package domain contains persistence models for parties (customers and suppliers).
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PartyType distinguishes customers from suppliers.
type PartyType string

const (
	PartyTypeCustomer PartyType = "customer"
	PartyTypeSupplier PartyType = "supplier"
)

// Party is a counterparty a bill or ledger entry references. Balance is the
// running receivable: positive means the party owes the business.
type Party struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	BusinessID snowflake.ID `gorm:"not null;index" json:"business_id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Phone      string       `gorm:"type:text;not null;index" json:"phone"`
	Type       PartyType    `gorm:"type:text;not null;default:'customer'" json:"type"`
	Balance    float64      `gorm:"not null;default:0" json:"balance"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Party) TableName() string { return "parties" }

var (
	ErrInvalidBusiness = errors.New("invalid_business")
	ErrInvalidParty    = errors.New("invalid_party")
	ErrNotFound        = errors.New("not_found")
)
