// Package domain contains persistence models for the party ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Direction records which way money moved with a party. "gave" means the
// business gave money or goods on credit (receivable goes up), "got"
// means the business got paid (receivable goes down).
type Direction string

const (
	DirectionGave Direction = "gave"
	DirectionGot  Direction = "got"
)

// Valid reports whether the direction is supported.
func (d Direction) Valid() bool {
	return d == DirectionGave || d == DirectionGot
}

// Entry is a single party-ledger line.
type Entry struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	BusinessID snowflake.ID `gorm:"not null;index" json:"business_id"`
	PartyID    snowflake.ID `gorm:"not null;index" json:"party_id"`
	Direction  Direction    `gorm:"type:text;not null" json:"direction"`
	Amount     float64      `gorm:"not null" json:"amount"`
	Date       time.Time    `gorm:"not null;index" json:"date"`
	Note       string       `gorm:"type:text" json:"note"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "ledger_entries" }

// BalanceDelta is the signed effect of the entry on the party's
// receivable balance.
func (e *Entry) BalanceDelta() float64 {
	if e.Direction == DirectionGave {
		return e.Amount
	}
	return -e.Amount
}
