// Package domain contains persistence models for the cashbook.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Direction records whether cash came in or went out.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Valid reports whether the direction is supported.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Method is how the cash moved.
type Method string

const (
	MethodCash   Method = "cash"
	MethodOnline Method = "online"
)

// Valid reports whether the method is supported.
func (m Method) Valid() bool {
	return m == MethodCash || m == MethodOnline
}

// CashEntry is a single cashbook line.
type CashEntry struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	BusinessID snowflake.ID `gorm:"not null;index" json:"business_id"`
	Direction  Direction    `gorm:"type:text;not null" json:"direction"`
	Amount     float64      `gorm:"not null" json:"amount"`
	Method     Method       `gorm:"type:text;not null" json:"method"`
	Date       time.Time    `gorm:"not null;index" json:"date"`
	Note       string       `gorm:"type:text" json:"note"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CashEntry) TableName() string { return "cash_entries" }
