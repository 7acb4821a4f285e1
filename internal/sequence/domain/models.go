// Package domain contains the per-business bill number counters.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind scopes a counter to one bill type within a business.
type Kind string

const (
	KindSale     Kind = "sale"
	KindPurchase Kind = "purchase"
)

// Valid reports whether k is a recognized bill type.
func (k Kind) Valid() bool {
	return k == KindSale || k == KindPurchase
}

// BillCounter holds the last assigned bill number for a (business, kind)
// pair. Value only ever grows; numbers are never reused after a bill is
// deleted.
type BillCounter struct {
	BusinessID snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"business_id"`
	Kind       Kind         `gorm:"primaryKey;type:text" json:"kind"`
	Value      int64        `gorm:"not null;default:0" json:"value"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BillCounter) TableName() string { return "bill_counters" }

var (
	ErrInvalidBusiness = errors.New("invalid_business")
	ErrInvalidKind     = errors.New("invalid_kind")
)
