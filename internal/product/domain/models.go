// Package domain contains persistence models for products and their stock.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Product is an inventory item. OpeningStock records the quantity at
// creation and never changes afterwards; CurrentStock is the running
// on-hand quantity and is only ever moved through stock deltas.
type Product struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	BusinessID    snowflake.ID      `gorm:"not null;index" json:"business_id"`
	Name          string            `gorm:"type:text;not null" json:"name"`
	Unit          string            `gorm:"type:text" json:"unit,omitempty"`
	SalePrice     float64           `gorm:"not null;default:0" json:"sale_price"`
	PurchasePrice float64           `gorm:"not null;default:0" json:"purchase_price"`
	TaxIncluded   bool              `gorm:"not null;default:false" json:"tax_included"`
	OpeningStock  int64             `gorm:"not null;default:0" json:"opening_stock"`
	CurrentStock  int64             `gorm:"not null;default:0" json:"current_stock"`
	LowStockAlert int64             `gorm:"not null;default:0" json:"low_stock_alert"`
	Codes         datatypes.JSONMap `gorm:"type:jsonb" json:"codes,omitempty"`
	Note          string            `gorm:"type:text" json:"note,omitempty"`
	ImageRef      string            `gorm:"type:text" json:"image_ref,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
