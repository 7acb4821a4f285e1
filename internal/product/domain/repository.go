package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*Product, error)
	// AdjustStock moves current_stock by delta in one UPDATE, clamping the
	// result at zero inside the statement. Returns the resulting quantity
	// and whether the product existed.
	AdjustStock(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID, delta int64) (int64, bool, error)
}
