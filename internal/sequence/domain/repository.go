package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// IncrementAndGet bumps the (business, kind) counter by one in a single
	// upsert and returns the new value. Two concurrent callers never see
	// the same number.
	IncrementAndGet(ctx context.Context, db *gorm.DB, businessID snowflake.ID, kind Kind) (int64, error)
	// Find returns the counter row, or nil when the pair has never been
	// incremented.
	Find(ctx context.Context, db *gorm.DB, businessID snowflake.ID, kind Kind) (*BillCounter, error)
}
