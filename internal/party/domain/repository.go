package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, party *Party) error
	FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*Party, error)
	// AdjustBalance applies delta to the party's running balance in a single
	// UPDATE and reports whether the party existed.
	AdjustBalance(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID, delta float64) (bool, error)
}
