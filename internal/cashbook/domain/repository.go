package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

// ListEntryFilter narrows the cashbook listing. Zero values mean no filter.
type ListEntryFilter struct {
	Direction Direction
	Method    Method
	StartDate *time.Time
	EndDate   *time.Time
}

// Repository persists cash entries.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *CashEntry) error
	FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*CashEntry, error)
	List(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter ListEntryFilter, page pagination.Pagination) ([]CashEntry, int64, error)
	// Summarize totals the in and out amounts of the filtered set.
	Summarize(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter ListEntryFilter) (Summary, error)
	Delete(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) error
}
