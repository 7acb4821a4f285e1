package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

// ListEntryFilter narrows the ledger listing. Zero values mean no filter.
type ListEntryFilter struct {
	PartyID   snowflake.ID
	Direction Direction
	StartDate *time.Time
	EndDate   *time.Time
}

// Repository persists ledger entries.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *Entry) error
	FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*Entry, error)
	List(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter ListEntryFilter, page pagination.Pagination) ([]Entry, int64, error)
	Delete(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) error
}
