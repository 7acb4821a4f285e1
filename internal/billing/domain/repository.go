package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

// ListBillFilter narrows the bill listing. Zero values mean no filter.
type ListBillFilter struct {
	Type       BillType
	Method     PaymentMethod
	BillNumber *int64
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// Repository persists bills and their line items.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*Bill, error)
	List(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter ListBillFilter, page pagination.Pagination) ([]Bill, int64, error)
	Update(ctx context.Context, db *gorm.DB, bill *Bill) error
	Delete(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) error
}
