package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

// ListExpenseFilter narrows the expense listing. Zero values mean no filter.
type ListExpenseFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// Repository persists expenses and budgets.
type Repository interface {
	InsertExpense(ctx context.Context, db *gorm.DB, expense *Expense) error
	FindExpenseByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*Expense, error)
	ListExpenses(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter ListExpenseFilter, page pagination.Pagination) ([]Expense, int64, error)
	DeleteExpense(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) error
	// UpsertBudget inserts or replaces the (business, category) row.
	UpsertBudget(ctx context.Context, db *gorm.DB, budget *Budget) error
	FindBudget(ctx context.Context, db *gorm.DB, businessID snowflake.ID, category string) (*Budget, error)
}
