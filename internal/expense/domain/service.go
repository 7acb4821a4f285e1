package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

// CreateExpenseRequest records a spend.
type CreateExpenseRequest struct {
	Category string     `json:"category"`
	Amount   float64    `json:"amount"`
	Date     *time.Time `json:"date,omitempty"`
	Note     string     `json:"note,omitempty"`
}

// ListExpenseRequest filters the expense listing. Date bounds are inclusive.
type ListExpenseRequest struct {
	pagination.Pagination
	Category  string     `form:"category"`
	StartDate *time.Time `form:"-"`
	EndDate   *time.Time `form:"-"`
}

// ListExpenseResponse is a page of expenses, newest first.
type ListExpenseResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
}

// SetBudgetRequest creates or replaces the monthly limit for a category.
type SetBudgetRequest struct {
	Category     string  `json:"-"`
	MonthlyLimit float64 `json:"monthly_limit"`
}

// Service manages expenses and category budgets.
type Service interface {
	CreateExpense(ctx context.Context, req CreateExpenseRequest) (Expense, error)
	ListExpenses(ctx context.Context, req ListExpenseRequest) (ListExpenseResponse, error)
	DeleteExpense(ctx context.Context, id string) error
	SetBudget(ctx context.Context, req SetBudgetRequest) (Budget, error)
	GetBudget(ctx context.Context, category string) (Budget, error)
}

var (
	ErrInvalidBusiness = errors.New("invalid_business")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidID       = errors.New("invalid_expense_id")
	ErrNotFound        = errors.New("not_found")
)
