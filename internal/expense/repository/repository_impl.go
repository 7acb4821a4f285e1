// Package repository provides the gorm-backed expense and budget store.
package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smallbiznis/bizbook/internal/expense/domain"
	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertExpense(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Create(expense).Error
}

func (r *repo) FindExpenseByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*domain.Expense, error) {
	var expense domain.Expense
	err := db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func (r *repo) ListExpenses(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter domain.ListExpenseFilter, page pagination.Pagination) ([]domain.Expense, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("business_id = ?", businessID)

	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.StartDate != nil {
		stmt = stmt.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		stmt = stmt.Where("date <= ?", *filter.EndDate)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []domain.Expense
	err := page.Apply(stmt).
		Order("date DESC, id DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *repo) DeleteExpense(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&domain.Expense{}).Error
}

func (r *repo) UpsertBudget(ctx context.Context, db *gorm.DB, budget *domain.Budget) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "business_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"monthly_limit", "updated_at"}),
		}).
		Create(budget).Error
}

func (r *repo) FindBudget(ctx context.Context, db *gorm.DB, businessID snowflake.ID, category string) (*domain.Budget, error) {
	var budget domain.Budget
	err := db.WithContext(ctx).
		Where("business_id = ? AND category = ?", businessID, category).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &budget, nil
}
