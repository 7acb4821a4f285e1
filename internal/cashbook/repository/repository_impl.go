// Package repository provides the gorm-backed cashbook store.
package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/internal/cashbook/domain"
	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.CashEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*domain.CashEntry, error) {
	var entry domain.CashEntry
	err := db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func filtered(db *gorm.DB, ctx context.Context, businessID snowflake.ID, filter domain.ListEntryFilter) *gorm.DB {
	stmt := db.WithContext(ctx).
		Model(&domain.CashEntry{}).
		Where("business_id = ?", businessID)

	if filter.Direction != "" {
		stmt = stmt.Where("direction = ?", filter.Direction)
	}
	if filter.Method != "" {
		stmt = stmt.Where("method = ?", filter.Method)
	}
	if filter.StartDate != nil {
		stmt = stmt.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		stmt = stmt.Where("date <= ?", *filter.EndDate)
	}
	return stmt
}

func (r *repo) List(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter domain.ListEntryFilter, page pagination.Pagination) ([]domain.CashEntry, int64, error) {
	stmt := filtered(db, ctx, businessID, filter)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []domain.CashEntry
	err := page.Apply(stmt).
		Order("date DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *repo) Summarize(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter domain.ListEntryFilter) (domain.Summary, error) {
	rows := []struct {
		Direction domain.Direction
		Total     float64
	}{}
	err := filtered(db, ctx, businessID, filter).
		Select("direction, COALESCE(SUM(amount), 0) AS total").
		Group("direction").
		Scan(&rows).Error
	if err != nil {
		return domain.Summary{}, err
	}

	var summary domain.Summary
	for _, row := range rows {
		switch row.Direction {
		case domain.DirectionIn:
			summary.TotalIn = row.Total
		case domain.DirectionOut:
			summary.TotalOut = row.Total
		}
	}
	summary.NetBalance = summary.TotalIn - summary.TotalOut
	return summary, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&domain.CashEntry{}).Error
}
