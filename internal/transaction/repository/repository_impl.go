// Package repository provides the gorm-backed ledger store.
package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/internal/transaction/domain"
	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*domain.Entry, error) {
	var entry domain.Entry
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

func (r *repo) List(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter domain.ListEntryFilter, page pagination.Pagination) ([]domain.Entry, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("business_id = ?", businessID)

	if filter.PartyID != 0 {
		stmt = stmt.Where("party_id = ?", filter.PartyID)
	}
	if filter.Direction != "" {
		stmt = stmt.Where("direction = ?", filter.Direction)
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

	var entries []domain.Entry
	err := page.Apply(stmt).
		Order("date DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		Delete(&domain.Entry{}).Error
}
