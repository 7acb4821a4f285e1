// Package repository provides the gorm-backed bill store.
package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/internal/billing/domain"
	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	// Items are created through the association in the same statement
	// batch, so a failed line insert rolls back the bill as well when
	// called inside a transaction.
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Preload("Items").
		Where("business_id = ? AND id = ?", businessID, id).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, businessID snowflake.ID, filter domain.ListBillFilter, page pagination.Pagination) ([]domain.Bill, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("business_id = ?", businessID)

	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Method != "" {
		stmt = stmt.Where("method = ?", filter.Method)
	}
	if filter.BillNumber != nil {
		stmt = stmt.Where("bill_number = ?", *filter.BillNumber)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("LOWER(party_name) LIKE LOWER(?) OR party_phone LIKE ?", like, like)
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

	var bills []domain.Bill
	err := page.Apply(stmt).
		Preload("Items").
		Order("date DESC, bill_number DESC").
		Find(&bills).Error
	if err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("bill_id = ?", bill.ID).
			Delete(&domain.BillItem{}).Error; err != nil {
			return err
		}
		// Save persists the bill row; the rebuilt item set is inserted
		// explicitly so stale lines never survive an update.
		if err := tx.Omit("Items").Save(bill).Error; err != nil {
			return err
		}
		if len(bill.Items) > 0 {
			if err := tx.Create(&bill.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("bill_id = ?", id).
			Delete(&domain.BillItem{}).Error; err != nil {
			return err
		}
		return tx.
			Where("business_id = ? AND id = ?", businessID, id).
			Delete(&domain.Bill{}).Error
	})
}
