package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bizbook/internal/sequence/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) IncrementAndGet(ctx context.Context, db *gorm.DB, businessID snowflake.ID, kind domain.Kind) (int64, error) {
	var value int64
	err := db.WithContext(ctx).Raw(
		`INSERT INTO bill_counters (business_id, kind, value, updated_at)
		 VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT (business_id, kind)
		 DO UPDATE SET value = bill_counters.value + 1, updated_at = CURRENT_TIMESTAMP
		 RETURNING value`,
		businessID,
		kind,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, businessID snowflake.ID, kind domain.Kind) (*domain.BillCounter, error) {
	var counter domain.BillCounter
	err := db.WithContext(ctx).
		Where("business_id = ? AND kind = ?", businessID, kind).
		First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &counter, nil
}
