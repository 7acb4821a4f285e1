package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bizbook/internal/party/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, party *domain.Party) error {
	return db.WithContext(ctx).Create(party).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*domain.Party, error) {
	var party domain.Party
	err := db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&party).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &party, nil
}

func (r *repo) AdjustBalance(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID, delta float64) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE parties
		 SET balance = balance + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE business_id = ? AND id = ?`,
		delta,
		businessID,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
