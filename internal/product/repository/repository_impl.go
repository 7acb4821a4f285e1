package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bizbook/internal/product/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repo) AdjustStock(ctx context.Context, db *gorm.DB, businessID, id snowflake.ID, delta int64) (int64, bool, error) {
	// Single statement so concurrent bill mutations on the same product
	// cannot lose an update; the CASE keeps the clamp portable across
	// postgres, mysql and sqlite.
	result := db.WithContext(ctx).Exec(
		`UPDATE products
		 SET current_stock = CASE
		         WHEN current_stock + ? < 0 THEN 0
		         ELSE current_stock + ?
		     END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE business_id = ? AND id = ?`,
		delta,
		delta,
		businessID,
		id,
	)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}

	var current int64
	err := db.WithContext(ctx).Raw(
		`SELECT current_stock FROM products WHERE business_id = ? AND id = ?`,
		businessID,
		id,
	).Scan(&current).Error
	if err != nil {
		return 0, true, err
	}
	return current, true, nil
}
