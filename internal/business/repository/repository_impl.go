package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bizbook/internal/business/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, business *domain.Business) error {
	return db.WithContext(ctx).Create(business).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Business, error) {
	var business domain.Business
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &business, nil
}

func (r *repo) FindDefault(ctx context.Context, db *gorm.DB) (*domain.Business, error) {
	var business domain.Business
	err := db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &business, nil
}
