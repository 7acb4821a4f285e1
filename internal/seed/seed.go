// Package seed bootstraps the default business so a fresh install can
// serve requests without an explicit tenant header.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	businessdomain "github.com/smallbiznis/bizbook/internal/business/domain"
	pkgdb "github.com/smallbiznis/bizbook/pkg/db"
)

const defaultBusinessName = "My Business"

// EnsureDefaultBusiness creates the default business when none exists.
func EnsureDefaultBusiness(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureDefaultBusinessTx(ctx, tx, node.Generate())
		return err
	})
}

// EnsureDefaultBusinessWithID seeds the default business under a fixed ID,
// used when DEFAULT_BUSINESS pins the tenant for header-less requests.
func EnsureDefaultBusinessWithID(db *gorm.DB, id int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if id == 0 {
		return errors.New("seed business id is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureDefaultBusinessTx(ctx, tx, snowflake.ID(id))
		return err
	})
}

func ensureDefaultBusinessTx(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*businessdomain.Business, error) {
	var existing businessdomain.Business
	err := tx.WithContext(ctx).
		Where("is_default = ?", true).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	business := businessdomain.Business{
		ID:        id,
		Name:      defaultBusinessName,
		IsDefault: true,
	}
	if err := tx.WithContext(ctx).Create(&business).Error; err != nil {
		// Another instance may have seeded the same fixed ID first.
		if pkgdb.IsDuplicateKeyErr(err) {
			if reread := tx.WithContext(ctx).First(&existing, "id = ?", id).Error; reread == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &business, nil
}
