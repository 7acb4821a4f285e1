package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bizbook/internal/bizcontext"
	"github.com/smallbiznis/bizbook/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.StockService {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("product.stock"),
		repo: p.Repo,
	}
}

func (s *Service) ApplyDelta(ctx context.Context, productID snowflake.ID, delta int64) (int64, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return 0, domain.ErrInvalidBusiness
	}
	if productID == 0 {
		return 0, domain.ErrInvalidProduct
	}

	current, found, err := s.repo.AdjustStock(ctx, s.db, businessID, productID, delta)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domain.ErrNotFound
	}

	s.log.Debug("stock adjusted",
		zap.String("product_id", productID.String()),
		zap.Int64("delta", delta),
		zap.Int64("current_stock", current),
	)
	return current, nil
}
