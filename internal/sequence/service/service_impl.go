package service

import (
	"context"

	"github.com/smallbiznis/bizbook/internal/bizcontext"
	"github.com/smallbiznis/bizbook/internal/sequence/domain"
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

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("sequence.service"),
		repo: p.Repo,
	}
}

func (s *Service) Next(ctx context.Context, kind domain.Kind) (int64, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return 0, domain.ErrInvalidBusiness
	}
	if !kind.Valid() {
		return 0, domain.ErrInvalidKind
	}

	return s.repo.IncrementAndGet(ctx, s.db, businessID, kind)
}

// NextTx is Next against an explicit transaction handle, so bill creation
// can take its number inside the same transaction as the bill insert.
func (s *Service) NextTx(ctx context.Context, tx *gorm.DB, kind domain.Kind) (int64, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return 0, domain.ErrInvalidBusiness
	}
	if !kind.Valid() {
		return 0, domain.ErrInvalidKind
	}

	return s.repo.IncrementAndGet(ctx, tx, businessID, kind)
}

func (s *Service) Peek(ctx context.Context, kind domain.Kind) (int64, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return 0, domain.ErrInvalidBusiness
	}
	if !kind.Valid() {
		return 0, domain.ErrInvalidKind
	}

	counter, err := s.repo.Find(ctx, s.db, businessID, kind)
	if err != nil {
		return 0, err
	}
	if counter == nil {
		return 1, nil
	}
	return counter.Value + 1, nil
}
