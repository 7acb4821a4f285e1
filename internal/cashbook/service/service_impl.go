// Package service implements the cashbook.
package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/internal/bizcontext"
	"github.com/smallbiznis/bizbook/internal/cashbook/domain"
	"github.com/smallbiznis/bizbook/internal/clock"
	"github.com/smallbiznis/bizbook/internal/config"
	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Node    *snowflake.Node
	Repo    domain.Repository
	Billing *config.BillingConfigHolder
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	node    *snowflake.Node
	repo    domain.Repository
	billing *config.BillingConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("cashbook.service"),
		clock:   p.Clock,
		node:    p.Node,
		repo:    p.Repo,
		billing: p.Billing,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEntryRequest) (domain.CashEntry, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.CashEntry{}, domain.ErrInvalidBusiness
	}

	direction := domain.Direction(req.Direction)
	if !direction.Valid() {
		return domain.CashEntry{}, domain.ErrInvalidDirection
	}
	method := domain.MethodCash
	if req.Method != "" {
		method = domain.Method(req.Method)
		if !method.Valid() {
			return domain.CashEntry{}, domain.ErrInvalidMethod
		}
	}
	if req.Amount <= 0 {
		return domain.CashEntry{}, domain.ErrInvalidAmount
	}

	date := s.clock.Now()
	if req.Date != nil {
		date = *req.Date
	}

	entry := domain.CashEntry{
		ID:         s.node.Generate(),
		BusinessID: businessID,
		Direction:  direction,
		Amount:     req.Amount,
		Method:     method,
		Date:       date,
		Note:       req.Note,
	}
	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		return domain.CashEntry{}, err
	}

	s.log.Info("cash entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("direction", string(direction)),
		zap.Float64("amount", req.Amount),
	)
	return entry, nil
}

func (s *Service) List(ctx context.Context, req domain.ListEntryRequest) (domain.ListEntryResponse, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.ListEntryResponse{}, domain.ErrInvalidBusiness
	}

	filter := domain.ListEntryFilter{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.Direction != "" {
		filter.Direction = domain.Direction(req.Direction)
		if !filter.Direction.Valid() {
			return domain.ListEntryResponse{}, domain.ErrInvalidDirection
		}
	}
	if req.Method != "" {
		filter.Method = domain.Method(req.Method)
		if !filter.Method.Valid() {
			return domain.ListEntryResponse{}, domain.ErrInvalidMethod
		}
	}

	cfg := s.billing.Get()
	page := req.Pagination.Normalize(cfg.DefaultPageSize, cfg.MaxPageSize)

	entries, total, err := s.repo.List(ctx, s.db, businessID, filter, page)
	if err != nil {
		return domain.ListEntryResponse{}, err
	}
	summary, err := s.repo.Summarize(ctx, s.db, businessID, filter)
	if err != nil {
		return domain.ListEntryResponse{}, err
	}
	return domain.ListEntryResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Summary:  summary,
		Entries:  entries,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.ErrInvalidBusiness
	}

	entryID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	entry, err := s.repo.FindByID(ctx, s.db, businessID, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, businessID, entryID); err != nil {
		return err
	}
	s.log.Info("cash entry deleted", zap.String("entry_id", entryID.String()))
	return nil
}
