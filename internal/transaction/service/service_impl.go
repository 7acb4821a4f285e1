// Package service implements the party ledger.
package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/internal/bizcontext"
	"github.com/smallbiznis/bizbook/internal/clock"
	"github.com/smallbiznis/bizbook/internal/config"
	partydomain "github.com/smallbiznis/bizbook/internal/party/domain"
	"github.com/smallbiznis/bizbook/internal/transaction/domain"
	"github.com/smallbiznis/bizbook/pkg/db/pagination"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Node    *snowflake.Node
	Repo    domain.Repository
	Parties partydomain.Repository
	Billing *config.BillingConfigHolder
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	node    *snowflake.Node
	repo    domain.Repository
	parties partydomain.Repository
	billing *config.BillingConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("transaction.service"),
		clock:   p.Clock,
		node:    p.Node,
		repo:    p.Repo,
		parties: p.Parties,
		billing: p.Billing,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEntryRequest) (domain.Entry, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.Entry{}, domain.ErrInvalidBusiness
	}

	partyID, err := snowflake.ParseString(req.PartyID)
	if err != nil || partyID == 0 {
		return domain.Entry{}, domain.ErrInvalidParty
	}

	direction := domain.Direction(req.Direction)
	if !direction.Valid() {
		return domain.Entry{}, domain.ErrInvalidDirection
	}
	if req.Amount <= 0 {
		return domain.Entry{}, domain.ErrInvalidAmount
	}

	date := s.clock.Now()
	if req.Date != nil {
		date = *req.Date
	}

	entry := domain.Entry{
		ID:         s.node.Generate(),
		BusinessID: businessID,
		PartyID:    partyID,
		Direction:  direction,
		Amount:     req.Amount,
		Date:       date,
		Note:       req.Note,
	}

	// The entry and the balance move commit together; an unknown party
	// rolls the whole thing back.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.parties.AdjustBalance(ctx, tx, businessID, partyID, entry.BalanceDelta())
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrInvalidParty
		}
		return s.repo.Insert(ctx, tx, &entry)
	})
	if err != nil {
		return domain.Entry{}, err
	}

	s.log.Info("ledger entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("party_id", partyID.String()),
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
	if req.PartyID != "" {
		partyID, err := snowflake.ParseString(req.PartyID)
		if err != nil {
			return domain.ListEntryResponse{}, domain.ErrInvalidParty
		}
		filter.PartyID = partyID
	}
	if req.Direction != "" {
		filter.Direction = domain.Direction(req.Direction)
		if !filter.Direction.Valid() {
			return domain.ListEntryResponse{}, domain.ErrInvalidDirection
		}
	}

	cfg := s.billing.Get()
	page := req.Pagination.Normalize(cfg.DefaultPageSize, cfg.MaxPageSize)

	entries, total, err := s.repo.List(ctx, s.db, businessID, filter, page)
	if err != nil {
		return domain.ListEntryResponse{}, err
	}
	return domain.ListEntryResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
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

	// Deleting an entry takes its balance effect back out.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.parties.AdjustBalance(ctx, tx, businessID, entry.PartyID, -entry.BalanceDelta()); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, businessID, entryID)
	})
	if err != nil {
		return err
	}

	s.log.Info("ledger entry deleted", zap.String("entry_id", entryID.String()))
	return nil
}
