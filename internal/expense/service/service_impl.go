// Package service implements expenses and category budgets.
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
	"github.com/smallbiznis/bizbook/internal/expense/domain"
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
		log:     p.Log.Named("expense.service"),
		clock:   p.Clock,
		node:    p.Node,
		repo:    p.Repo,
		billing: p.Billing,
	}
}

func (s *Service) CreateExpense(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.Expense{}, domain.ErrInvalidBusiness
	}
	if req.Category == "" {
		return domain.Expense{}, domain.ErrInvalidCategory
	}
	if req.Amount <= 0 {
		return domain.Expense{}, domain.ErrInvalidAmount
	}

	date := s.clock.Now()
	if req.Date != nil {
		date = *req.Date
	}

	expense := domain.Expense{
		ID:         s.node.Generate(),
		BusinessID: businessID,
		Category:   req.Category,
		Amount:     req.Amount,
		Date:       date,
		Note:       req.Note,
	}
	if err := s.repo.InsertExpense(ctx, s.db, &expense); err != nil {
		return domain.Expense{}, err
	}

	s.log.Info("expense created",
		zap.String("expense_id", expense.ID.String()),
		zap.String("category", req.Category),
		zap.Float64("amount", req.Amount),
	)
	return expense, nil
}

func (s *Service) ListExpenses(ctx context.Context, req domain.ListExpenseRequest) (domain.ListExpenseResponse, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.ListExpenseResponse{}, domain.ErrInvalidBusiness
	}

	cfg := s.billing.Get()
	page := req.Pagination.Normalize(cfg.DefaultPageSize, cfg.MaxPageSize)

	expenses, total, err := s.repo.ListExpenses(ctx, s.db, businessID, domain.ListExpenseFilter{
		Category:  req.Category,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}, page)
	if err != nil {
		return domain.ListExpenseResponse{}, err
	}
	return domain.ListExpenseResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Expenses: expenses,
	}, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.ErrInvalidBusiness
	}

	expenseID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	expense, err := s.repo.FindExpenseByID(ctx, s.db, businessID, expenseID)
	if err != nil {
		return err
	}
	if expense == nil {
		return domain.ErrNotFound
	}
	return s.repo.DeleteExpense(ctx, s.db, businessID, expenseID)
}

func (s *Service) SetBudget(ctx context.Context, req domain.SetBudgetRequest) (domain.Budget, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.Budget{}, domain.ErrInvalidBusiness
	}
	if req.Category == "" {
		return domain.Budget{}, domain.ErrInvalidCategory
	}
	if req.MonthlyLimit < 0 {
		return domain.Budget{}, domain.ErrInvalidAmount
	}

	budget := domain.Budget{
		ID:           s.node.Generate(),
		BusinessID:   businessID,
		Category:     req.Category,
		MonthlyLimit: req.MonthlyLimit,
	}
	if err := s.repo.UpsertBudget(ctx, s.db, &budget); err != nil {
		return domain.Budget{}, err
	}

	// Re-read so a replaced row comes back with its original id.
	stored, err := s.repo.FindBudget(ctx, s.db, businessID, req.Category)
	if err != nil {
		return domain.Budget{}, err
	}
	if stored == nil {
		return budget, nil
	}
	return *stored, nil
}

func (s *Service) GetBudget(ctx context.Context, category string) (domain.Budget, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.Budget{}, domain.ErrInvalidBusiness
	}
	if category == "" {
		return domain.Budget{}, domain.ErrInvalidCategory
	}

	budget, err := s.repo.FindBudget(ctx, s.db, businessID, category)
	if err != nil {
		return domain.Budget{}, err
	}
	if budget == nil {
		return domain.Budget{}, domain.ErrNotFound
	}
	return *budget, nil
}
