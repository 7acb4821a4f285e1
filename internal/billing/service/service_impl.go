// Package service implements the bill lifecycle on top of the sequence
// and stock services.
package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smallbiznis/bizbook/internal/billing/domain"
	"github.com/smallbiznis/bizbook/internal/bizcontext"
	"github.com/smallbiznis/bizbook/internal/clock"
	"github.com/smallbiznis/bizbook/internal/config"
	productdomain "github.com/smallbiznis/bizbook/internal/product/domain"
	seqdomain "github.com/smallbiznis/bizbook/internal/sequence/domain"
	"github.com/smallbiznis/bizbook/pkg/db/pagination"
	"github.com/smallbiznis/bizbook/pkg/telemetry"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Node     *snowflake.Node
	Repo     domain.Repository
	Sequence seqdomain.Service
	Stock    productdomain.StockService
	Billing  *config.BillingConfigHolder
	Metrics  *telemetry.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	node    *snowflake.Node
	repo    domain.Repository
	seq     seqdomain.Service
	stock   productdomain.StockService
	billing *config.BillingConfigHolder
	metrics *telemetry.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("billing.service"),
		clock:   p.Clock,
		node:    p.Node,
		repo:    p.Repo,
		seq:     p.Sequence,
		stock:   p.Stock,
		billing: p.Billing,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBillRequest) (domain.Bill, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.Bill{}, domain.ErrInvalidBusiness
	}

	billType := domain.BillType(req.Type)
	if !billType.Valid() {
		return domain.Bill{}, domain.ErrInvalidType
	}

	partyID, err := validateParty(req.Party)
	if err != nil {
		return domain.Bill{}, err
	}

	method := domain.PaymentMethodUnpaid
	if req.Method != "" {
		method = domain.PaymentMethod(req.Method)
		if !method.Valid() {
			return domain.Bill{}, domain.ErrInvalidMethod
		}
	}

	if err := validateAmounts(req.BalanceDue, req.TotalAmount); err != nil {
		return domain.Bill{}, err
	}

	charges, err := sanitizeCharges(req.Charges)
	if err != nil {
		return domain.Bill{}, err
	}
	discounts, err := sanitizeDiscounts(req.Discounts)
	if err != nil {
		return domain.Bill{}, err
	}

	date := s.clock.Now()
	if req.Date != nil {
		date = *req.Date
	}

	bill := domain.Bill{
		ID:           s.node.Generate(),
		BusinessID:   businessID,
		Type:         billType,
		Date:         date,
		PartyID:      partyID,
		PartyName:    req.Party.Name,
		PartyPhone:   req.Party.Phone,
		Charges:      datatypes.NewJSONSlice(charges),
		Discounts:    datatypes.NewJSONSlice(discounts),
		CustomFields: toJSONMap(req.CustomFields),
		Addresses:    toJSONMap(req.Addresses),
		Terms:        req.Terms,
		Note:         req.Note,
		Photos:       datatypes.NewJSONSlice(req.Photos),
		Method:       method,
		DueDate:      req.DueDate,
		BalanceDue:   req.BalanceDue,
		TotalAmount:  req.TotalAmount,
	}

	bill.Items, err = s.buildItems(businessID, bill.ID, req.Items)
	if err != nil {
		return domain.Bill{}, err
	}

	// The number assignment and the bill insert share one transaction,
	// so a failed insert never burns a bill number.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.seq.NextTx(ctx, tx, counterKind(billType))
		if err != nil {
			return err
		}
		bill.BillNumber = number
		return s.repo.Insert(ctx, tx, &bill)
	})
	if err != nil {
		return domain.Bill{}, err
	}

	// Stock moves after the bill is durable. Under best_effort a failed
	// adjustment never voids the bill; under all_or_nothing the bill is
	// taken back out and its number stays burned.
	if err := s.applyStockDeltas(ctx, billType, bill.Items, 1); err != nil {
		if delErr := s.repo.Delete(ctx, s.db, businessID, bill.ID); delErr != nil {
			s.log.Error("rollback of bill after stock failure failed",
				zap.String("bill_id", bill.ID.String()),
				zap.Error(delErr),
			)
		}
		return domain.Bill{}, err
	}

	total := bill.ComputeTotal()
	if bill.TotalAmount != nil {
		total = *bill.TotalAmount
	}
	s.metrics.ObserveBillCreated(string(billType), total)

	s.log.Info("bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.String("type", string(billType)),
		zap.Int64("bill_number", bill.BillNumber),
	)
	return bill, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Bill, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.Bill{}, domain.ErrInvalidBusiness
	}

	billID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.Bill{}, domain.ErrInvalidID
	}

	bill, err := s.repo.FindByID(ctx, s.db, businessID, billID)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrNotFound
	}
	return *bill, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBillRequest) (domain.ListBillResponse, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.ListBillResponse{}, domain.ErrInvalidBusiness
	}

	filter := domain.ListBillFilter{
		BillNumber: req.BillNumber,
		Search:     req.Search,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if req.Type != "" {
		filter.Type = domain.BillType(req.Type)
		if !filter.Type.Valid() {
			return domain.ListBillResponse{}, domain.ErrInvalidType
		}
	}
	if req.Method != "" {
		filter.Method = domain.PaymentMethod(req.Method)
		if !filter.Method.Valid() {
			return domain.ListBillResponse{}, domain.ErrInvalidMethod
		}
	}

	cfg := s.billing.Get()
	page := req.Pagination.Normalize(cfg.DefaultPageSize, cfg.MaxPageSize)

	bills, total, err := s.repo.List(ctx, s.db, businessID, filter, page)
	if err != nil {
		return domain.ListBillResponse{}, err
	}
	return domain.ListBillResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Bills:    bills,
	}, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateBillRequest) (domain.Bill, error) {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.Bill{}, domain.ErrInvalidBusiness
	}

	billID, err := snowflake.ParseString(req.ID)
	if err != nil {
		return domain.Bill{}, domain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, s.db, businessID, billID)
	if err != nil {
		return domain.Bill{}, err
	}
	if existing == nil {
		return domain.Bill{}, domain.ErrNotFound
	}

	// Identity fields are rejected before any state changes, so a bad
	// payload can never half-apply.
	if req.BusinessID != nil && *req.BusinessID != existing.BusinessID.String() {
		return domain.Bill{}, domain.ErrImmutableField
	}
	if req.Type != nil && domain.BillType(*req.Type) != existing.Type {
		return domain.Bill{}, domain.ErrImmutableField
	}
	if req.BillNumber != nil && *req.BillNumber != existing.BillNumber {
		return domain.Bill{}, domain.ErrImmutableField
	}

	bill := *existing

	if req.Date != nil {
		bill.Date = *req.Date
	}
	if req.Party != nil {
		partyID, err := validateParty(*req.Party)
		if err != nil {
			return domain.Bill{}, err
		}
		bill.PartyID = partyID
		bill.PartyName = req.Party.Name
		bill.PartyPhone = req.Party.Phone
	}
	if req.Method != nil {
		method := domain.PaymentMethod(*req.Method)
		if !method.Valid() {
			return domain.Bill{}, domain.ErrInvalidMethod
		}
		bill.Method = method
	}
	if err := validateAmounts(req.BalanceDue, req.TotalAmount); err != nil {
		return domain.Bill{}, err
	}
	if req.BalanceDue != nil {
		bill.BalanceDue = req.BalanceDue
	}
	if req.TotalAmount != nil {
		bill.TotalAmount = req.TotalAmount
	}
	if req.DueDate != nil {
		bill.DueDate = req.DueDate
	}
	if req.Charges != nil {
		charges, err := sanitizeCharges(*req.Charges)
		if err != nil {
			return domain.Bill{}, err
		}
		bill.Charges = datatypes.NewJSONSlice(charges)
	}
	if req.Discounts != nil {
		discounts, err := sanitizeDiscounts(*req.Discounts)
		if err != nil {
			return domain.Bill{}, err
		}
		bill.Discounts = datatypes.NewJSONSlice(discounts)
	}
	if req.CustomFields != nil {
		bill.CustomFields = toJSONMap(req.CustomFields)
	}
	if req.Addresses != nil {
		bill.Addresses = toJSONMap(req.Addresses)
	}
	if req.Terms != nil {
		bill.Terms = *req.Terms
	}
	if req.Note != nil {
		bill.Note = *req.Note
	}
	if req.Photos != nil {
		bill.Photos = datatypes.NewJSONSlice(*req.Photos)
	}

	oldItems := existing.Items
	itemsChanged := req.Items != nil
	if itemsChanged {
		bill.Items, err = s.buildItems(businessID, bill.ID, *req.Items)
		if err != nil {
			return domain.Bill{}, err
		}
	}

	if err := s.repo.Update(ctx, s.db, &bill); err != nil {
		return domain.Bill{}, err
	}

	// The stock effect of an amended bill is the difference between the
	// old and new line sets: reverse what the old lines did, then apply
	// the new ones.
	if itemsChanged {
		if err := s.applyStockDeltas(ctx, bill.Type, oldItems, -1); err != nil {
			return domain.Bill{}, err
		}
		if err := s.applyStockDeltas(ctx, bill.Type, bill.Items, 1); err != nil {
			return domain.Bill{}, err
		}
	}

	s.log.Info("bill updated",
		zap.String("bill_id", bill.ID.String()),
		zap.Int64("bill_number", bill.BillNumber),
	)
	return bill, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	businessID, ok := bizcontext.BusinessIDFromContext(ctx)
	if !ok || businessID == 0 {
		return domain.ErrInvalidBusiness
	}

	billID, err := snowflake.ParseString(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	bill, err := s.repo.FindByID(ctx, s.db, businessID, billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, businessID, billID); err != nil {
		return err
	}

	// Deleting a bill undoes its stock effect. The counter is never
	// rewound; numbering gaps after deletion are expected.
	if err := s.applyStockDeltas(ctx, bill.Type, bill.Items, -1); err != nil {
		return err
	}

	s.metrics.ObserveBillDeleted(string(bill.Type))
	s.log.Info("bill deleted",
		zap.String("bill_id", billID.String()),
		zap.Int64("bill_number", bill.BillNumber),
	)
	return nil
}

func (s *Service) PeekNextNumber(ctx context.Context, billType string) (domain.NextNumberResponse, error) {
	t := domain.BillType(billType)
	if !t.Valid() {
		return domain.NextNumberResponse{}, domain.ErrInvalidType
	}

	number, err := s.seq.Peek(ctx, counterKind(t))
	if err != nil {
		if errors.Is(err, seqdomain.ErrInvalidBusiness) {
			return domain.NextNumberResponse{}, domain.ErrInvalidBusiness
		}
		return domain.NextNumberResponse{}, err
	}
	return domain.NextNumberResponse{Type: t, BillNumber: number}, nil
}

// applyStockDeltas moves stock for every line of a bill. sign is 1 when
// the bill's effect is applied and -1 when it is reversed. Sales subtract
// stock, purchases add it.
func (s *Service) applyStockDeltas(ctx context.Context, billType domain.BillType, items []domain.BillItem, sign int64) error {
	policy := s.billing.Get().StockPolicy

	applied := make([]domain.BillItem, 0, len(items))
	for _, item := range items {
		delta := stockDelta(billType, item.Quantity) * sign
		if delta == 0 {
			continue
		}
		if _, err := s.stock.ApplyDelta(ctx, item.ProductID, delta); err != nil {
			s.metrics.ObserveStockAdjustment("error")
			if policy == config.StockPolicyAllOrNothing {
				s.compensate(ctx, billType, applied, sign)
				return err
			}
			// A line can reference a product deleted since the bill was
			// issued; the bill itself stays valid.
			s.log.Warn("stock adjustment skipped",
				zap.String("product_id", item.ProductID.String()),
				zap.Int64("delta", delta),
				zap.Error(err),
			)
			continue
		}
		s.metrics.ObserveStockAdjustment("ok")
		applied = append(applied, item)
	}
	return nil
}

// compensate re-applies the negated delta for lines that already moved
// stock before a later line failed under the all-or-nothing policy.
func (s *Service) compensate(ctx context.Context, billType domain.BillType, applied []domain.BillItem, sign int64) {
	for _, item := range applied {
		delta := stockDelta(billType, item.Quantity) * -sign
		if _, err := s.stock.ApplyDelta(ctx, item.ProductID, delta); err != nil {
			s.log.Error("stock compensation failed",
				zap.String("product_id", item.ProductID.String()),
				zap.Int64("delta", delta),
				zap.Error(err),
			)
		}
	}
}

func (s *Service) buildItems(businessID, billID snowflake.ID, inputs []domain.LineItemInput) ([]domain.BillItem, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyItems
	}

	items := make([]domain.BillItem, 0, len(inputs))
	for _, in := range inputs {
		productID, err := snowflake.ParseString(in.ProductID)
		if err != nil || productID == 0 {
			return nil, domain.ErrInvalidItem
		}
		if in.Name == "" || in.Quantity < 0 {
			return nil, domain.ErrInvalidItem
		}
		if in.UnitPrice < 0 {
			return nil, domain.ErrInvalidAmount
		}
		items = append(items, domain.BillItem{
			ID:          s.node.Generate(),
			BusinessID:  businessID,
			BillID:      billID,
			ProductID:   productID,
			ProductName: in.Name,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		})
	}
	return items, nil
}

func stockDelta(billType domain.BillType, quantity int64) int64 {
	if billType == domain.BillTypeSale {
		return -quantity
	}
	return quantity
}

func counterKind(t domain.BillType) seqdomain.Kind {
	if t == domain.BillTypePurchase {
		return seqdomain.KindPurchase
	}
	return seqdomain.KindSale
}

func validateParty(party domain.PartyRef) (snowflake.ID, error) {
	if party.Name == "" || party.Phone == "" {
		return 0, domain.ErrInvalidParty
	}
	id, err := snowflake.ParseString(party.ID)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidParty
	}
	return id, nil
}

func validateAmounts(amounts ...*float64) error {
	for _, a := range amounts {
		if a != nil && *a < 0 {
			return domain.ErrInvalidAmount
		}
	}
	return nil
}

// sanitizeCharges drops entries missing a name or amount and rejects
// negative amounts.
func sanitizeCharges(inputs []domain.ChargeInput) ([]domain.Charge, error) {
	charges := make([]domain.Charge, 0, len(inputs))
	for _, in := range inputs {
		if in.Name == "" || in.Amount == nil {
			continue
		}
		if *in.Amount < 0 {
			return nil, domain.ErrInvalidAmount
		}
		charges = append(charges, domain.Charge{Name: in.Name, Amount: *in.Amount})
	}
	return charges, nil
}

// sanitizeDiscounts drops entries missing a type or value, drops unknown
// types, and rejects negative values.
func sanitizeDiscounts(inputs []domain.DiscountInput) ([]domain.Discount, error) {
	discounts := make([]domain.Discount, 0, len(inputs))
	for _, in := range inputs {
		if in.Value == nil {
			continue
		}
		t := domain.DiscountType(in.Type)
		if t != domain.DiscountTypePercentage && t != domain.DiscountTypeAmount {
			continue
		}
		if *in.Value < 0 {
			return nil, domain.ErrInvalidAmount
		}
		discounts = append(discounts, domain.Discount{Type: t, Value: *in.Value})
	}
	return discounts, nil
}

func toJSONMap(m map[string]any) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(m)
}
