// Package scheduler runs periodic background scans over the inventory
// and the bill book: products at or below their low stock threshold and
// unpaid bills past their due date.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billingdomain "github.com/smallbiznis/bizbook/internal/billing/domain"
	"github.com/smallbiznis/bizbook/internal/clock"
	productdomain "github.com/smallbiznis/bizbook/internal/product/domain"
	"github.com/smallbiznis/bizbook/pkg/telemetry"
)

var ErrInvalidConfig = errors.New("scheduler requires db, log and clock")

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Metrics *telemetry.Metrics `optional:"true"`
	Config  Config             `optional:"true"`
}

type Scheduler struct {
	db      *gorm.DB
	log     *zap.Logger
	cfg     Config
	clock   clock.Clock
	metrics *telemetry.Metrics
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:      p.DB,
		log:     p.Log.Named("scheduler"),
		cfg:     p.Config.withDefaults(),
		clock:   p.Clock,
		metrics: p.Metrics,
	}, nil
}

// RunForever scans on the configured interval until ctx is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes every scan once. Scan failures are logged and do not
// stop the remaining scans.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.runJob(ctx, "low_stock_scan", func(ctx context.Context) error {
		products, err := s.ScanLowStock(ctx)
		if err != nil {
			return err
		}
		s.metrics.SetLowStockProducts(len(products))
		for _, p := range products {
			s.log.Warn("product at or below low stock threshold",
				zap.String("business_id", p.BusinessID.String()),
				zap.String("product_id", p.ID.String()),
				zap.String("name", p.Name),
				zap.Int64("current_stock", p.CurrentStock),
				zap.Int64("threshold", p.LowStockAlert),
			)
		}
		return nil
	})

	s.runJob(ctx, "overdue_bill_scan", func(ctx context.Context) error {
		count, err := s.CountOverdueBills(ctx)
		if err != nil {
			return err
		}
		s.metrics.SetOverdueBills(int(count))
		if count > 0 {
			s.log.Info("unpaid bills past due date", zap.Int64("count", count))
		}
		return nil
	})
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		s.log.Error("scheduler job failed",
			zap.String("job", name),
			zap.Error(err),
		)
		return
	}
	s.log.Debug("scheduler job finished",
		zap.String("job", name),
		zap.Duration("duration", s.clock.Now().Sub(start)),
	)
}

// ScanLowStock returns products whose current stock is at or below their
// configured alert threshold. Products without a threshold are skipped.
func (s *Scheduler) ScanLowStock(ctx context.Context) ([]productdomain.Product, error) {
	var products []productdomain.Product
	err := s.db.WithContext(ctx).
		Where("low_stock_alert > 0 AND current_stock <= low_stock_alert").
		Order("business_id, name").
		Limit(s.cfg.BatchSize).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// CountOverdueBills counts unpaid bills whose due date has passed.
func (s *Scheduler) CountOverdueBills(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&billingdomain.Bill{}).
		Where("method = ? AND due_date IS NOT NULL AND due_date < ?",
			billingdomain.PaymentMethodUnpaid, s.clock.Now()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
