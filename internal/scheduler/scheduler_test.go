package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billingdomain "github.com/smallbiznis/bizbook/internal/billing/domain"
	"github.com/smallbiznis/bizbook/internal/clock"
	productdomain "github.com/smallbiznis/bizbook/internal/product/domain"
)

func setupScheduler(t *testing.T) (*Scheduler, *gorm.DB, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&productdomain.Product{}, &billingdomain.Bill{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	sched, err := New(Params{DB: db, Log: zap.NewNop(), Clock: fake})
	require.NoError(t, err)
	return sched, db, node, fake
}

func seedStock(t *testing.T, db *gorm.DB, node *snowflake.Node, name string, current, threshold int64) {
	t.Helper()
	require.NoError(t, db.Create(&productdomain.Product{
		ID:            node.Generate(),
		BusinessID:    node.Generate(),
		Name:          name,
		CurrentStock:  current,
		LowStockAlert: threshold,
	}).Error)
}

func TestScanLowStock(t *testing.T) {
	sched, db, node, _ := setupScheduler(t)

	seedStock(t, db, node, "Sugar 1kg", 2, 5)
	seedStock(t, db, node, "Rice 5kg", 5, 5)
	seedStock(t, db, node, "Salt 1kg", 50, 5)
	seedStock(t, db, node, "Loose Tea", 0, 0)

	products, err := sched.ScanLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	names := []string{products[0].Name, products[1].Name}
	assert.Contains(t, names, "Sugar 1kg")
	assert.Contains(t, names, "Rice 5kg")
}

func TestScanLowStockHonorsBatchSize(t *testing.T) {
	sched, db, node, _ := setupScheduler(t)
	sched.cfg.BatchSize = 3

	for i := 0; i < 10; i++ {
		seedStock(t, db, node, "Item", 1, 5)
	}

	products, err := sched.ScanLowStock(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestCountOverdueBills(t *testing.T) {
	sched, db, node, fake := setupScheduler(t)

	now := fake.Now()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	seedBill := func(method billingdomain.PaymentMethod, due *time.Time) {
		require.NoError(t, db.Create(&billingdomain.Bill{
			ID:         node.Generate(),
			BusinessID: node.Generate(),
			Type:       billingdomain.BillTypeSale,
			BillNumber: 1,
			Date:       now,
			PartyID:    node.Generate(),
			PartyName:  "Sharma Traders",
			Method:     method,
			DueDate:    due,
		}).Error)
	}

	seedBill(billingdomain.PaymentMethodUnpaid, &past)
	seedBill(billingdomain.PaymentMethodUnpaid, &future)
	seedBill(billingdomain.PaymentMethodCash, &past)
	seedBill(billingdomain.PaymentMethodUnpaid, nil)

	count, err := sched.CountOverdueBills(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	fake.Advance(96 * time.Hour)
	count, err = sched.CountOverdueBills(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRunOnceSurvivesScanErrors(t *testing.T) {
	sched, db, _, _ := setupScheduler(t)

	// Drop a scanned table so the first job fails; RunOnce must still
	// complete without panicking.
	require.NoError(t, db.Migrator().DropTable(&productdomain.Product{}))

	sched.RunOnce(context.Background())
}
