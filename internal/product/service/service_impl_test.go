package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/bizbook/internal/bizcontext"
	"github.com/smallbiznis/bizbook/internal/product/domain"
	"github.com/smallbiznis/bizbook/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupStockService(t *testing.T) (domain.StockService, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, db, node
}

func seedProduct(t *testing.T, db *gorm.DB, node *snowflake.Node, businessID snowflake.ID, stock int64) *domain.Product {
	t.Helper()
	product := &domain.Product{
		ID:           node.Generate(),
		BusinessID:   businessID,
		Name:         "Basmati Rice 5kg",
		Unit:         "bag",
		SalePrice:    450,
		OpeningStock: stock,
		CurrentStock: stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestApplyDeltaSigns(t *testing.T) {
	svc, db, node := setupStockService(t)
	businessID := node.Generate()
	product := seedProduct(t, db, node, businessID, 10)

	ctx := bizcontext.WithBusinessID(context.Background(), int64(businessID))

	got, err := svc.ApplyDelta(ctx, product.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	got, err = svc.ApplyDelta(ctx, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got)
}

func TestApplyDeltaClampsAtZero(t *testing.T) {
	svc, db, node := setupStockService(t)
	businessID := node.Generate()
	product := seedProduct(t, db, node, businessID, 4)

	ctx := bizcontext.WithBusinessID(context.Background(), int64(businessID))

	got, err := svc.ApplyDelta(ctx, product.ID, -20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	var stored domain.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, int64(0), stored.CurrentStock)
	assert.Equal(t, int64(4), stored.OpeningStock, "opening stock must not move")
}

func TestApplyDeltaMissingProduct(t *testing.T) {
	svc, _, node := setupStockService(t)
	businessID := node.Generate()

	ctx := bizcontext.WithBusinessID(context.Background(), int64(businessID))

	_, err := svc.ApplyDelta(ctx, node.Generate(), -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyDeltaScopedToBusiness(t *testing.T) {
	svc, db, node := setupStockService(t)
	owner := node.Generate()
	other := node.Generate()
	product := seedProduct(t, db, node, owner, 10)

	ctx := bizcontext.WithBusinessID(context.Background(), int64(other))
	_, err := svc.ApplyDelta(ctx, product.ID, -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var stored domain.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, int64(10), stored.CurrentStock)
}

func TestApplyDeltaRequiresBusinessContext(t *testing.T) {
	svc, _, node := setupStockService(t)
	_, err := svc.ApplyDelta(context.Background(), node.Generate(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidBusiness)
}
