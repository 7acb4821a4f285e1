package service

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

	"github.com/smallbiznis/bizbook/internal/bizcontext"
	"github.com/smallbiznis/bizbook/internal/clock"
	"github.com/smallbiznis/bizbook/internal/config"
	partydomain "github.com/smallbiznis/bizbook/internal/party/domain"
	partyrepo "github.com/smallbiznis/bizbook/internal/party/repository"
	"github.com/smallbiznis/bizbook/internal/transaction/domain"
	"github.com/smallbiznis/bizbook/internal/transaction/repository"
)

func setupLedgerService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node, context.Context, snowflake.ID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Entry{}, &partydomain.Party{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)),
		Node:    node,
		Repo:    repository.Provide(),
		Parties: partyrepo.Provide(),
		Billing: config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	})

	businessID := node.Generate()
	ctx := bizcontext.WithBusinessID(context.Background(), int64(businessID))
	return svc, db, node, ctx, businessID
}

func seedParty(t *testing.T, db *gorm.DB, node *snowflake.Node, businessID snowflake.ID) *partydomain.Party {
	t.Helper()
	party := &partydomain.Party{
		ID:         node.Generate(),
		BusinessID: businessID,
		Name:       "Sharma Traders",
		Phone:      "9876543210",
		Type:       partydomain.PartyTypeCustomer,
	}
	require.NoError(t, db.Create(party).Error)
	return party
}

func partyBalance(t *testing.T, db *gorm.DB, id snowflake.ID) float64 {
	t.Helper()
	var party partydomain.Party
	require.NoError(t, db.First(&party, "id = ?", id).Error)
	return party.Balance
}

func TestCreateAdjustsPartyBalance(t *testing.T) {
	svc, db, node, ctx, businessID := setupLedgerService(t)
	party := seedParty(t, db, node, businessID)

	entry, err := svc.Create(ctx, domain.CreateEntryRequest{
		PartyID:   party.ID.String(),
		Direction: "gave",
		Amount:    500,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionGave, entry.Direction)
	assert.Equal(t, 500.0, partyBalance(t, db, party.ID))

	_, err = svc.Create(ctx, domain.CreateEntryRequest{
		PartyID:   party.ID.String(),
		Direction: "got",
		Amount:    200,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, partyBalance(t, db, party.ID))
}

func TestCreateUnknownPartyRollsBack(t *testing.T) {
	svc, db, node, ctx, _ := setupLedgerService(t)

	_, err := svc.Create(ctx, domain.CreateEntryRequest{
		PartyID:   node.Generate().String(),
		Direction: "gave",
		Amount:    100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidParty)

	var count int64
	require.NoError(t, db.Model(&domain.Entry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateValidation(t *testing.T) {
	svc, db, node, ctx, businessID := setupLedgerService(t)
	party := seedParty(t, db, node, businessID)

	_, err := svc.Create(ctx, domain.CreateEntryRequest{
		PartyID:   party.ID.String(),
		Direction: "lent",
		Amount:    100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)

	_, err = svc.Create(ctx, domain.CreateEntryRequest{
		PartyID:   party.ID.String(),
		Direction: "gave",
		Amount:    0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(context.Background(), domain.CreateEntryRequest{
		PartyID:   party.ID.String(),
		Direction: "gave",
		Amount:    100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBusiness)
}

func TestDeleteReversesBalance(t *testing.T) {
	svc, db, node, ctx, businessID := setupLedgerService(t)
	party := seedParty(t, db, node, businessID)

	entry, err := svc.Create(ctx, domain.CreateEntryRequest{
		PartyID:   party.ID.String(),
		Direction: "gave",
		Amount:    750,
	})
	require.NoError(t, err)
	require.Equal(t, 750.0, partyBalance(t, db, party.ID))

	require.NoError(t, svc.Delete(ctx, entry.ID.String()))
	assert.Equal(t, 0.0, partyBalance(t, db, party.ID))

	assert.ErrorIs(t, svc.Delete(ctx, entry.ID.String()), domain.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	svc, db, node, ctx, businessID := setupLedgerService(t)
	partyA := seedParty(t, db, node, businessID)
	partyB := &partydomain.Party{
		ID:         node.Generate(),
		BusinessID: businessID,
		Name:       "Gupta Stores",
		Phone:      "9000011111",
		Type:       partydomain.PartyTypeSupplier,
	}
	require.NoError(t, db.Create(partyB).Error)

	for i, tc := range []struct {
		party     *partydomain.Party
		direction string
		day       int
	}{
		{partyA, "gave", 10},
		{partyA, "got", 11},
		{partyB, "gave", 12},
	} {
		date := time.Date(2024, 3, tc.day, 12, 0, 0, 0, time.UTC)
		_, err := svc.Create(ctx, domain.CreateEntryRequest{
			PartyID:   tc.party.ID.String(),
			Direction: tc.direction,
			Amount:    float64(100 * (i + 1)),
			Date:      &date,
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListEntryRequest{PartyID: partyA.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)

	resp, err = svc.List(ctx, domain.ListEntryRequest{Direction: "gave"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)

	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	resp, err = svc.List(ctx, domain.ListEntryRequest{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)

	// Newest first.
	resp, err = svc.List(ctx, domain.ListEntryRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)
	assert.True(t, resp.Entries[0].Date.After(resp.Entries[2].Date))
}
