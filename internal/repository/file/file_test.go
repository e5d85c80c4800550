package file

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository"
)

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)

	records := []models.ProductionRecord{
		{ID: "p1", Date: "2024-03-01", BatchNumber: "B-1", ItemCode: "UNI-M", Quantity: 10, ProductionCost: 5},
		{ID: "p2", Date: "2024-03-02", BatchNumber: "B-2", ItemCode: "UNI-L", Quantity: 4, ProductionCost: 6.5},
	}
	for _, rec := range records {
		require.NoError(t, store.InsertProduction(ctx, rec))
	}
	require.NoError(t, store.InsertSale(ctx, models.SaleRecord{ID: "s1", Date: "2024-03-03", Time: "14:30", ItemCode: "UNI-M", Quantity: 2, SellingPrice: 12}))

	reopened, err := Open(dir)
	require.NoError(t, err)

	production, err := reopened.ListProduction(ctx)
	require.NoError(t, err)
	require.Equal(t, records, production)

	sales, err := reopened.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, "s1", sales[0].ID)
}

func TestDeleteUnknownRecordReturnsNotFound(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	err = store.DeleteProduction(context.Background(), "missing")
	require.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestUpsertUserRoundTripsPasswordHash(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)

	user := models.UserAccount{ID: "u1", FullName: "Ops", Email: "ops@local", PasswordHash: "$2a$10$hash", Role: "admin"}
	require.NoError(t, store.UpsertUser(ctx, user))

	reopened, err := Open(dir)
	require.NoError(t, err)

	got, err := reopened.GetUserByEmail(ctx, "OPS@LOCAL")
	require.NoError(t, err)
	require.Equal(t, user, *got)

	user.FullName = "Operations"
	require.NoError(t, reopened.UpsertUser(ctx, user))
	got, err = reopened.GetUserByEmail(ctx, "ops@local")
	require.NoError(t, err)
	require.Equal(t, "Operations", got.FullName)
}
