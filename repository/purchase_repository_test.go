package repository

import (
	"context"
	"testing"
	"time"

	"xpslots/domain/entities"
	"xpslots/domain/interfaces"
	"xpslots/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseRepository_Postgres(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	testPurchaseRepository(t, NewPurchaseRepository(testDB.DB))
}

func TestPurchaseRepository_Memory(t *testing.T) {
	t.Parallel()
	testPurchaseRepository(t, NewMemoryPurchaseRepository())
}

func testPurchaseRepository(t *testing.T, repo interfaces.PurchaseRepository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		purchase := testutil.CreateTestPurchase("pay_create", "discord:1", "popular")
		require.NoError(t, repo.Create(ctx, purchase))

		got, err := repo.GetByPaymentID(ctx, "pay_create")
		require.NoError(t, err)
		assert.Equal(t, "discord:1", got.Identity)
		assert.Equal(t, "popular", got.PackageID)
		assert.Equal(t, int64(1100), got.XPAmount)
		assert.Equal(t, "10", got.Price)
		assert.Equal(t, "USDC", got.Currency)
		assert.Equal(t, entities.PaymentStatusPending, got.Status)
		assert.True(t, purchase.CreatedAt.Equal(got.CreatedAt))
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("duplicate payment id", func(t *testing.T) {
		purchase := testutil.CreateTestPurchase("pay_dup", "discord:1", "starter")
		require.NoError(t, repo.Create(ctx, purchase))

		err := repo.Create(ctx, purchase)
		assert.ErrorIs(t, err, entities.ErrPurchaseAlreadyExists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByPaymentID(ctx, "pay_missing")
		assert.ErrorIs(t, err, entities.ErrPurchaseNotFound)
	})

	t.Run("transition is won once", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestPurchase("pay_claim", "discord:2", "whale")))

		won, err := repo.Transition(ctx, "pay_claim", entities.PaymentStatusPending, entities.PaymentStatusCompleted)
		require.NoError(t, err)
		assert.True(t, won)

		won, err = repo.Transition(ctx, "pay_claim", entities.PaymentStatusPending, entities.PaymentStatusCompleted)
		require.NoError(t, err)
		assert.False(t, won)

		got, err := repo.GetByPaymentID(ctx, "pay_claim")
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusCompleted, got.Status)
		assert.NotNil(t, got.CompletedAt)
	})

	t.Run("transition back to pending clears completion", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestPurchase("pay_rollback", "discord:2", "starter")))

		won, err := repo.Transition(ctx, "pay_rollback", entities.PaymentStatusPending, entities.PaymentStatusCompleted)
		require.NoError(t, err)
		require.True(t, won)
		won, err = repo.Transition(ctx, "pay_rollback", entities.PaymentStatusCompleted, entities.PaymentStatusPending)
		require.NoError(t, err)
		require.True(t, won)

		got, err := repo.GetByPaymentID(ctx, "pay_rollback")
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusPending, got.Status)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("transition of unknown purchase", func(t *testing.T) {
		won, err := repo.Transition(ctx, "pay_unknown", entities.PaymentStatusPending, entities.PaymentStatusFailed)
		require.NoError(t, err)
		assert.False(t, won)
	})

	t.Run("list by identity newest first", func(t *testing.T) {
		base := time.Now().Add(-time.Hour)
		for i, id := range []string{"pay_h1", "pay_h2", "pay_h3"} {
			purchase := testutil.CreateTestPurchaseAt(id, "discord:history", "starter", base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, repo.Create(ctx, purchase))
		}

		purchases, err := repo.ListByIdentity(ctx, "discord:history", 2)
		require.NoError(t, err)
		require.Len(t, purchases, 2)
		assert.Equal(t, "pay_h3", purchases[0].PaymentID)
		assert.Equal(t, "pay_h2", purchases[1].PaymentID)

		none, err := repo.ListByIdentity(ctx, "discord:nobody", 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("list pending oldest first", func(t *testing.T) {
		base := time.Now().Add(-24 * time.Hour)
		require.NoError(t, repo.Create(ctx, testutil.CreateTestPurchaseAt("pay_p2", "discord:3", "starter", base.Add(time.Minute))))
		require.NoError(t, repo.Create(ctx, testutil.CreateTestPurchaseAt("pay_p1", "discord:3", "starter", base)))

		pending, err := repo.ListPending(ctx)
		require.NoError(t, err)

		var ids []string
		for _, purchase := range pending {
			assert.Equal(t, entities.PaymentStatusPending, purchase.Status)
			ids = append(ids, purchase.PaymentID)
		}
		require.GreaterOrEqual(t, len(ids), 2)
		assert.Equal(t, []string{"pay_p1", "pay_p2"}, ids[:2])
		assert.NotContains(t, ids, "pay_claim")
	})
}
