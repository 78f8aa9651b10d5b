package service

import (
	"context"
	"testing"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleJar(quantity int) domain.LineItem {
	return domain.LineItem{
		VariantID:        "JAR-SINGLE",
		ProductTitle:     "Himalaya Vitality Shilajit",
		VariantName:      "Single Jar",
		UnitPrice:        decimal.RequireFromString("49.99"),
		Quantity:         quantity,
		BundleMultiplier: domain.BundleSingle,
	}
}

func doubleJar(quantity int) domain.LineItem {
	return domain.LineItem{
		VariantID:        "JAR-DOUBLE",
		ProductTitle:     "Himalaya Vitality Shilajit",
		VariantName:      "Double Jar",
		UnitPrice:        decimal.RequireFromString("89.99"),
		Quantity:         quantity,
		BundleMultiplier: domain.BundleDouble,
	}
}

func newTestCart(t *testing.T) (*Aggregate, store.PersistenceStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := NewService(mem)
	agg, err := svc.Cart(context.Background(), "session-1")
	require.NoError(t, err)
	return agg, mem
}

func TestAdd_NewVariant(t *testing.T) {
	cart, _ := newTestCart(t)

	require.NoError(t, cart.Add(context.Background(), singleJar(1)))

	snap := cart.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Quantity)
	assert.Equal(t, 1, cart.Count())
}

func TestAdd_ExistingVariantIncrementsQuantity(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, singleJar(1)))
	require.NoError(t, cart.Add(ctx, singleJar(2)))

	snap := cart.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	cart, _ := newTestCart(t)

	err := cart.Add(context.Background(), singleJar(0))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, cart.Snapshot().Items)
}

func TestRemove_AbsentVariantIsNoop(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, singleJar(1)))
	require.NoError(t, cart.Remove(ctx, "JAR-TRIPLE"))

	assert.Len(t, cart.Snapshot().Items, 1)
}

func TestRemove_DropsItem(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, singleJar(1)))
	require.NoError(t, cart.Add(ctx, doubleJar(1)))
	require.NoError(t, cart.Remove(ctx, "JAR-SINGLE"))

	snap := cart.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "JAR-DOUBLE", snap.Items[0].VariantID)
}

func TestSetQuantity_BelowOneIsRejected(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()
	require.NoError(t, cart.Add(ctx, singleJar(2)))

	for _, quantity := range []int{0, -1} {
		err := cart.SetQuantity(ctx, "JAR-SINGLE", quantity)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, 2, cart.Snapshot().Items[0].Quantity, "cart state must be unchanged")
	}
}

func TestSetQuantity_UpdatesItem(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()
	require.NoError(t, cart.Add(ctx, singleJar(2)))

	require.NoError(t, cart.SetQuantity(ctx, "JAR-SINGLE", 5))
	assert.Equal(t, 5, cart.Snapshot().Items[0].Quantity)
}

func TestClear_DropsItemsAndDiscount(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, singleJar(2)))
	require.NoError(t, cart.ApplyDiscount(ctx, domain.AppliedDiscount{
		Code:  "WELCOME10",
		Kind:  domain.DiscountPercentage,
		Value: decimal.NewFromInt(10),
	}))

	require.NoError(t, cart.Clear(ctx))

	snap := cart.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Nil(t, snap.Discount)
	assert.True(t, cart.Subtotal().IsZero())
}

func TestApplyDiscount_ReplacesPrevious(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.ApplyDiscount(ctx, domain.AppliedDiscount{Code: "WELCOME10", Kind: domain.DiscountPercentage, Value: decimal.NewFromInt(10)}))
	require.NoError(t, cart.ApplyDiscount(ctx, domain.AppliedDiscount{Code: "FLAT5", Kind: domain.DiscountFixed, Value: decimal.NewFromInt(5)}))

	snap := cart.Snapshot()
	require.NotNil(t, snap.Discount)
	assert.Equal(t, "FLAT5", snap.Discount.Code)
}

func TestPersistence_SurvivesReload(t *testing.T) {
	mem := store.NewMemoryStore()
	ctx := context.Background()

	first, err := NewService(mem).Cart(ctx, "session-1")
	require.NoError(t, err)
	require.NoError(t, first.Add(ctx, singleJar(2)))

	// Fresh service simulates a new process reading the same store.
	second, err := NewService(mem).Cart(ctx, "session-1")
	require.NoError(t, err)

	snap := second.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("99.98").Equal(second.Subtotal()))
}

func TestLoad_CorruptStateFallsBackToEmptyCart(t *testing.T) {
	mem := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "session-1", "{not json"))

	cart, err := NewService(mem).Cart(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Snapshot().Items)
}

func TestSubtotal_RecomputedAfterMutation(t *testing.T) {
	cart, _ := newTestCart(t)
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, singleJar(1)))
	assert.True(t, decimal.RequireFromString("49.99").Equal(cart.Subtotal()))

	require.NoError(t, cart.SetQuantity(ctx, "JAR-SINGLE", 3))
	assert.True(t, decimal.RequireFromString("149.97").Equal(cart.Subtotal()))
}
