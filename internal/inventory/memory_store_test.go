package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecrement_ClampsAtZero(t *testing.T) {
	store := NewMemoryStore(3)

	consumed, remaining, err := store.Decrement(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), consumed, "only the available units are consumed")
	assert.Equal(t, int64(0), remaining)
}

func TestDecrement_ConsumesRequestedWhenAvailable(t *testing.T) {
	store := NewMemoryStore(10)

	consumed, remaining, err := store.Decrement(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), consumed)
	assert.Equal(t, int64(6), remaining)
}

func TestDecrement_RejectsNonPositiveUnits(t *testing.T) {
	store := NewMemoryStore(3)

	_, _, err := store.Decrement(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidDecrement)

	_, _, err = store.Decrement(context.Background(), -2)
	assert.ErrorIs(t, err, ErrInvalidDecrement)
}

// A naive read-then-write here would let two goroutines both observe stock
// and race the counter below zero. The store must behave as a single
// conditional update.
func TestDecrement_ConcurrentNeverGoesNegative(t *testing.T) {
	store := NewMemoryStore(50)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = store.Decrement(ctx, 1)
		}()
	}
	wg.Wait()

	remaining, err := store.Stock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)
}

func TestSetStock_Replaces(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.SetStock(ctx, 120))
	units, err := store.Stock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(120), units)
}

func TestBundleAvailability_DerivedFromSharedStock(t *testing.T) {
	assert.Equal(t, int64(7), BundleAvailability(7, domain.BundleSingle))
	assert.Equal(t, int64(3), BundleAvailability(7, domain.BundleDouble))
	assert.Equal(t, int64(2), BundleAvailability(7, domain.BundleTriple))
	assert.Equal(t, int64(0), BundleAvailability(2, domain.BundleTriple))
}
