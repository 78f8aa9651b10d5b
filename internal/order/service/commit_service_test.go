package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	cartdomain "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/inventory"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/domain"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures appended ledger entries.
type recordingSink struct {
	mu      sync.Mutex
	entries []inventory.LedgerEntry
	err     error
}

func (r *recordingSink) Append(_ context.Context, entry inventory.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

// brokenStock fails every decrement.
type brokenStock struct{}

func (brokenStock) Stock(context.Context) (int64, error)  { return 0, errors.New("stock backend down") }
func (brokenStock) SetStock(context.Context, int64) error { return errors.New("stock backend down") }
func (brokenStock) Decrement(context.Context, int64) (int64, int64, error) {
	return 0, 0, errors.New("stock backend down")
}

func testCustomer() domain.CustomerSnapshot {
	return domain.CustomerSnapshot{
		FirstName:  "Asha",
		LastName:   "Rai",
		Email:      "asha@example.com",
		Street:     "12 Ridge Road",
		City:       "Kathmandu",
		PostalCode: "44600",
		Country:    "US",
	}
}

func testItems() []cartdomain.LineItem {
	return []cartdomain.LineItem{
		{VariantID: "JAR-SINGLE", UnitPrice: decimal.RequireFromString("49.99"), Quantity: 1, BundleMultiplier: cartdomain.BundleSingle},
		{VariantID: "JAR-DOUBLE", UnitPrice: decimal.RequireFromString("89.99"), Quantity: 2, BundleMultiplier: cartdomain.BundleDouble},
	}
}

func TestCommit_CreatesPaidOrderAndDecrementsStock(t *testing.T) {
	repo := repository.NewMemoryRepository()
	stock := inventory.NewMemoryStore(10)
	sink := &recordingSink{}
	svc := NewService(repo, stock, sink)

	order, err := svc.Commit(context.Background(), testCustomer(), testItems(), decimal.RequireFromString("229.97"), "pi_abc")

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Contains(t, order.ID, "ORD-")
	assert.Equal(t, "pi_abc", order.PaymentReference)

	// 1 single + 2 doubles = 5 physical jars.
	remaining, err := stock.Stock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, int64(-5), sink.entries[0].QuantityDelta)
	assert.Equal(t, inventory.SharedSKU, sink.entries[0].SKU)
	assert.Equal(t, "ORDER_COMMIT", sink.entries[0].Action)
}

func TestCommit_LedgerRecordsClampedConsumption(t *testing.T) {
	repo := repository.NewMemoryRepository()
	stock := inventory.NewMemoryStore(3)
	sink := &recordingSink{}
	svc := NewService(repo, stock, sink)

	// testItems want 5 physical jars but only 3 exist; the ledger must
	// record what actually left the counter.
	_, err := svc.Commit(context.Background(), testCustomer(), testItems(), decimal.RequireFromString("229.97"), "pi_clamp")
	require.NoError(t, err)

	remaining, err := stock.Stock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, int64(-3), sink.entries[0].QuantityDelta)
}

func TestCommit_SamePaymentReferenceIsIdempotent(t *testing.T) {
	repo := repository.NewMemoryRepository()
	stock := inventory.NewMemoryStore(10)
	svc := NewService(repo, stock, &recordingSink{})
	ctx := context.Background()

	first, err := svc.Commit(ctx, testCustomer(), testItems(), decimal.RequireFromString("229.97"), "pi_same")
	require.NoError(t, err)

	second, err := svc.Commit(ctx, testCustomer(), testItems(), decimal.RequireFromString("229.97"), "pi_same")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "exactly one order")

	remaining, err := stock.Stock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining, "stock decremented exactly once")

	orders, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCommit_ConcurrentLastUnit(t *testing.T) {
	repo := repository.NewMemoryRepository()
	stock := inventory.NewMemoryStore(1)
	svc := NewService(repo, stock, &recordingSink{})
	ctx := context.Background()

	item := []cartdomain.LineItem{{VariantID: "JAR-SINGLE", UnitPrice: decimal.RequireFromString("49.99"), Quantity: 1, BundleMultiplier: cartdomain.BundleSingle}}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		ref := []string{"pi_one", "pi_two"}[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Commit(ctx, testCustomer(), item, decimal.RequireFromString("63.55"), ref)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	remaining, err := stock.Stock(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, remaining, int64(0), "stock never goes negative")
	assert.Equal(t, int64(0), remaining)
}

func TestCommit_StockFailureDoesNotRollBackSale(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewService(repo, brokenStock{}, &recordingSink{})
	ctx := context.Background()

	order, err := svc.Commit(ctx, testCustomer(), testItems(), decimal.RequireFromString("229.97"), "pi_warn")

	require.NoError(t, err, "inventory bookkeeping failure must not fail the sale")
	persisted, err := repo.GetOrderByPaymentReference(ctx, "pi_warn")
	require.NoError(t, err)
	assert.Equal(t, order.ID, persisted.ID)
	assert.Equal(t, domain.OrderStatusPaid, persisted.Status)
}

func TestCommit_AuditFailureDoesNotRollBackSale(t *testing.T) {
	repo := repository.NewMemoryRepository()
	stock := inventory.NewMemoryStore(10)
	svc := NewService(repo, stock, &recordingSink{err: errors.New("broker down")})

	_, err := svc.Commit(context.Background(), testCustomer(), testItems(), decimal.RequireFromString("229.97"), "pi_audit")
	require.NoError(t, err)

	remaining, err := stock.Stock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining, "stock still decremented")
}

func TestCommit_RejectsMissingPaymentReference(t *testing.T) {
	svc := NewService(repository.NewMemoryRepository(), inventory.NewMemoryStore(10), &recordingSink{})

	_, err := svc.Commit(context.Background(), testCustomer(), testItems(), decimal.Zero, "")
	assert.ErrorIs(t, err, ErrMissingPaymentReference)
}

func TestCommit_RejectsEmptyItems(t *testing.T) {
	svc := NewService(repository.NewMemoryRepository(), inventory.NewMemoryStore(10), &recordingSink{})

	_, err := svc.Commit(context.Background(), testCustomer(), nil, decimal.Zero, "pi_empty")
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrderIDs_SortChronologically(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewService(repo, inventory.NewMemoryStore(100), &recordingSink{})
	ctx := context.Background()

	item := []cartdomain.LineItem{{VariantID: "JAR-SINGLE", UnitPrice: decimal.RequireFromString("49.99"), Quantity: 1, BundleMultiplier: cartdomain.BundleSingle}}
	first, err := svc.Commit(ctx, testCustomer(), item, decimal.NewFromInt(50), "pi_1")
	require.NoError(t, err)
	second, err := svc.Commit(ctx, testCustomer(), item, decimal.NewFromInt(50), "pi_2")
	require.NoError(t, err)

	// Same-second ids share the timestamp prefix; distinct suffixes keep
	// them unique either way.
	assert.NotEqual(t, first.ID, second.ID)
	assert.LessOrEqual(t, first.ID[:18], second.ID[:18])
}
