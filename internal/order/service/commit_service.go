package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/audit"
	cartdomain "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/inventory"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/domain"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrder              = errors.New("order has no line items")
	ErrMissingPaymentReference = errors.New("payment reference is required")
)

const ledgerActor = "storefront"

// Service commits paid orders. Commit is idempotent on the payment
// reference: replaying a confirmation creates no second order and
// decrements stock exactly once.
type Service struct {
	orders repository.OrderRepository
	stock  inventory.StockStore
	audit  audit.Sink
	now    func() time.Time
}

func NewService(orders repository.OrderRepository, stock inventory.StockStore, sink audit.Sink) *Service {
	return &Service{
		orders: orders,
		stock:  stock,
		audit:  sink,
		now:    time.Now,
	}
}

// Commit persists the order with status Paid, decrements the shared jar
// counter by the bundle-weighted unit total, and appends one ledger entry.
//
// The sale is final once the order row exists: inventory or audit failures
// after that point are reconciliation warnings, never errors to the buyer.
func (s *Service) Commit(ctx context.Context, customer domain.CustomerSnapshot, items []cartdomain.LineItem, total decimal.Decimal, paymentReference string) (*domain.Order, error) {
	if paymentReference == "" {
		return nil, ErrMissingPaymentReference
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	// Idempotency check: a replayed confirmation returns the existing order.
	existing, err := s.orders.GetOrderByPaymentReference(ctx, paymentReference)
	if err == nil {
		log.Printf("duplicate commit for payment_reference = %v, returning order %v", paymentReference, existing.ID)
		return existing, nil
	}
	if !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, fmt.Errorf("failed to check for existing order: %w", err)
	}

	now := s.now()
	order := &domain.Order{
		ID:               newOrderID(now),
		Customer:         customer,
		Items:            append([]cartdomain.LineItem(nil), items...),
		Total:            total,
		Currency:         "USD",
		PaymentReference: paymentReference,
		Status:           domain.OrderStatusPaid,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicatePaymentReference) {
			// Lost a race between the check and the insert; the other
			// commit's order is the order.
			return s.orders.GetOrderByPaymentReference(ctx, paymentReference)
		}
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.consumeStock(ctx, order)
	return order, nil
}

// consumeStock runs the post-persist inventory bookkeeping. Failures here
// must not roll back the sale.
func (s *Service) consumeStock(ctx context.Context, order *domain.Order) {
	units := int64(0)
	for _, item := range order.Items {
		units += int64(item.Units())
	}

	consumed, remaining, err := s.stock.Decrement(ctx, units)
	if err != nil {
		log.Printf("RECONCILIATION WARNING: stock decrement failed for order %v (units = %v): %v", order.ID, units, err)
		return
	}
	if consumed < units {
		log.Printf("RECONCILIATION WARNING: order %v requested %v units but only %v were in stock", order.ID, units, consumed)
	}

	// The ledger records what actually left the counter, which is less
	// than requested when the clamp at zero engaged.
	entry := inventory.LedgerEntry{
		SKU:           inventory.SharedSKU,
		Action:        "ORDER_COMMIT",
		QuantityDelta: -consumed,
		Actor:         ledgerActor,
		Timestamp:     s.now(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		log.Printf("RECONCILIATION WARNING: ledger append failed for order %v: %v", order.ID, err)
	}

	log.Printf("order %v committed, %v units consumed, %v remaining", order.ID, consumed, remaining)
}

// newOrderID is chronologically sortable and human-presentable:
// ORD-20260829143500-1A2B3C4D.
func newOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102150405"), suffix)
}
