package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/domain"
)

// MemoryRepository implements OrderRepository in-process. It enforces the
// same payment-reference uniqueness as the Postgres schema.
type MemoryRepository struct {
	mu        sync.RWMutex
	byID      map[string]*domain.Order
	byPayment map[string]*domain.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:      make(map[string]*domain.Order),
		byPayment: make(map[string]*domain.Order),
	}
}

func (r *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byPayment[order.PaymentReference]; exists {
		return ErrDuplicatePaymentReference
	}

	stored := *order
	r.byID[order.ID] = &stored
	r.byPayment[order.PaymentReference] = &stored
	return nil
}

func (r *MemoryRepository) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	out := *order
	return &out, nil
}

func (r *MemoryRepository) GetOrderByPaymentReference(_ context.Context, paymentReference string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.byPayment[paymentReference]
	if !ok {
		return nil, ErrOrderNotFound
	}
	out := *order
	return &out, nil
}

func (r *MemoryRepository) ListOrders(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(r.byID))
	for _, order := range r.byID {
		cp := *order
		out = append(out, &cp)
	}
	// Order ids sort chronologically by construction.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) UpdateFulfillment(_ context.Context, id string, status domain.OrderStatus, trackingNumber, carrier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.byID[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.Status = status
	order.TrackingNumber = trackingNumber
	order.Carrier = carrier
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
