package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/store"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidBundle   = errors.New("unknown bundle multiplier")
)

// Service hands out one Aggregate per session key. Concurrent loads of the
// same key collapse through singleflight so the store is read once.
type Service struct {
	store store.PersistenceStore
	sfg   singleflight.Group

	mu    sync.Mutex
	carts map[string]*Aggregate
}

func NewService(persistence store.PersistenceStore) *Service {
	return &Service{
		store: persistence,
		carts: make(map[string]*Aggregate),
	}
}

// Cart returns the aggregate for the given session, loading persisted state
// on first access. Missing or corrupt state falls back to an empty cart.
func (s *Service) Cart(ctx context.Context, sessionID string) (*Aggregate, error) {
	s.mu.Lock()
	if agg, ok := s.carts[sessionID]; ok {
		s.mu.Unlock()
		return agg, nil
	}
	s.mu.Unlock()

	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		agg := newAggregate(s.store, sessionID)
		agg.load(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.carts[sessionID]; ok {
			return existing, nil
		}
		s.carts[sessionID] = agg
		return agg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Aggregate), nil
}

// Aggregate owns the line items of one cart. All mutations write the full
// serialized cart state back to the persistence store.
type Aggregate struct {
	mu    sync.Mutex
	key   string
	store store.PersistenceStore
	cart  domain.Cart
}

func newAggregate(persistence store.PersistenceStore, key string) *Aggregate {
	return &Aggregate{key: key, store: persistence}
}

func (a *Aggregate) load(ctx context.Context) {
	raw, err := a.store.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("cart load error for %v: %v", a.key, err)
		}
		return // start empty
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// Corrupt state is not fatal; start over with an empty cart.
		log.Printf("discarding corrupt cart state for %v: %v", a.key, err)
		return
	}
	a.cart = cart
}

// Add appends a new line item, or increments quantity when the variant is
// already in the cart.
func (a *Aggregate) Add(ctx context.Context, item domain.LineItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if !item.BundleMultiplier.Valid() {
		return ErrInvalidBundle
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.cart.Items {
		if a.cart.Items[i].VariantID == item.VariantID {
			a.cart.Items[i].Quantity += item.Quantity
			return a.persist(ctx)
		}
	}
	a.cart.Items = append(a.cart.Items, item)
	return a.persist(ctx)
}

// Remove drops the item if present; removing an absent variant is a no-op.
func (a *Aggregate) Remove(ctx context.Context, variantID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.cart.Items {
		if a.cart.Items[i].VariantID == variantID {
			a.cart.Items = append(a.cart.Items[:i], a.cart.Items[i+1:]...)
			return a.persist(ctx)
		}
	}
	return nil
}

// SetQuantity rejects quantities below 1 without touching cart state.
// Zero is not a disguised remove; Remove is the operation for that.
func (a *Aggregate) SetQuantity(ctx context.Context, variantID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.cart.Items {
		if a.cart.Items[i].VariantID == variantID {
			a.cart.Items[i].Quantity = quantity
			return a.persist(ctx)
		}
	}
	return nil
}

// ApplyDiscount replaces any previously applied discount.
func (a *Aggregate) ApplyDiscount(ctx context.Context, discount domain.AppliedDiscount) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cart.Discount = &discount
	return a.persist(ctx)
}

func (a *Aggregate) RemoveDiscount(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cart.Discount = nil
	return a.persist(ctx)
}

// Clear empties the items and drops any applied discount.
func (a *Aggregate) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cart = domain.Cart{}
	return a.persist(ctx)
}

func (a *Aggregate) Snapshot() domain.Cart {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cart.Clone()
}

func (a *Aggregate) Subtotal() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cart.Subtotal()
}

func (a *Aggregate) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cart.Count()
}

// persist writes the whole serialized cart in one atomic set. Callers hold
// the mutex.
func (a *Aggregate) persist(ctx context.Context) error {
	a.cart.UpdatedAt = time.Now()
	raw, err := json.Marshal(a.cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := a.store.Set(ctx, a.key, string(raw)); err != nil {
		return fmt.Errorf("persist cart failed: %w", err)
	}
	return nil
}
