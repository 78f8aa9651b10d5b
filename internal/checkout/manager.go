package checkout

import (
	"context"
	"sync"

	cartsvc "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/service"
	ordersvc "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/service"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/payment"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/pricing"
)

// Manager hands out one checkout Session per buyer session. Sessions are
// explicit objects keyed by session id, not ambient globals.
type Manager struct {
	carts   *cartsvc.Service
	regions *pricing.Table
	engine  *pricing.Engine
	gateway payment.Gateway
	orders  *ordersvc.Service

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(carts *cartsvc.Service, regions *pricing.Table, engine *pricing.Engine, gateway payment.Gateway, orders *ordersvc.Service) *Manager {
	return &Manager{
		carts:    carts,
		regions:  regions,
		engine:   engine,
		gateway:  gateway,
		orders:   orders,
		sessions: make(map[string]*Session),
	}
}

// Session returns the checkout session for the buyer, creating one bound
// to their cart on first use. A committed session is replaced by a fresh
// one so the buyer can order again.
func (m *Manager) Session(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	existing, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if ok && !existing.State().Terminal() {
		return existing, nil
	}

	cart, err := m.carts.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session := NewSession(cart, m.regions, m.engine, m.gateway, m.orders)

	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.sessions[sessionID]; ok && !current.State().Terminal() {
		return current, nil
	}
	m.sessions[sessionID] = session
	return session, nil
}
