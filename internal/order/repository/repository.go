package repository

import (
	"context"
	"errors"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/domain"
)

var (
	ErrOrderNotFound             = errors.New("order not found")
	ErrDuplicatePaymentReference = errors.New("order for this payment reference already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	GetOrderByPaymentReference(ctx context.Context, paymentReference string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateFulfillment(ctx context.Context, id string, status domain.OrderStatus, trackingNumber, carrier string) error
	Close() error
}
