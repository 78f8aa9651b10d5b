package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/audit"
	cartdomain "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/domain"
	cartsvc "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/service"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/cart/store"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/checkout"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/discount"
	storehttp "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/http"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/inventory"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/repository"
	ordersvc "github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/order/service"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/payment"
	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/pricing"
)

type Config struct {
	HTTPPort        string
	CartStore       string // memory | redis
	RedisAddr       string
	RedisPassword   string
	OrdersStore     string // memory | postgres
	KafkaBrokers    string // empty disables the Kafka ledger sink
	InitialStock    int64
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	initialStock, err := strconv.ParseInt(getEnv("INITIAL_STOCK", "500"), 10, 64)
	if err != nil {
		log.Fatalf("Invalid INITIAL_STOCK: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CartStore:       getEnv("CART_STORE", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		OrdersStore:     getEnv("ORDERS_STORE", "memory"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		InitialStock:    initialStock,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func dbCredentials(migrationsDir string) *repository.Credentials {
	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}
	return &repository.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              port,
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "storefront"),
		MigrationsDirPath: migrationsDir,
	}
}

func main() {
	log.Println("storefront starting...")
	cfg := loadConfig()
	ctx := context.Background()

	// Cart persistence
	var persistence store.PersistenceStore
	switch cfg.CartStore {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Connected to Redis at %s", cfg.RedisAddr)
		persistence = store.NewRedisStore(redisClient)
	default:
		log.Println("Using in-memory cart store")
		persistence = store.NewMemoryStore()
	}
	carts := cartsvc.NewService(persistence)

	// Orders and stock
	var (
		orders repository.OrderRepository
		stock  inventory.StockStore
	)
	switch cfg.OrdersStore {
	case "postgres":
		orderCreds := dbCredentials(getEnv("ORDER_MIGRATIONS_PATH", "./internal/order/repository/migrations"))
		repo, err := repository.NewPostgresRepository(orderCreds)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()
		if err := repo.RunMigrations(orderCreds); err != nil {
			log.Fatalf("Failed to run order migrations: %v", err)
		}

		stockCreds := &inventory.Credentials{
			Host:              orderCreds.Host,
			Port:              orderCreds.Port,
			User:              orderCreds.User,
			Password:          orderCreds.Password,
			DBName:            orderCreds.DBName,
			MigrationsDirPath: getEnv("STOCK_MIGRATIONS_PATH", "./internal/inventory/migrations"),
		}
		pgStock, err := inventory.NewPostgresStore(stockCreds)
		if err != nil {
			log.Fatalf("Failed to connect to stock database: %v", err)
		}
		defer pgStock.Close()
		if err := pgStock.RunMigrations(stockCreds); err != nil {
			log.Fatalf("Failed to run stock migrations: %v", err)
		}
		log.Println("Database migrations completed")

		if os.Getenv("INITIAL_STOCK") != "" {
			if err := pgStock.SetStock(ctx, cfg.InitialStock); err != nil {
				log.Fatalf("Failed to seed stock: %v", err)
			}
			log.Printf("Seeded shared stock at %d units", cfg.InitialStock)
		}

		orders = repo
		stock = pgStock
	default:
		log.Println("Using in-memory order repository")
		orders = repository.NewMemoryRepository()
		stock = inventory.NewMemoryStore(cfg.InitialStock)
	}

	// Audit ledger sink
	var sink audit.Sink = audit.LogSink{}
	if cfg.KafkaBrokers != "" {
		kafkaSink := audit.NewKafkaSink(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Printf("Publishing ledger entries to Kafka at %s", cfg.KafkaBrokers)
	}

	discounts := discount.NewValidator(discount.NewMemoryStore(
		discount.Record{Code: "WELCOME10", Kind: cartdomain.DiscountPercentage, Value: float64(10), Active: true},
		discount.Record{Code: "JARLOVER15", Kind: cartdomain.DiscountPercentage, Value: float64(15), Active: true},
		discount.Record{Code: "TAKE5", Kind: cartdomain.DiscountFixed, Amount: float64(5), Active: true},
	))

	regions := pricing.DefaultTable()
	engine := pricing.NewEngine(pricing.DefaultFreeShippingThreshold)
	gateway := payment.NewBreakerGateway(payment.NewStubGateway(payment.RandomOutcome{}))
	commits := ordersvc.NewService(orders, stock, sink)
	sessions := checkout.NewManager(carts, regions, engine, gateway, commits)

	router := storehttp.NewRouter(
		storehttp.NewCartHandler(carts, discounts),
		storehttp.NewCheckoutHandler(sessions, carts, regions, engine),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("storefront stopped")
}
