package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// PostgresStore implements StockStore on a single-row table. The decrement
// is one conditional UPDATE, so the clamp at zero is atomic under
// concurrent commits.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cred *Credentials) (*PostgresStore, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(s.db, &postgres.Config{
		MigrationsTable: "stock_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (s *PostgresStore) Stock(ctx context.Context) (int64, error) {
	var units int64
	err := s.db.QueryRowContext(ctx, `SELECT units FROM shared_stock WHERE id = 1`).Scan(&units)
	if err != nil {
		return 0, fmt.Errorf("read stock: %w", err)
	}
	return units, nil
}

func (s *PostgresStore) SetStock(ctx context.Context, units int64) error {
	query := `INSERT INTO shared_stock (id, units) VALUES (1, $1)
	          ON CONFLICT (id) DO UPDATE SET units = $1, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, units); err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

func (s *PostgresStore) Decrement(ctx context.Context, units int64) (int64, int64, error) {
	if units <= 0 {
		return 0, 0, ErrInvalidDecrement
	}

	// RETURNING sees post-update values, so the pre-update count comes
	// from a locked CTE; consumed = previous - remaining.
	query := `WITH prev AS (
	              SELECT units FROM shared_stock WHERE id = 1 FOR UPDATE
	          )
	          UPDATE shared_stock s
	          SET units = GREATEST(s.units - $1, 0),
	              updated_at = NOW()
	          FROM prev
	          WHERE s.id = 1
	          RETURNING prev.units - s.units, s.units`

	var consumed, remaining int64
	if err := s.db.QueryRowContext(ctx, query, units).Scan(&consumed, &remaining); err != nil {
		return 0, 0, fmt.Errorf("decrement stock: %w", err)
	}
	return consumed, remaining, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
