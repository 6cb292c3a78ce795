package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			avatar TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			discount_price DOUBLE PRECISION,
			category_id TEXT REFERENCES categories(id),
			brand TEXT NOT NULL DEFAULT '',
			stock INT NOT NULL DEFAULT 0,
			specifications JSONB,
			tags TEXT[] NOT NULL DEFAULT '{}',
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL DEFAULT 'active',
			ratings DOUBLE PRECISION NOT NULL DEFAULT 0,
			num_of_reviews INT NOT NULL DEFAULT 0,
			created_by TEXT REFERENCES users(id),
			version BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
		CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalogue inserts test categories, users and products.
func SeedCatalogue(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	for _, c := range []struct{ id, name, slug string }{
		{"cat-1", "Electronics", "electronics"},
		{"cat-2", "Outdoor", "outdoor"},
	} {
		_, err := pool.Exec(ctx,
			"INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)",
			c.id, c.name, c.slug,
		)
		if err != nil {
			t.Fatalf("failed to seed category %s: %v", c.id, err)
		}
	}

	_, err := pool.Exec(ctx,
		"INSERT INTO users (id, name, avatar) VALUES ('user-admin', 'Admin', '')")
	if err != nil {
		t.Fatalf("failed to seed admin user: %v", err)
	}

	products := []struct {
		id, name, brand, category string
		price                     float64
		featured                  bool
	}{
		{"P001", "Aurora Wireless Headphones", "Aurora", "cat-1", 199.99, true},
		{"P002", "Trailblazer Hiking Boots", "Trailblazer", "cat-2", 129.50, false},
		{"P003", "Nimbus Espresso Machine", "Nimbus", "cat-1", 289.00, true},
		{"P004", "Drift Mechanical Keyboard", "Drift", "cat-1", 89.99, false},
		{"P005", "Summit Tent", "Trailblazer", "cat-2", 349.00, false},
	}

	for i, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price, category_id, brand, featured, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 'user-admin', $7, $7)`,
			p.id, p.name, p.price, p.category, p.brand, p.featured,
			time.Now().UTC().Add(time.Duration(i)*time.Minute),
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"reviews", "products", "users", "categories"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
