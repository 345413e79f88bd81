// Package pgtest поднимает PostgreSQL в контейнере для интеграционных тестов
// и содержит фабрику тестовых данных.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	dbName     = "testdb"
	dbUser     = "testuser"
	dbPassword = "testpass"
)

// Start запускает контейнер postgres:15-alpine и возвращает открытое соединение.
// Контейнер и соединение закрываются через t.Cleanup.
// В режиме -short тест пропускается.
func Start(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, host, port.Port(), dbName)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var pingErr error
	for range 10 {
		if pingErr = db.PingContext(ctx); pingErr == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, pingErr, "database did not become ready")

	return db
}

// MigrationsPath возвращает абсолютный путь к каталогу migrations в корне модуля.
func MigrationsPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// TestDataFactory создаёт записи напрямую в БД, минуя хранилище.
type TestDataFactory struct {
	db *sql.DB
}

// NewTestDataFactory создаёт новую фабрику тестовых данных.
func NewTestDataFactory(db *sql.DB) *TestDataFactory {
	return &TestDataFactory{db: db}
}

// CreateUser создаёт пользователя со случайным email и возвращает его ID.
func (f *TestDataFactory) CreateUser(t *testing.T, userName string) int64 {
	t.Helper()
	email := fmt.Sprintf("%s-%s@example.com", userName, uuid.NewString()[:8])
	now := time.Now().UTC()

	var id int64
	err := f.db.QueryRow(`INSERT INTO users (user_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $3) RETURNING id`, userName, email, now).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSubscription создаёт подписку пользователя на месяц с 2024-01-01.
func (f *TestDataFactory) CreateSubscription(t *testing.T, userID int64, serviceName string) int64 {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var id int64
	err := f.db.QueryRow(`INSERT INTO subscriptions (service_name, start_date, end_date, user_id)
		VALUES ($1, $2, $3, $4) RETURNING id`, serviceName, start, start.AddDate(0, 1, 0), userID).Scan(&id)
	require.NoError(t, err)
	return id
}

// CountRows возвращает количество строк в таблице с условием where.
func (f *TestDataFactory) CountRows(t *testing.T, table, where string, args ...any) int {
	t.Helper()
	var count int
	err := f.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where), args...).Scan(&count)
	require.NoError(t, err)
	return count
}
