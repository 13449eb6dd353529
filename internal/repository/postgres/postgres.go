package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db           *sql.DB
	Users        repository.UserRepository
	Transactions repository.TransactionRepository
	Leases       repository.LeaseRepository
	Assets       repository.AssetRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Transactions: NewTransactionRepository(db),
		Leases:       NewLeaseRepository(db),
		Assets:       NewAssetRepository(db),
	}
}

// Open connects to PostgreSQL and verifies the connection
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	return s.db.Close()
}
