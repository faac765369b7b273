// Package backend opens the persistence layer selected in the config.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/agency/internal/categorize"
	categorizeStore "github.com/MrJamesThe3rd/agency/internal/categorize/store"
	"github.com/MrJamesThe3rd/agency/internal/config"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	contractStore "github.com/MrJamesThe3rd/agency/internal/contract/store"
	"github.com/MrJamesThe3rd/agency/internal/database"
	"github.com/MrJamesThe3rd/agency/internal/docstore"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/agency/internal/expense/store"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
	"github.com/MrJamesThe3rd/agency/internal/lock"
	"github.com/MrJamesThe3rd/agency/internal/memstore"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
	txStore "github.com/MrJamesThe3rd/agency/internal/transaction/store"
)

// Stores groups the repositories of one backend.
type Stores struct {
	Contracts    contract.Repository
	Expenses     expense.Repository
	Transactions transaction.Repository
	Rules        categorize.Repository

	closers []func() error
}

func (s *Stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}

	return errors.Join(errs...)
}

// Open connects to cfg.Store.Backend. Postgres is migrated before use.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}

		return &Stores{
			Contracts:    contractStore.New(db),
			Expenses:     expenseStore.New(db),
			Transactions: txStore.New(db),
			Rules:        categorizeStore.New(db),
			closers:      []func() error{db.Close},
		}, nil

	case config.BackendFirestore:
		fs, err := docstore.Open(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, err
		}

		return &Stores{
			Contracts:    fs,
			Expenses:     fs,
			Transactions: fs,
			Rules:        fs,
			closers:      []func() error{fs.Close},
		}, nil

	case config.BackendMemory:
		slog.Warn("using the in-memory store, data is lost on exit")

		mem := memstore.New()

		return &Stores{Contracts: mem, Expenses: mem, Transactions: mem, Rules: mem}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// Locker returns the lock that serializes materializer runs: Redis when an
// address is configured, an in-process lock otherwise. The returned func
// releases the Redis connection.
func Locker(ctx context.Context, cfg *config.Config) (ledger.Locker, func() error, error) {
	if cfg.Redis.Addr == "" {
		return lock.NewLocal(), func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("pinging redis: %w", err)
	}

	return lock.NewRedis(rdb, cfg.Ledger.LockTTL), rdb.Close, nil
}
