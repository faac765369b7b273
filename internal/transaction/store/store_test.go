package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/agency/internal/config"
	"github.com/MrJamesThe3rd/agency/internal/database"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
	"github.com/MrJamesThe3rd/agency/internal/transaction/store"
)

// openPostgres connects to the database described by the DB_* variables,
// skipping the test when DB_HOST is not set. Rows are scoped to a per-test
// invoice prefix and removed afterwards.
func openPostgres(t *testing.T) (*store.Store, *sql.DB, string) {
	t.Helper()

	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg.ConnectionString())
	require.NoError(t, err)

	require.NoError(t, database.Migrate(context.Background(), db))

	prefix := fmt.Sprintf("test%d", time.Now().UnixNano())

	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM transactions WHERE invoice_id LIKE $1`, prefix+"%")
		_ = db.Close()
	})

	return store.New(db), db, prefix
}

func entry(prefix string, month int) *transaction.Transaction {
	return &transaction.Transaction{
		Description: "Retainer",
		Amount:      decimal.RequireFromString("1000.00"),
		Type:        transaction.TypeIncome,
		Date:        civil.Date{Year: 2024, Month: time.Month(month + 1), Day: 1},
		Recurring:   true,
		InvoiceID:   fmt.Sprintf("%s_c1_2024_%d", prefix, month),
		ContractID:  "c1",
	}
}

func countKeys(t *testing.T, db *sql.DB, prefix string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE invoice_id LIKE $1`, prefix+"%").Scan(&n))

	return n
}

func TestStore_InsertBatch_SkipsRecordedKeys(t *testing.T) {
	ctx := context.Background()
	s, db, prefix := openPostgres(t)

	inserted, err := s.InsertBatch(ctx, []*transaction.Transaction{entry(prefix, 0), entry(prefix, 0), entry(prefix, 1)})
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	assert.NotEmpty(t, inserted[0].ID)
	assert.False(t, inserted[0].CreatedAt.IsZero())

	inserted, err = s.InsertBatch(ctx, []*transaction.Transaction{entry(prefix, 1), entry(prefix, 2)})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, prefix+"_c1_2024_2", inserted[0].InvoiceID)

	assert.Equal(t, 3, countKeys(t, db, prefix))

	got, err := s.GetTransaction(ctx, inserted[0].ID)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 1}, got.Date)
	assert.Equal(t, "1000", got.Amount.String())
	assert.True(t, got.Recurring)
}

func TestStore_InsertBatch_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s, db, prefix := openPostgres(t)

	bad := entry(prefix, 1)
	bad.Amount = decimal.Zero

	_, err := s.InsertBatch(ctx, []*transaction.Transaction{entry(prefix, 0), bad})
	require.Error(t, err)

	assert.Zero(t, countKeys(t, db, prefix))
}

func TestStore_InsertBatch_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s, db, prefix := openPostgres(t)

	var wg sync.WaitGroup

	for range 6 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			batch := make([]*transaction.Transaction, 0, 12)
			for m := range 12 {
				batch = append(batch, entry(prefix, m))
			}

			_, err := s.InsertBatch(ctx, batch)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	assert.Equal(t, 12, countKeys(t, db, prefix))
}
