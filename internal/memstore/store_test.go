package memstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/memstore"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

func entry(key string, day int) *transaction.Transaction {
	return &transaction.Transaction{
		Description: "Retainer",
		Amount:      decimal.NewFromInt(100),
		Type:        transaction.TypeIncome,
		Date:        civil.Date{Year: 2024, Month: time.March, Day: day},
		Recurring:   true,
		InvoiceID:   key,
	}
}

func TestStore_InsertBatch_SkipsKnownKeys(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	inserted, err := s.InsertBatch(ctx, []*transaction.Transaction{entry("k1", 1), entry("k2", 2), entry("k1", 3)})
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	assert.NotEmpty(t, inserted[0].ID)

	inserted, err = s.InsertBatch(ctx, []*transaction.Transaction{entry("k2", 2), entry("k3", 4)})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, "k3", inserted[0].InvoiceID)

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_InsertBatch_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	bad := entry("k2", 2)
	bad.Amount = decimal.Zero

	_, err := s.InsertBatch(ctx, []*transaction.Transaction{entry("k1", 1), bad})
	require.ErrorIs(t, err, transaction.ErrInvalidAmount)

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_InsertBatch_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			batch := make([]*transaction.Transaction, 0, 10)
			for i := range 10 {
				batch = append(batch, entry(fmt.Sprintf("k%d", i), i+1))
			}

			_, err := s.InsertBatch(ctx, batch)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestStore_DeleteTransaction(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	tx := &transaction.Transaction{
		Description: "Coffee",
		Amount:      decimal.NewFromInt(5),
		Type:        transaction.TypeExpense,
		Date:        civil.Date{Year: 2024, Month: time.March, Day: 1},
	}
	require.NoError(t, s.CreateTransaction(ctx, tx))

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
	assert.ErrorIs(t, s.DeleteTransaction(ctx, tx.ID), transaction.ErrNotFound)

	_, err := s.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_ListContracts_FilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	for _, c := range []*contract.Contract{
		{ID: "b", Status: contract.StatusActive, StartDate: civil.Date{Year: 2024, Month: time.May, Day: 1}},
		{ID: "a", Status: contract.StatusPaused, StartDate: civil.Date{Year: 2024, Month: time.January, Day: 1}},
		{ID: "c", Status: contract.StatusActive, StartDate: civil.Date{Year: 2024, Month: time.February, Day: 1}},
	} {
		require.NoError(t, s.CreateContract(ctx, c))
	}

	all, err := s.ListContracts(ctx, contract.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "c", "b"}, []string{all[0].ID, all[1].ID, all[2].ID})

	active := contract.StatusActive

	filtered, err := s.ListContracts(ctx, contract.ListFilter{Status: &active})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestStore_MatchCategory(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	require.NoError(t, s.CreateRule(ctx, "uber", "Transport"))
	require.NoError(t, s.CreateRule(ctx, "uber eats", "Meals"))

	got, err := s.MatchCategory(ctx, "COMPRA UBER EATS 123")
	require.NoError(t, err)
	assert.Equal(t, "Meals", got)

	got, err = s.MatchCategory(ctx, "UBER TRIP")
	require.NoError(t, err)
	assert.Equal(t, "Transport", got)

	got, err = s.MatchCategory(ctx, "Padaria")
	require.NoError(t, err)
	assert.Empty(t, got)
}
