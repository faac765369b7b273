package docstore_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/docstore"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

// openEmulator connects to the Firestore emulator named by
// FIRESTORE_EMULATOR_HOST, skipping the test when it is not running.
func openEmulator(t *testing.T) *docstore.Store {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	project := fmt.Sprintf("agency-test-%d", time.Now().UnixNano())

	s, err := docstore.Open(context.Background(), project, "")
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func recurringEntry(key string) *transaction.Transaction {
	return &transaction.Transaction{
		Description: "Retainer - 01/2024",
		Amount:      decimal.RequireFromString("1000.00"),
		Type:        transaction.TypeIncome,
		Date:        civil.Date{Year: 2024, Month: time.January, Day: 1},
		Recurring:   true,
		Category:    "Retainer",
		InvoiceID:   key,
		ContractID:  "c1",
	}
}

func TestStore_InsertBatch_ClaimsInvoiceIDs(t *testing.T) {
	ctx := context.Background()
	s := openEmulator(t)

	inserted, err := s.InsertBatch(ctx, []*transaction.Transaction{
		recurringEntry("contract_c1_2024_0"),
		recurringEntry("contract_c1_2024_0"),
	})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.NotEmpty(t, inserted[0].ID)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := s.InsertBatch(ctx, []*transaction.Transaction{
				recurringEntry("contract_c1_2024_0"),
				recurringEntry("contract_c1_2024_1"),
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := s.GetTransaction(ctx, inserted[0].ID)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 1}, got.Date)
	assert.Equal(t, "1000", got.Amount.String())
}

func TestStore_Contracts(t *testing.T) {
	ctx := context.Background()
	s := openEmulator(t)

	c := &contract.Contract{
		ClientID:  "client",
		Title:     "Retainer",
		Amount:    decimal.NewFromInt(500),
		Status:    contract.StatusActive,
		StartDate: civil.Date{Year: 2024, Month: time.March, Day: 31},
	}
	require.NoError(t, s.CreateContract(ctx, c))
	require.NotEmpty(t, c.ID)

	c.Status = contract.StatusPaused
	require.NoError(t, s.UpdateContract(ctx, c))

	got, err := s.GetContract(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusPaused, got.Status)
	assert.Equal(t, c.StartDate, got.StartDate)

	_, err = s.GetContract(ctx, "missing")
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestStore_InsertBatch_RejectsInvalidWithoutWriting(t *testing.T) {
	ctx := context.Background()
	s := openEmulator(t)

	bad := recurringEntry("contract_c9_2024_0")
	bad.Amount = decimal.Zero

	_, err := s.InsertBatch(ctx, []*transaction.Transaction{recurringEntry("contract_c9_2024_1"), bad})
	require.ErrorIs(t, err, transaction.ErrInvalidAmount)

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_InsertBatch_BacklogLargerThanOneTransaction(t *testing.T) {
	ctx := context.Background()
	s := openEmulator(t)

	backlog := make([]*transaction.Transaction, 0, 300)
	for i := range 300 {
		backlog = append(backlog, recurringEntry(fmt.Sprintf("contract_c%d_2024_0", i)))
	}

	inserted, err := s.InsertBatch(ctx, backlog)
	require.NoError(t, err)
	assert.Len(t, inserted, 300)

	again := make([]*transaction.Transaction, 0, 300)
	for i := range 300 {
		again = append(again, recurringEntry(fmt.Sprintf("contract_c%d_2024_0", i)))
	}

	inserted, err = s.InsertBatch(ctx, again)
	require.NoError(t, err)
	assert.Empty(t, inserted)

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 300)
}
