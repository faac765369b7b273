package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
	"github.com/MrJamesThe3rd/agency/internal/memstore"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// failingLedger reads from the wrapped store but refuses every write.
type failingLedger struct {
	*memstore.Store
}

func (failingLedger) InsertBatch(context.Context, []*transaction.Transaction) ([]*transaction.Transaction, error) {
	return nil, errors.New("store unavailable")
}

type countingLocker struct {
	locks, releases int
	err             error
}

func (l *countingLocker) Lock(context.Context, string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}

	l.locks++

	return func() { l.releases++ }, nil
}

func seedScenario(t *testing.T, s *memstore.Store) {
	t.Helper()

	ctx := context.Background()

	require.NoError(t, s.CreateContract(ctx, activeContract("c1", date(2024, time.January, 1), 1000)))
	require.NoError(t, s.CreateRecurringExpense(ctx, activeExpense("e1", date(2024, time.February, 1), 200)))
}

func TestMaterializer_Run_Scenario(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedScenario(t, s)

	m := ledger.NewMaterializer(s, s, s, ledger.WithClock(clockAt(time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC))))

	res, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 15), res.Today)
	assert.Equal(t, 5, res.Planned)
	require.Len(t, res.Inserted, 5)

	assert.Equal(t, []string{
		"contract_c1_2024_0",
		"contract_c1_2024_1",
		"contract_c1_2024_2",
		"expense_e1_2024_1",
		"expense_e1_2024_2",
	}, keys(res.Inserted))

	for _, tx := range res.Inserted {
		assert.NotEmpty(t, tx.ID)

		if tx.Type == transaction.TypeIncome {
			assert.Equal(t, "1000", tx.Amount.String())
		} else {
			assert.Equal(t, "200", tx.Amount.String())
		}
	}

	again, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Planned)
	assert.Empty(t, again.Inserted)

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestMaterializer_Run_OnlyAddsNewlyElapsedMonths(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedScenario(t, s)

	_, err := ledger.NewMaterializer(s, s, s,
		ledger.WithClock(clockAt(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))),
	).Run(ctx)
	require.NoError(t, err)

	res, err := ledger.NewMaterializer(s, s, s,
		ledger.WithClock(clockAt(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))),
	).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"contract_c1_2024_3", "expense_e1_2024_3"}, keys(res.Inserted))
}

func TestMaterializer_Run_PausedKeepsHistory(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedScenario(t, s)

	clock := ledger.WithClock(clockAt(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)))

	_, err := ledger.NewMaterializer(s, s, s, clock).Run(ctx)
	require.NoError(t, err)

	_, err = contract.NewService(s).SetStatus(ctx, "c1", contract.StatusPaused)
	require.NoError(t, err)

	later := ledger.WithClock(clockAt(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))

	res, err := ledger.NewMaterializer(s, s, s, later).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"expense_e1_2024_3", "expense_e1_2024_4", "expense_e1_2024_5"}, keys(res.Inserted))

	recurring := true

	all, err := s.ListTransactions(ctx, transaction.ListFilter{Recurring: &recurring})
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestMaterializer_Run_FailedWriteCommitsNothing(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedScenario(t, s)

	clock := ledger.WithClock(clockAt(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)))

	res, err := ledger.NewMaterializer(s, s, failingLedger{s}, clock).Run(ctx)
	require.ErrorContains(t, err, "store unavailable")
	assert.Nil(t, res)

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	res, err = ledger.NewMaterializer(s, s, s, clock).Run(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Inserted, 5)
}

func TestMaterializer_Run_UsesLocker(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedScenario(t, s)

	l := &countingLocker{}

	_, err := ledger.NewMaterializer(s, s, s, ledger.WithLocker(l)).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, l.locks)
	assert.Equal(t, 1, l.releases)

	busy := &countingLocker{err: errors.New("lock held")}

	_, err = ledger.NewMaterializer(s, s, s, ledger.WithLocker(busy)).Run(ctx)
	assert.ErrorContains(t, err, "acquiring ledger lock")
}

type brokenContracts struct{}

func (brokenContracts) ListContracts(context.Context, contract.ListFilter) ([]*contract.Contract, error) {
	return nil, errors.New("db down")
}

func TestMaterializer_Run_ReadErrorPropagates(t *testing.T) {
	s := memstore.New()

	_, err := ledger.NewMaterializer(brokenContracts{}, s, s).Run(context.Background())
	assert.ErrorContains(t, err, "listing contracts: db down")
}

func TestMaterializer_Run_IndependentOfLocalZone(t *testing.T) {
	start, err := calendar.ParseDate("2025-08-02")
	require.NoError(t, err)

	now := time.Date(2025, time.October, 1, 11, 0, 0, 0, time.UTC)

	run := func(loc *time.Location) []*transaction.Transaction {
		prev := time.Local
		time.Local = loc

		defer func() { time.Local = prev }()

		assert.Equal(t, time.Date(2025, time.August, 2, 0, 0, 0, 0, time.UTC), calendar.Midnight(start))

		s := memstore.New()
		require.NoError(t, s.CreateRecurringExpense(context.Background(), activeExpense("e", start, 10)))

		res, err := ledger.NewMaterializer(s, s, s, ledger.WithClock(clockAt(now.In(loc)))).Run(context.Background())
		require.NoError(t, err)

		return res.Inserted
	}

	west := run(time.FixedZone("UTC-12", -12*60*60))
	east := run(time.FixedZone("UTC+14", 14*60*60))

	assert.Equal(t, dates(west), dates(east))
	assert.Equal(t, keys(west), keys(east))
	assert.Equal(t, date(2025, time.August, 2), west[0].Date)
	assert.Len(t, west, 2)
}

func TestMaterializer_Run_SkipsMalformedWithoutFailing(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedScenario(t, s)

	broken := activeExpense("broken", date(2024, time.January, 1), 10)
	broken.StartDate.Month = 13
	require.NoError(t, s.CreateRecurringExpense(ctx, broken))

	res, err := ledger.NewMaterializer(s, s, s,
		ledger.WithClock(clockAt(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))),
	).Run(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Inserted, 5)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "broken", res.Skipped[0].ID)
}

func TestMaterializer_Run_LargeBacklog(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	for i := range 22 {
		require.NoError(t, s.CreateContract(ctx, activeContract(fmt.Sprintf("c%d", i), date(2024, time.January, 1), 100)))
	}

	m := ledger.NewMaterializer(s, s, s,
		ledger.WithClock(clockAt(time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC))),
	)

	res, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 22*12, res.Planned)
	assert.Len(t, res.Inserted, 22*12)

	res, err = m.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Planned)
}

// clockAdvancingLocker moves the clock forward while the caller waits for
// the lock.
type clockAdvancingLocker struct {
	now   *time.Time
	after time.Time
}

func (l clockAdvancingLocker) Lock(context.Context, string) (func(), error) {
	*l.now = l.after
	return func() {}, nil
}

func TestMaterializer_Run_ReadsClockAfterLock(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.CreateContract(ctx, activeContract("c1", date(2024, time.January, 1), 1000)))

	now := time.Date(2024, time.March, 31, 23, 59, 58, 0, time.UTC)
	locker := clockAdvancingLocker{now: &now, after: time.Date(2024, time.April, 1, 0, 0, 3, 0, time.UTC)}

	res, err := ledger.NewMaterializer(s, s, s,
		ledger.WithClock(func() time.Time { return now }),
		ledger.WithLocker(locker),
	).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.April, 1), res.Today)
	assert.Equal(t, []string{
		"contract_c1_2024_0", "contract_c1_2024_1", "contract_c1_2024_2", "contract_c1_2024_3",
	}, keys(res.Inserted))
}
