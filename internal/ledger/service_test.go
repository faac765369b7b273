package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/agency/internal/ledger"
	"github.com/MrJamesThe3rd/agency/internal/memstore"
)

func TestService_Summary_SyncsFirst(t *testing.T) {
	s := memstore.New()
	seedScenario(t, s)

	svc := ledger.NewService(ledger.NewMaterializer(s, s, s,
		ledger.WithClock(clockAt(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))),
	))

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.False(t, sum.Stale)
	assert.Equal(t, "2600", sum.TotalBalance.String())
	assert.Equal(t, "1000", sum.Series[5].Income.String())
	assert.Equal(t, "200", sum.Series[5].Expense.String())
}

func TestService_Summary_StaleWhenSyncFails(t *testing.T) {
	s := memstore.New()
	seedScenario(t, s)

	svc := ledger.NewService(ledger.NewMaterializer(s, s, failingLedger{s},
		ledger.WithClock(clockAt(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))),
	))

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.True(t, sum.Stale)
	assert.True(t, sum.TotalBalance.IsZero())
	assert.Equal(t, "1000", sum.MonthlyRecurringRevenue.String())
}
