package ledger_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/agency/internal/ledger"
)

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (s *countingSyncer) Sync(context.Context) (*ledger.Result, error) {
	s.calls.Add(1)

	if s.err != nil {
		return nil, s.err
	}

	return &ledger.Result{}, nil
}

func TestRunner_Disabled(t *testing.T) {
	s := &countingSyncer{}

	ledger.NewRunner(s, 0).Start(context.Background())
	assert.Zero(t, s.calls.Load())
}

func TestRunner_TicksUntilCancelled(t *testing.T) {
	s := &countingSyncer{err: errors.New("transient")}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		ledger.NewRunner(s, 5*time.Millisecond).Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
