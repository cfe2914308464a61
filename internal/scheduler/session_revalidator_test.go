package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/session"
)

type countingRevalidator struct {
	calls atomic.Int32
	err   error
}

func (c *countingRevalidator) Revalidate(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func waitCalls(t *testing.T, c *countingRevalidator, want int32) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.calls.Load() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("calls = %d, want %d", c.calls.Load(), want)
}

func TestSessionRevalidator_Ticks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := clockwork.NewFakeClock()
	rev := &countingRevalidator{err: errors.New("backend down")}
	sr := NewSessionRevalidator(rev, clock, logger.New("error", false), time.Minute, nil)
	sr.Start(ctx)
	defer sr.Stop()

	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker not registered: %v", err)
	}
	if rev.calls.Load() != 0 {
		t.Fatal("Start must not revalidate immediately")
	}

	clock.Advance(time.Minute)
	waitCalls(t, rev, 1)
	clock.Advance(time.Minute)
	waitCalls(t, rev, 2)
}

func TestSessionRevalidator_ManualTrigger(t *testing.T) {
	trigger := make(chan struct{}, 1)
	rev := &countingRevalidator{err: session.ErrNoSession}
	sr := NewSessionRevalidator(rev, clockwork.NewFakeClock(), logger.NewNop(), 0, trigger)
	sr.Start(context.Background())

	trigger <- struct{}{}
	waitCalls(t, rev, 1)

	sr.Stop()
	sr.Stop()
}

func TestNewSessionRevalidator_DefaultInterval(t *testing.T) {
	sr := NewSessionRevalidator(&countingRevalidator{}, nil, logger.NewNop(), 0, nil)
	if sr.interval != DefaultRevalidateInterval {
		t.Errorf("interval = %v, want %v", sr.interval, DefaultRevalidateInterval)
	}
}
