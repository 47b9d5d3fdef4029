package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeDeactivator struct {
	calls   atomic.Int64
	err     error
	block   chan struct{}
	lastNow struct {
		sync.Mutex
		t time.Time
	}
}

func (f *fakeDeactivator) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	f.calls.Add(1)
	f.lastNow.Lock()
	f.lastNow.t = now
	f.lastNow.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweeperRunsImmediatelyAndPerTick(t *testing.T) {
	fake := &fakeDeactivator{}
	s := New(fake, 20*time.Millisecond, testLogger())

	s.Start()
	defer s.Stop()

	// The startup sweep runs before the first tick.
	deadline := time.After(time.Second)
	for fake.calls.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("startup sweep never ran")
		case <-time.After(time.Millisecond):
		}
	}

	for fake.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected ticks to keep sweeping, got %d calls", fake.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestSweeperStopsCleanly(t *testing.T) {
	fake := &fakeDeactivator{}
	s := New(fake, 10*time.Millisecond, testLogger())

	s.Start()
	time.Sleep(35 * time.Millisecond)
	s.Stop()

	settled := fake.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if fake.calls.Load() != settled {
		t.Errorf("sweeps continued after Stop: %d -> %d", settled, fake.calls.Load())
	}
}

func TestSweeperSurvivesErrors(t *testing.T) {
	fake := &fakeDeactivator{err: errors.New("connection reset")}
	s := New(fake, 10*time.Millisecond, testLogger())

	s.Start()
	defer s.Stop()

	deadline := time.After(time.Second)
	for fake.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("sweeper gave up after an error, got %d calls", fake.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestSweeperSkipsOverlappingTicks(t *testing.T) {
	fake := &fakeDeactivator{block: make(chan struct{})}
	s := New(fake, 10*time.Millisecond, testLogger())

	s.Start()

	// While the first sweep is blocked, ticks must skip rather than
	// queue behind it.
	time.Sleep(60 * time.Millisecond)
	if got := fake.calls.Load(); got != 1 {
		t.Errorf("expected 1 in-flight sweep while blocked, got %d", got)
	}

	close(fake.block)
	s.Stop()
}

func TestSweeperDefaultsInterval(t *testing.T) {
	s := New(&fakeDeactivator{}, 0, testLogger())
	if s.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", s.interval)
	}
}
