// Package sweeper runs the background job that deactivates events whose
// end time has passed. It only flips isActive; records are never
// deleted, so the history stays queryable.
package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sweepTimeout = 30 * time.Second

// Deactivator is the single write the sweeper performs.
type Deactivator interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type Sweeper struct {
	repo     Deactivator
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	running sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(repo Deactivator, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		repo:     repo,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start launches the background loop. One sweep runs immediately so a
// restart catches up on events that expired while the server was down,
// then one per tick.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// sweep performs one pass. If the previous pass is still running the
// tick is skipped rather than queued. Errors are logged and swallowed;
// the next tick retries.
func (s *Sweeper) sweep(ctx context.Context) {
	if !s.running.TryLock() {
		s.logger.Warn("previous sweep still running, skipping tick")
		return
	}
	defer s.running.Unlock()

	sctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	count, err := s.repo.DeactivateExpired(sctx, s.now())
	if err != nil {
		s.logger.Error("event sweep failed", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("deactivated expired events", "count", count)
	}
}
