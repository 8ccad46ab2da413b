package service

import (
	"context"
	"errors"
	"time"
)

// Start launches the order generator and the minute tick. Both run until
// ctx is cancelled or Stop is called.
func (s *OrderStore) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStopped
	}
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(2)
	s.mu.Unlock()

	go s.generateLoop(ctx)
	go s.tickLoop(ctx)

	s.log.Info("order store started",
		"generate_min", s.minDelay,
		"generate_max", s.maxDelay,
		"tick", s.tick,
	)
	return nil
}

// Stop cancels the background tasks and waits for them to exit. After
// Stop returns no timer callback mutates the store; write operations that
// create orders return ErrStopped. Stop is idempotent.
func (s *OrderStore) Stop() {
	s.mu.Lock()
	already := s.closed
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	if !already {
		s.log.Info("order store stopped")
	}
}

// generateLoop re-arms a one-shot timer with a fresh random delay after
// every generation, so the cost of generating never shifts the schedule.
func (s *OrderStore) generateLoop(ctx context.Context) {
	defer s.wg.Done()

	timer := time.NewTimer(s.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			// A timer that fired while Stop was in flight must not generate.
			if ctx.Err() != nil {
				return
			}
			if _, err := s.GenerateOrder(); err != nil {
				if errors.Is(err, ErrStopped) {
					return
				}
				s.log.Warn("generate order", "error", err)
			}
			timer.Reset(s.nextDelay())
		}
	}
}

func (s *OrderStore) tickLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if n := s.Tick(); n > 0 {
				s.log.Debug("elapsed minute tick", "orders", n)
			}
		}
	}
}
