package worker

import (
	"context"
	"sync"
	"time"

	"github.com/campushq/campus-backend/pkg/logger"
)

// TrialExpirer flips expired trials to past_due and reports how many
// rows changed.
type TrialExpirer interface {
	ExpireTrials(ctx context.Context) (int64, error)
}

// Sweeper runs the trial-expiry sweep on a fixed interval in a
// background goroutine.
type Sweeper struct {
	subs     TrialExpirer
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewSweeper creates a Sweeper. A non-positive interval falls back to
// one hour.
func NewSweeper(subs TrialExpirer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		subs:     subs,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the background goroutine. One sweep runs immediately so
// a restart does not delay expiry by a full interval.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
	logger.GetLogger().Info().Dur("interval", s.interval).Msg("Trial sweeper started")
}

// Stop shuts the sweeper down and waits for an in-flight sweep
func (s *Sweeper) Stop() {
	close(s.stop)
	s.wg.Wait()
	logger.GetLogger().Info().Msg("Trial sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := s.subs.ExpireTrials(ctx)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("Trial sweep failed")
		return
	}
	if expired > 0 {
		logger.GetLogger().Info().Int64("expired", expired).Msg("Trials moved to past_due")
	}
}
