package waiter

import (
	"context"
	"time"

	aqm "github.com/appetiteclub/apt"
)

const (
	DefaultSweepInterval  = 10 * time.Minute
	DefaultSweepRetention = 24 * time.Hour
)

// Sweeper periodically purges resolved calls past the retention window so
// the queue collection stays bounded.
type Sweeper struct {
	service   *Service
	interval  time.Duration
	retention time.Duration
	logger    aqm.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewSweeper(service *Service, interval, retention time.Duration, logger aqm.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if retention <= 0 {
		retention = DefaultSweepRetention
	}
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Sweeper{
		service:   service,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx)

	s.logger.Info("waiter call sweeper started",
		"interval", s.interval.String(),
		"retention", s.retention.String(),
	)
	return nil
}

func (s *Sweeper) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

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
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.service.PurgeResolved(ctx, s.retention)
	if err != nil {
		s.logger.Error("waiter call sweep failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Debug("purged resolved waiter calls", "removed", removed)
	}
}
