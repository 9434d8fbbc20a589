package internal

import (
	"context"
	"time"

	"workday-poller/internal/logging"
)

// Poller runs cycles on a fixed interval. The interval starts after a cycle
// finishes, so a slow cycle never overlaps the next one.
type Poller struct {
	client   WorkdayClient
	repo     SnapshotRepository
	logger   logging.Logger
	interval time.Duration
	wait     func(ctx context.Context, d time.Duration) error
}

func NewPoller(client WorkdayClient, repo SnapshotRepository, logger logging.Logger, interval time.Duration) *Poller {
	return &Poller{
		client:   client,
		repo:     repo,
		logger:   logger,
		interval: interval,
		wait:     sleepCtx,
	}
}

// Run loops until ctx is cancelled: cycle, sleep, repeat. Cancellation is
// honoured during the inter-cycle sleep and during retry backoffs inside a
// cycle, so a termination signal never requires waiting out a full interval.
func (p *Poller) Run(ctx context.Context) {
	for {
		p.Cycle(ctx)

		if err := p.wait(ctx, p.interval); err != nil {
			p.logger.Infof("Received signal to terminate. Exiting gracefully...")
			return
		}
	}
}

// Cycle runs one cycle, absorbing errors and panics so the loop cannot die.
func (p *Poller) Cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("Unexpected error: %v", r)
			CyclesTotal.WithLabelValues("panic").Inc()
		}
	}()

	// RunCycle has already logged any failure; the scheduler just moves on.
	_ = RunCycle(ctx, p.client, p.repo, p.logger)
}
