package internal

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"workday-poller/internal/logging"
)

const CRON_SCHEDULE_PURGE = "30 2 * * *" // Daily at 02:30

const SNAPSHOT_RETENTION = 90 * 24 * time.Hour

// StartCron registers the poll cycle on the given cron schedule, plus a
// daily purge of snapshots past the retention window. Used by the server
// command and by `poll --schedule`.
func StartCron(schedule string, poller *Poller, repo SnapshotRepository, logger logging.Logger) (*cron.Cron, error) {
	c := cron.New()

	logger.Infof("Starting CRON job to poll Workday on schedule %q", schedule)

	if _, err := c.AddFunc(schedule, func() {
		poller.Cycle(context.Background())
	}); err != nil {
		return nil, err
	}

	if repo != nil {
		if _, err := c.AddFunc(CRON_SCHEDULE_PURGE, func() {
			purged, err := repo.Purge(time.Now().UTC().Add(-SNAPSHOT_RETENTION))
			if err != nil {
				logger.Errorf("Error purging snapshots: %v", err)
				return
			}
			logger.Infof("Purged %d snapshots older than %s", purged, SNAPSHOT_RETENTION)
		}); err != nil {
			return nil, err
		}
	}

	c.Start()
	return c, nil
}
