package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"workday-poller/internal"
)

// Poll runs the scheduler loop until SIGINT or SIGTERM. With an empty
// schedule it cycles on the fixed poll interval, the interval starting after
// each cycle completes; a cron expression switches to clock-based scheduling.
func Poll(configPath, schedule string) error {
	app, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller := internal.NewPoller(app.client, app.repo, app.logger, app.cfg.PollInterval())

	if schedule != "" {
		c, err := internal.StartCron(schedule, poller, app.repo, app.logger)
		if err != nil {
			return errors.Wrap(err, "failed to start CRON jobs")
		}

		<-ctx.Done()
		app.logger.Infof("Received signal to terminate. Exiting gracefully...")
		c.Stop()

		return nil
	}

	poller.Run(ctx)
	return nil
}
