package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"workday-poller/internal"
)

// Import runs exactly one poll cycle and exits; the exit status reflects the
// cycle outcome, which makes it usable from an external scheduler.
func Import(configPath string) error {
	app, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := internal.RunCycle(ctx, app.client, app.repo, app.logger); err != nil {
		return errors.Wrap(err, "poll cycle failed")
	}

	return nil
}
