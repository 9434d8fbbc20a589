package internal

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"workday-poller/internal/logging"
	"workday-poller/internal/models"
)

// RunCycle performs one token-acquire / fetch / log sequence. On success the
// payload is written to the log verbatim as a single INFO line and archived
// as a snapshot row; on failure the cycle is abandoned after the client has
// exhausted its retries. Archive failures are logged but never fail a cycle.
func RunCycle(ctx context.Context, client WorkdayClient, repo SnapshotRepository, logger logging.Logger) error {
	accessToken, err := client.AcquireAccessToken(ctx)
	if err != nil {
		logger.Errorf("Failed to obtain access token")
		CyclesTotal.WithLabelValues(models.StatusTokenFailed).Inc()
		archive(repo, logger, models.Snapshot{Status: models.StatusTokenFailed, FetchedAt: time.Now().UTC()})

		return err
	}

	data, err := client.FetchData(ctx, accessToken)
	if err != nil {
		logger.Errorf("No data fetched from Workday")
		CyclesTotal.WithLabelValues(models.StatusFetchFailed).Inc()
		archive(repo, logger, models.Snapshot{Status: models.StatusFetchFailed, FetchedAt: time.Now().UTC()})

		return err
	}

	line, err := compactJSON(data)
	if err != nil {
		logger.Errorf("Unexpected error: %v", err)
		return err
	}
	logger.Infof("%s", line)

	CyclesTotal.WithLabelValues(models.StatusSuccess).Inc()
	LastSuccessTimestamp.SetToCurrentTime()
	archive(repo, logger, models.Snapshot{
		Status:    models.StatusSuccess,
		SizeBytes: len(line),
		FetchedAt: time.Now().UTC(),
		Payload:   line,
	})

	return nil
}

func archive(repo SnapshotRepository, logger logging.Logger, snapshot models.Snapshot) {
	if repo == nil {
		return
	}
	if err := repo.Insert(snapshot); err != nil {
		logger.Errorf("Failed to archive snapshot: %v", err)
	}
}

// compactJSON re-encodes the payload so it always occupies exactly one log
// line, whatever whitespace the remote API emitted.
func compactJSON(data []byte) ([]byte, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, errors.Wrap(err, "failed to decode payload")
	}

	line, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-encode payload")
	}

	return line, nil
}
