package stats

import (
	"math"
	"time"

	"workday-poller/internal/models"
)

// Derive computes poll statistics from the per-status counts and a window of
// recent snapshots (metadata only; payload bodies are not needed).
func Derive(countByStatus map[string]int, recent []models.Snapshot, now time.Time) *models.PollStatistics {
	stats := &models.PollStatistics{
		ByStatus: countByStatus,
	}

	for _, count := range countByStatus {
		stats.TotalCycles += count
	}
	if stats.TotalCycles > 0 {
		rate := float64(countByStatus[models.StatusSuccess]) / float64(stats.TotalCycles)
		stats.SuccessRate = math.Round(rate*1000) / 1000
	}

	sum := 0
	successes := 0
	for _, snapshot := range recent {
		if snapshot.Status != models.StatusSuccess {
			continue
		}

		if successes == 0 || snapshot.SizeBytes < stats.MinPayloadSize {
			stats.MinPayloadSize = snapshot.SizeBytes
		}
		if snapshot.SizeBytes > stats.MaxPayloadSize {
			stats.MaxPayloadSize = snapshot.SizeBytes
		}
		sum += snapshot.SizeBytes
		successes++

		// Snapshots arrive newest-first, so the first success is the latest.
		if stats.LastSuccess == nil {
			fetchedAt := snapshot.FetchedAt
			stats.LastSuccess = &fetchedAt
			stats.LastSuccessAge = now.Sub(fetchedAt).Round(time.Second).String()
		}
	}

	if successes > 0 {
		stats.AvgPayloadSize = math.Round(float64(sum)/float64(successes)*10) / 10
	}

	return stats
}
