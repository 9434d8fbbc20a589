package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workday-poller/internal/models"
)

func TestDerive(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	counts := map[string]int{
		models.StatusSuccess:     3,
		models.StatusTokenFailed: 1,
	}
	recent := []models.Snapshot{
		{Status: models.StatusSuccess, SizeBytes: 200, FetchedAt: now.Add(-1 * time.Hour)},
		{Status: models.StatusTokenFailed, FetchedAt: now.Add(-2 * time.Hour)},
		{Status: models.StatusSuccess, SizeBytes: 100, FetchedAt: now.Add(-3 * time.Hour)},
		{Status: models.StatusSuccess, SizeBytes: 150, FetchedAt: now.Add(-4 * time.Hour)},
	}

	stats := Derive(counts, recent, now)

	assert.Equal(t, 4, stats.TotalCycles)
	assert.Equal(t, 0.75, stats.SuccessRate)
	assert.Equal(t, 100, stats.MinPayloadSize)
	assert.Equal(t, 200, stats.MaxPayloadSize)
	assert.Equal(t, 150.0, stats.AvgPayloadSize)

	require.NotNil(t, stats.LastSuccess)
	assert.True(t, stats.LastSuccess.Equal(now.Add(-1*time.Hour)))
	assert.Equal(t, "1h0m0s", stats.LastSuccessAge)
}

func TestDeriveEmpty(t *testing.T) {
	stats := Derive(map[string]int{}, nil, time.Now())

	assert.Equal(t, 0, stats.TotalCycles)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.Nil(t, stats.LastSuccess)
}

func TestDeriveNoSuccesses(t *testing.T) {
	now := time.Now()
	counts := map[string]int{models.StatusFetchFailed: 2}
	recent := []models.Snapshot{
		{Status: models.StatusFetchFailed, FetchedAt: now},
		{Status: models.StatusFetchFailed, FetchedAt: now},
	}

	stats := Derive(counts, recent, now)

	assert.Equal(t, 2, stats.TotalCycles)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.Equal(t, 0, stats.MinPayloadSize)
	assert.Nil(t, stats.LastSuccess)
}
