package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kofalt/go-memoize"

	"workday-poller/internal"
	"workday-poller/internal/models"
	"workday-poller/internal/stats"
)

const MAX_PAGE_SIZE = 100

const STATS_WINDOW = 500 // Most recent snapshots considered for statistics

// LatestSnapshot serves the most recently archived successful payload.
// Responses are memoized briefly since the underlying data changes at most
// once per poll interval.
func LatestSnapshot(repo internal.SnapshotRepository) func(c *gin.Context) {
	cache := memoize.NewMemoizer(30*time.Second, 5*time.Minute)

	return func(c *gin.Context) {
		result, err, _ := cache.Memoize("latest", func() (any, error) {
			return repo.Latest()
		})
		if err != nil {
			log.Printf("error while fetching latest snapshot: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		snapshot, ok := result.(*models.Snapshot)
		if !ok || snapshot == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no successful snapshots available"})
			return
		}

		c.JSON(http.StatusOK, snapshot)
	}
}

// ListSnapshots serves paged snapshot history, metadata only.
func ListSnapshots(repo internal.SnapshotRepository) func(c *gin.Context) {
	return func(c *gin.Context) {
		limit, err := parseIntParam(c.Query("limit"), 20)
		if err != nil || limit < 1 || limit > MAX_PAGE_SIZE {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}

		offset, err := parseIntParam(c.Query("offset"), 0)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset parameter"})
			return
		}

		snapshots, err := repo.List(limit, offset)
		if err != nil {
			log.Printf("error while listing snapshots: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, models.SnapshotListResponse{
			Snapshots: snapshots,
			Limit:     limit,
			Offset:    offset,
		})
	}
}

// Stats serves aggregate poll statistics.
func Stats(repo internal.SnapshotRepository) func(c *gin.Context) {
	return func(c *gin.Context) {
		counts, err := repo.CountByStatus()
		if err != nil {
			log.Printf("error while counting snapshots: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		recent, err := repo.List(STATS_WINDOW, 0)
		if err != nil {
			log.Printf("error while listing snapshots: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, stats.Derive(counts, recent, time.Now().UTC()))
	}
}

func parseIntParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
