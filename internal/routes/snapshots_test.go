package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavsec/gin-healthcheck/checks"

	"workday-poller/internal"
	"workday-poller/internal/models"
)

type fakeRepo struct {
	latest    *models.Snapshot
	snapshots []models.Snapshot
	counts    map[string]int

	gotLimit  int
	gotOffset int
}

func (f *fakeRepo) Insert(models.Snapshot) error { return nil }

func (f *fakeRepo) Latest() (*models.Snapshot, error) { return f.latest, nil }

func (f *fakeRepo) List(limit, offset int) ([]models.Snapshot, error) {
	f.gotLimit = limit
	f.gotOffset = offset
	return f.snapshots, nil
}

func (f *fakeRepo) CountByStatus() (map[string]int, error) { return f.counts, nil }
func (f *fakeRepo) Purge(time.Time) (int64, error)         { return 0, nil }
func (f *fakeRepo) Check() checks.Check                    { return nil }
func (f *fakeRepo) Close() error                           { return nil }

func setupRouter(repo internal.SnapshotRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/v1/workday")
	v1.GET("/snapshots/latest", LatestSnapshot(repo))
	v1.GET("/snapshots", ListSnapshots(repo))
	v1.GET("/stats", Stats(repo))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestLatestSnapshot(t *testing.T) {
	t.Run("returns the latest payload", func(t *testing.T) {
		repo := &fakeRepo{
			latest: &models.Snapshot{
				Id:        42,
				Status:    models.StatusSuccess,
				SizeBytes: 16,
				FetchedAt: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
				Payload:   []byte(`{"employees":[]}`),
			},
		}

		w := get(setupRouter(repo), "/v1/workday/snapshots/latest")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"employees":[]`)
		assert.Contains(t, w.Body.String(), `"id":42`)
	})

	t.Run("404 when nothing has been archived", func(t *testing.T) {
		w := get(setupRouter(&fakeRepo{}), "/v1/workday/snapshots/latest")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListSnapshots(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		repo := &fakeRepo{snapshots: []models.Snapshot{{Id: 1, Status: models.StatusSuccess}}}

		w := get(setupRouter(repo), "/v1/workday/snapshots")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 20, repo.gotLimit)
		assert.Equal(t, 0, repo.gotOffset)
	})

	t.Run("honours limit and offset", func(t *testing.T) {
		repo := &fakeRepo{}

		w := get(setupRouter(repo), "/v1/workday/snapshots?limit=5&offset=10")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 5, repo.gotLimit)
		assert.Equal(t, 10, repo.gotOffset)
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		r := setupRouter(&fakeRepo{})

		assert.Equal(t, http.StatusBadRequest, get(r, "/v1/workday/snapshots?limit=abc").Code)
		assert.Equal(t, http.StatusBadRequest, get(r, "/v1/workday/snapshots?limit=0").Code)
		assert.Equal(t, http.StatusBadRequest, get(r, "/v1/workday/snapshots?limit=9999").Code)
		assert.Equal(t, http.StatusBadRequest, get(r, "/v1/workday/snapshots?offset=-1").Code)
	})
}

func TestStats(t *testing.T) {
	repo := &fakeRepo{
		counts: map[string]int{models.StatusSuccess: 2, models.StatusFetchFailed: 1},
		snapshots: []models.Snapshot{
			{Status: models.StatusSuccess, SizeBytes: 100, FetchedAt: time.Now().UTC()},
		},
	}

	w := get(setupRouter(repo), "/v1/workday/stats")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_cycles":3`)
	assert.Contains(t, w.Body.String(), `"success_rate":0.667`)
}
