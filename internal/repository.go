package internal

import (
	"database/sql"
	_ "embed"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tavsec/gin-healthcheck/checks"

	"workday-poller/internal/models"
)

//go:embed sql/insert_snapshot.sql
var insertSnapshotSQL string

//go:embed sql/latest_snapshot.sql
var latestSnapshotSQL string

//go:embed sql/list_snapshots.sql
var listSnapshotsSQL string

//go:embed sql/count_by_status.sql
var countByStatusSQL string

//go:embed sql/purge_snapshots.sql
var purgeSnapshotsSQL string

type SnapshotRepository interface {
	Insert(snapshot models.Snapshot) error
	Latest() (*models.Snapshot, error)
	List(limit, offset int) ([]models.Snapshot, error)
	CountByStatus() (map[string]int, error)
	Purge(olderThan time.Time) (int64, error)
	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &sqliteRepository{
		db: db,
	}
}

func (repo *sqliteRepository) Insert(snapshot models.Snapshot) error {
	var payload any
	if snapshot.Payload != nil {
		payload = []byte(snapshot.Payload)
	}

	_, err := repo.db.Exec(insertSnapshotSQL, snapshot.Status, snapshot.SizeBytes, snapshot.FetchedAt, payload)
	if err != nil {
		return errors.Wrap(err, "failed to insert snapshot")
	}

	return nil
}

func (repo *sqliteRepository) Latest() (*models.Snapshot, error) {
	var snapshot models.Snapshot
	var payload []byte

	err := repo.db.QueryRow(latestSnapshotSQL).Scan(
		&snapshot.Id, &snapshot.Status, &snapshot.SizeBytes, &snapshot.FetchedAt, &payload,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query latest snapshot")
	}

	snapshot.Payload = payload
	return &snapshot, nil
}

func (repo *sqliteRepository) List(limit, offset int) ([]models.Snapshot, error) {
	rows, err := repo.db.Query(listSnapshotsSQL, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute list query")
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []models.Snapshot
	for rows.Next() {
		var snapshot models.Snapshot
		if err := rows.Scan(&snapshot.Id, &snapshot.Status, &snapshot.SizeBytes, &snapshot.FetchedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		results = append(results, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating over rows")
	}

	return results, nil
}

func (repo *sqliteRepository) CountByStatus() (map[string]int, error) {
	rows, err := repo.db.Query(countByStatusSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute count query")
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating over rows")
	}

	return counts, nil
}

func (repo *sqliteRepository) Purge(olderThan time.Time) (int64, error) {
	result, err := repo.db.Exec(purgeSnapshotsSQL, olderThan)
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge snapshots")
	}

	return result.RowsAffected()
}

func (repo *sqliteRepository) Check() checks.Check {
	return checks.SqlCheck{Sql: repo.db}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}
