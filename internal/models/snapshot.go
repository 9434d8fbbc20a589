package models

import (
	"encoding/json"
	"time"
)

const (
	StatusSuccess     = "success"
	StatusTokenFailed = "token_failed"
	StatusFetchFailed = "fetch_failed"
)

// Snapshot is one archived poll cycle: the payload fetched from Workday
// (nil for failed cycles) plus its outcome and timing.
type Snapshot struct {
	Id        int64           `json:"id"`
	Status    string          `json:"status"`
	SizeBytes int             `json:"size_bytes"`
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type SnapshotListResponse struct {
	Snapshots []Snapshot `json:"snapshots"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

type PollStatistics struct {
	TotalCycles    int            `json:"total_cycles"`
	ByStatus       map[string]int `json:"by_status"`
	SuccessRate    float64        `json:"success_rate"`
	MinPayloadSize int            `json:"min_payload_size_bytes"`
	AvgPayloadSize float64        `json:"avg_payload_size_bytes"`
	MaxPayloadSize int            `json:"max_payload_size_bytes"`
	LastSuccess    *time.Time     `json:"last_success,omitempty"`
	LastSuccessAge string         `json:"last_success_age,omitempty"`
}
