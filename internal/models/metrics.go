package models

import "time"

// SystemMetrics is a lightweight aggregate of runtime counters exposed to
// admin dashboards.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	SyncAttempts             uint64    `json:"sync_attempts"`
	SyncFailures             uint64    `json:"sync_failures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
