package models

import "time"

// SystemMetrics is a JSON-friendly summary of the instrumentation counters.
type SystemMetrics struct {
	CacheHitRatio            float64        `json:"cache_hit_ratio"`
	CacheHits                uint64         `json:"cache_hits"`
	CacheMisses              uint64         `json:"cache_misses"`
	RequestsTotal            uint64         `json:"requests_total"`
	AverageRequestDurationMs float64        `json:"average_request_duration_ms"`
	DBQueryCount             uint64         `json:"db_query_count"`
	AverageDBQueryDurationMs float64        `json:"average_db_query_duration_ms"`
	ReportsGenerated         uint64         `json:"reports_generated"`
	ReportsFailed            uint64         `json:"reports_failed"`
	AverageReportDurationMs  float64        `json:"average_report_duration_ms"`
	StudentsClassified       map[string]int `json:"students_classified"`
	Goroutines               int            `json:"goroutines"`
	GeneratedAt              time.Time      `json:"generated_at"`
}
