package core

import (
	"sync"
	"time"
)

// Statistics tracks process-lifetime categorization counters. All updates go
// through the mutex; counters reset on restart and are never persisted.
type Statistics struct {
	mu         sync.Mutex
	total      int64
	successful int64
	failed     int64
	avgSeconds float64
}

// StatsSnapshot is a point-in-time copy of the counters
type StatsSnapshot struct {
	TotalRequests             int64   `json:"total_requests"`
	SuccessfulCategorizations int64   `json:"successful_categorizations"`
	FailedRequests            int64   `json:"failed_requests"`
	AverageResponseTime       float64 `json:"average_response_time"`
}

// NewStatistics creates a zeroed statistics ledger
func NewStatistics() *Statistics {
	return &Statistics{}
}

// RecordRequest counts an incoming categorization request
func (s *Statistics) RecordRequest() {
	s.mu.Lock()
	s.total++
	s.mu.Unlock()
}

// RecordSuccess counts a successful categorization and folds the elapsed
// time into the running average using the incremental-mean formula
func (s *Statistics) RecordSuccess(elapsed time.Duration) {
	s.mu.Lock()
	s.successful++
	s.avgSeconds += (elapsed.Seconds() - s.avgSeconds) / float64(s.successful)
	s.mu.Unlock()
}

// RecordFailure counts a failed categorization. The average response time is
// left untouched; only successes contribute to it.
func (s *Statistics) RecordFailure() {
	s.mu.Lock()
	s.failed++
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of the counters
func (s *Statistics) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		TotalRequests:             s.total,
		SuccessfulCategorizations: s.successful,
		FailedRequests:            s.failed,
		AverageResponseTime:       s.avgSeconds,
	}
}
