package core

import (
	"math"
	"testing"
	"time"
)

func TestStatisticsAverageIsIncrementalMean(t *testing.T) {
	s := NewStatistics()

	durations := []time.Duration{
		120 * time.Millisecond,
		340 * time.Millisecond,
		80 * time.Millisecond,
		500 * time.Millisecond,
	}

	sum := 0.0
	for _, d := range durations {
		s.RecordRequest()
		s.RecordSuccess(d)
		sum += d.Seconds()
	}

	want := sum / float64(len(durations))
	got := s.Snapshot().AverageResponseTime
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("average = %f, want %f", got, want)
	}
}

func TestStatisticsFailureDoesNotMoveAverage(t *testing.T) {
	s := NewStatistics()

	s.RecordRequest()
	s.RecordSuccess(200 * time.Millisecond)
	before := s.Snapshot().AverageResponseTime

	s.RecordRequest()
	s.RecordFailure()

	snap := s.Snapshot()
	if snap.AverageResponseTime != before {
		t.Errorf("average moved from %f to %f on failure", before, snap.AverageResponseTime)
	}
	if snap.FailedRequests != 1 {
		t.Errorf("failed = %d, want 1", snap.FailedRequests)
	}
	if snap.TotalRequests != 2 {
		t.Errorf("total = %d, want 2", snap.TotalRequests)
	}
	if snap.SuccessfulCategorizations != 1 {
		t.Errorf("successful = %d, want 1", snap.SuccessfulCategorizations)
	}
}

func TestStatisticsZeroValueSnapshot(t *testing.T) {
	s := NewStatistics()
	snap := s.Snapshot()

	if snap.TotalRequests != 0 || snap.SuccessfulCategorizations != 0 ||
		snap.FailedRequests != 0 || snap.AverageResponseTime != 0 {
		t.Errorf("fresh snapshot not zeroed: %+v", snap)
	}
}
