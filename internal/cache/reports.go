package cache

import (
	"sync"
	"time"

	"github.com/ZanzyTHEbar/aeo-meter/internal/analysis"
)

// ReportStore retains recent reports by ID so GET /report/:id can serve the
// markdown rendering without re-running the analysis.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]reportEntry
	ttl     time.Duration
}

type reportEntry struct {
	report    analysis.Report
	expiresAt time.Time
}

// NewReportStore creates a store with the given retention TTL.
func NewReportStore(ttl time.Duration) *ReportStore {
	s := &ReportStore{
		reports: make(map[string]reportEntry),
		ttl:     ttl,
	}
	go s.cleanup()
	return s
}

func (s *ReportStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for id, entry := range s.reports {
			if now.After(entry.expiresAt) {
				delete(s.reports, id)
			}
		}
		s.mu.Unlock()
	}
}

// Put stores a report under its ID.
func (s *ReportStore) Put(report analysis.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.ID] = reportEntry{
		report:    report,
		expiresAt: time.Now().Add(s.ttl),
	}
}

// Get returns the report for id if it is still retained.
func (s *ReportStore) Get(id string) (analysis.Report, bool) {
	s.mu.RLock()
	entry, exists := s.reports[id]
	s.mu.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		return analysis.Report{}, false
	}
	return entry.report, true
}
