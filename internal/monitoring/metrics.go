package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds service counters exposed on the /metrics endpoint.
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	AnalysisCount       int64
	CacheHits           int64
	CacheMisses         int64
	VisibilityAPICalls  int64
	VisibilityAPIErrors int64
	RateLimitBlocks     int64
	RateLimitFallbacks  int64
	StartTime           time.Time

	// Last N response times for percentile reporting.
	responseTimes []time.Duration
	responseMu    sync.RWMutex

	requestsByStatus map[int]int64
	statusMu         sync.RWMutex
}

const responseTimeSamples = 1000

// NewMetrics creates a metrics instance anchored at now.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:        time.Now(),
		responseTimes:    make([]time.Duration, 0, responseTimeSamples),
		requestsByStatus: make(map[int]int64),
	}
}

func (m *Metrics) IncrementRequest()  { atomic.AddInt64(&m.RequestCount, 1) }
func (m *Metrics) IncrementError()    { atomic.AddInt64(&m.ErrorCount, 1) }
func (m *Metrics) IncrementAnalysis() { atomic.AddInt64(&m.AnalysisCount, 1) }

// IncrementCacheHit increments cache hit count.
func (m *Metrics) IncrementCacheHit() { atomic.AddInt64(&m.CacheHits, 1) }

// IncrementCacheMiss increments cache miss count.
func (m *Metrics) IncrementCacheMiss() { atomic.AddInt64(&m.CacheMisses, 1) }

// RecordVisibilityCall records one call to the visibility collaborator.
func (m *Metrics) RecordVisibilityCall(success bool) {
	atomic.AddInt64(&m.VisibilityAPICalls, 1)
	if !success {
		atomic.AddInt64(&m.VisibilityAPIErrors, 1)
	}
}

// IncrementRateLimitBlock records one rejected request.
func (m *Metrics) IncrementRateLimitBlock() { atomic.AddInt64(&m.RateLimitBlocks, 1) }

// IncrementRateLimitFallback records one check served by the in-memory limiter.
func (m *Metrics) IncrementRateLimitFallback() { atomic.AddInt64(&m.RateLimitFallbacks, 1) }

// RecordResponseTime keeps the last responseTimeSamples durations.
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.responseMu.Lock()
	m.responseTimes = append(m.responseTimes, duration)
	if len(m.responseTimes) > responseTimeSamples {
		m.responseTimes = m.responseTimes[1:]
	}
	m.responseMu.Unlock()
}

// RecordRequestByStatus records request count by HTTP status code.
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	m.requestsByStatus[statusCode]++
}

// PercentileResponseTime returns the given percentile over the retained window.
func (m *Metrics) PercentileResponseTime(percentile float64) time.Duration {
	m.responseMu.RLock()
	defer m.responseMu.RUnlock()

	if len(m.responseTimes) == 0 {
		return 0
	}

	times := make([]time.Duration, len(m.responseTimes))
	copy(times, m.responseTimes)
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// StatusCodeDistribution returns a copy of request counts per status code.
func (m *Metrics) StatusCodeDistribution() map[int]int64 {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()

	distribution := make(map[int]int64, len(m.requestsByStatus))
	for code, count := range m.requestsByStatus {
		distribution[code] = count
	}
	return distribution
}

// GetStats returns the current metrics snapshot for the /metrics endpoint.
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	analyses := atomic.LoadInt64(&m.AnalysisCount)
	cacheHits := atomic.LoadInt64(&m.CacheHits)
	cacheMisses := atomic.LoadInt64(&m.CacheMisses)
	visCalls := atomic.LoadInt64(&m.VisibilityAPICalls)
	visErrors := atomic.LoadInt64(&m.VisibilityAPIErrors)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	cacheHitRate := float64(0)
	if total := cacheHits + cacheMisses; total > 0 {
		cacheHitRate = float64(cacheHits) / float64(total) * 100
	}

	return map[string]interface{}{
		"uptime_seconds":           time.Since(m.StartTime).Seconds(),
		"total_requests":           requests,
		"error_count":              errors,
		"error_rate_percent":       errorRate,
		"analyses_completed":       analyses,
		"cache_hits":               cacheHits,
		"cache_misses":             cacheMisses,
		"cache_hit_rate_percent":   cacheHitRate,
		"visibility_api_calls":     visCalls,
		"visibility_api_errors":    visErrors,
		"rate_limit_blocks":        atomic.LoadInt64(&m.RateLimitBlocks),
		"rate_limit_fallbacks":     atomic.LoadInt64(&m.RateLimitFallbacks),
		"p50_response_time_ms":     float64(m.PercentileResponseTime(50)) / 1e6,
		"p95_response_time_ms":     float64(m.PercentileResponseTime(95)) / 1e6,
		"p99_response_time_ms":     float64(m.PercentileResponseTime(99)) / 1e6,
		"status_code_distribution": m.StatusCodeDistribution(),
		"start_time":               m.StartTime.Format(time.RFC3339),
	}
}

// Reset clears all counters. Used by tests.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.RequestCount, 0)
	atomic.StoreInt64(&m.ErrorCount, 0)
	atomic.StoreInt64(&m.AnalysisCount, 0)
	atomic.StoreInt64(&m.CacheHits, 0)
	atomic.StoreInt64(&m.CacheMisses, 0)
	atomic.StoreInt64(&m.VisibilityAPICalls, 0)
	atomic.StoreInt64(&m.VisibilityAPIErrors, 0)
	atomic.StoreInt64(&m.RateLimitBlocks, 0)
	atomic.StoreInt64(&m.RateLimitFallbacks, 0)

	m.responseMu.Lock()
	m.responseTimes = m.responseTimes[:0]
	m.responseMu.Unlock()

	m.statusMu.Lock()
	m.requestsByStatus = make(map[int]int64)
	m.statusMu.Unlock()

	m.StartTime = time.Now()
}
