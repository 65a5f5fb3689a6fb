package middleware

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics stores application counters
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsFailed     uint64
	ScansTotal         uint64
	ScansDegraded      uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementScans increments the scan counter
func IncrementScans() {
	atomic.AddUint64(&globalMetrics.ScansTotal, 1)
}

// IncrementScansDegraded counts scans that completed with the degraded result
func IncrementScansDegraded() {
	atomic.AddUint64(&globalMetrics.ScansDegraded, 1)
}

// CountRequests tracks request totals and in-flight count
func CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
		atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
		defer atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		if wrapped.statusCode >= 500 {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler exposes a JSON snapshot of the counters
func MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := map[string]any{
			"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
			"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
			"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
			"scans_total":          atomic.LoadUint64(&globalMetrics.ScansTotal),
			"scans_degraded":       atomic.LoadUint64(&globalMetrics.ScansDegraded),
			"uptime_seconds":       int64(time.Since(globalMetrics.StartTime).Seconds()),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot)
	}
}
