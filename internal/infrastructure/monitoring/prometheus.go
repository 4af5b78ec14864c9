package monitoring

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// PrometheusHandler returns an http.Handler that serves Prometheus text format metrics.
// This avoids pulling in the full prometheus/client_golang dependency.
// Mount it at "/metrics" in your HTTP server.
func (m *Monitor) PrometheusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(m.metrics.StartTime).Seconds()

		// Write metrics in Prometheus exposition format
		lines := []struct {
			name string
			help string
			typ  string
			val  interface{}
		}{
			// Request counters
			{"echoquill_requests_total", "Total number of requests processed", "counter", atomic.LoadUint64(&m.metrics.RequestsTotal)},
			{"echoquill_requests_success_total", "Total successful requests", "counter", atomic.LoadUint64(&m.metrics.RequestsSuccess)},
			{"echoquill_requests_failed_total", "Total failed requests", "counter", atomic.LoadUint64(&m.metrics.RequestsFailed)},

			// Model counters
			{"echoquill_model_calls_total", "Total LLM model calls", "counter", atomic.LoadUint64(&m.metrics.ModelCallsTotal)},
			{"echoquill_model_calls_failed_total", "Total failed LLM model calls", "counter", atomic.LoadUint64(&m.metrics.ModelCallsFailed)},

			// Emotion classifier counters
			{"echoquill_emotion_calls_total", "Total emotion classifier calls", "counter", atomic.LoadUint64(&m.metrics.EmotionCallsTotal)},
			{"echoquill_emotion_calls_failed_total", "Total failed emotion classifier calls", "counter", atomic.LoadUint64(&m.metrics.EmotionCallsFailed)},

			// Journal pipeline
			{"echoquill_journals_generated_total", "Total journal entries generated", "counter", atomic.LoadUint64(&m.metrics.JournalsGenerated)},

			// Retention
			{"echoquill_messages_swept_total", "Total expired messages deleted by retention", "counter", atomic.LoadUint64(&m.metrics.MessagesSwept)},

			// Errors
			{"echoquill_errors_total", "Total errors encountered", "counter", atomic.LoadUint64(&m.metrics.ErrorsTotal)},

			// Gauges
			{"echoquill_uptime_seconds", "Process uptime in seconds", "gauge", uptime},

			// Runtime metrics
			{"echoquill_memory_alloc_bytes", "Current memory allocation in bytes", "gauge", memStats.Alloc},
			{"echoquill_memory_sys_bytes", "Total memory obtained from OS", "gauge", memStats.Sys},
			{"echoquill_goroutines", "Number of goroutines", "gauge", runtime.NumGoroutine()},
			{"echoquill_gc_pause_total_ns", "Total GC pause time in nanoseconds", "counter", memStats.PauseTotalNs},
			{"echoquill_gc_cycles_total", "Total number of completed GC cycles", "counter", memStats.NumGC},
		}

		for _, l := range lines {
			fmt.Fprintf(w, "# HELP %s %s\n", l.name, l.help)
			fmt.Fprintf(w, "# TYPE %s %s\n", l.name, l.typ)
			switch v := l.val.(type) {
			case uint64:
				fmt.Fprintf(w, "%s %d\n", l.name, v)
			case int64:
				fmt.Fprintf(w, "%s %d\n", l.name, v)
			case int:
				fmt.Fprintf(w, "%s %d\n", l.name, v)
			case float64:
				fmt.Fprintf(w, "%s %f\n", l.name, v)
			case uint32:
				fmt.Fprintf(w, "%s %d\n", l.name, v)
			}
			fmt.Fprintln(w)
		}

		// Latency summaries
		reqCount := atomic.LoadUint64(&m.metrics.RequestLatencyCount)
		if reqCount > 0 {
			avgMs := float64(atomic.LoadUint64(&m.metrics.RequestLatencySum)) / float64(reqCount) / 1e6
			fmt.Fprintf(w, "# HELP echoquill_request_latency_avg_ms Average request latency in milliseconds\n")
			fmt.Fprintf(w, "# TYPE echoquill_request_latency_avg_ms gauge\n")
			fmt.Fprintf(w, "echoquill_request_latency_avg_ms %f\n\n", avgMs)
		}

		modelCount := atomic.LoadUint64(&m.metrics.ModelLatencyCount)
		if modelCount > 0 {
			avgMs := float64(atomic.LoadUint64(&m.metrics.ModelLatencySum)) / float64(modelCount) / 1e6
			fmt.Fprintf(w, "# HELP echoquill_model_latency_avg_ms Average model call latency in milliseconds\n")
			fmt.Fprintf(w, "# TYPE echoquill_model_latency_avg_ms gauge\n")
			fmt.Fprintf(w, "echoquill_model_latency_avg_ms %f\n\n", avgMs)
		}
	})
}
