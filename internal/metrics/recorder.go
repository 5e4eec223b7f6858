package metrics

import "time"

// NavRecorder sinks navigation metrics into the Prometheus collectors.
// Implements usecase/navigate.Recorder.
type NavRecorder struct{}

// Compile records one compile attempt.
func (NavRecorder) Compile(zoom, tilt, status string, duration time.Duration, complexity int) {
	if zoom == "" {
		zoom = "unknown"
	}
	if tilt == "" {
		tilt = "unknown"
	}
	CompileRequestsTotal.WithLabelValues(zoom, tilt, status).Inc()
	if status == "ok" {
		CompileDuration.WithLabelValues(zoom).Observe(duration.Seconds())
		CompileComplexity.Observe(float64(complexity))
	}
}

// Execute records one descriptor execution.
func (NavRecorder) Execute(kind, status string, duration time.Duration) {
	ExecuteRequestsTotal.WithLabelValues(kind, status).Inc()
	if status == "ok" {
		ExecuteDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}
