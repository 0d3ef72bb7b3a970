// file: internal/metrics/metrics.go
// version: 1.2.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	eventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vite_code_monitor",
		Name:      "events_total",
		Help:      "Total number of filesystem events by result (kept or excluded)",
	}, []string{"result"})
	settlesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vite_code_monitor",
		Name:      "settles_total",
		Help:      "Total number of activity episodes that settled",
	})
	dispatchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vite_code_monitor",
		Name:      "dispatch_failures_total",
		Help:      "Total number of settle notifications that failed to play",
	})
	episodeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vite_code_monitor",
		Name:      "episode_duration_seconds",
		Help:      "Histogram of activity episode durations (first kept event to settle)",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s up to about an hour
	})

	watchedDirsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vite_code_monitor",
		Name:      "watched_directories",
		Help:      "Current number of directories with an active watch",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(eventsTotal, settlesTotal, dispatchFailures,
			episodeDuration, watchedDirsGauge)
	})
}

// Event stream counters
func IncEventKept()        { eventsTotal.WithLabelValues("kept").Inc() }
func IncEventExcluded()    { eventsTotal.WithLabelValues("excluded").Inc() }
func IncSettle()           { settlesTotal.Inc() }
func IncDispatchFailure()  { dispatchFailures.Inc() }
func AddWatchedDirs(n int) { watchedDirsGauge.Add(float64(n)) }

func ObserveEpisodeDuration(d time.Duration) {
	episodeDuration.Observe(d.Seconds())
}
