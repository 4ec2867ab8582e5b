package optimizer

import "github.com/prometheus/client_golang/prometheus"

// Metrics exports optimizer activity. A nil *Metrics records nothing.
type Metrics struct {
	shared           prometheus.Counter
	supersededCalls  prometheus.Counter
	prefetchedPages  prometheus.Counter
	prefetchFailures prometheus.Counter
	staleResults     prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		shared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query_optimizer",
			Name:      "deduplicated_results_total",
			Help:      "Results delivered to callers that shared an in-flight request",
		}),
		supersededCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query_optimizer",
			Name:      "debounce_superseded_total",
			Help:      "Debounced calls replaced by a newer call within the window",
		}),
		prefetchedPages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query_optimizer",
			Name:      "prefetched_pages_total",
			Help:      "Pages loaded ahead of an explicit request",
		}),
		prefetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query_optimizer",
			Name:      "prefetch_failures_total",
			Help:      "Background prefetch runs that failed",
		}),
		staleResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query_optimizer",
			Name:      "stale_results_total",
			Help:      "Expired results served because the fetch failed",
		}),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.shared, m.supersededCalls, m.prefetchedPages, m.prefetchFailures, m.staleResults} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) sharedResult() {
	if m != nil {
		m.shared.Inc()
	}
}

func (m *Metrics) superseded(n int) {
	if m != nil {
		m.supersededCalls.Add(float64(n))
	}
}

func (m *Metrics) prefetchedPage() {
	if m != nil {
		m.prefetchedPages.Inc()
	}
}

func (m *Metrics) prefetchFailed() {
	if m != nil {
		m.prefetchFailures.Inc()
	}
}

func (m *Metrics) staleServed() {
	if m != nil {
		m.staleResults.Inc()
	}
}
