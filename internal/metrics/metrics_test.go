package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersAllMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := New(registry)

	m.UntisRequestsTotal.WithLabelValues("success").Inc()
	m.UntisDurationSeconds.Observe(0.3)
	m.ParseFailuresTotal.WithLabelValues("date").Inc()
	m.EntriesDeduped.Add(2)
	m.CacheHitsTotal.Inc()
	m.CacheMissesTotal.Inc()
	m.SingleflightDedupTotal.Inc()
	m.HTTPErrorsTotal.WithLabelValues("/api/v1/plan/:date", "404").Inc()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Fatal("no metric families registered")
	}

	if got := testutil.ToFloat64(m.UntisRequestsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("untis requests counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.EntriesDeduped); got != 2 {
		t.Errorf("deduped counter = %v, want 2", got)
	}
}

func TestNewIsSafeOnFreshRegistry(t *testing.T) {
	t.Parallel()

	// Two instances on separate registries must not collide.
	_ = New(prometheus.NewRegistry())
	_ = New(prometheus.NewRegistry())
}
