package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStage(t *testing.T) {
	start := time.Now().Add(-50 * time.Millisecond)

	d := ObserveStage("load_test", start)
	if d < 50*time.Millisecond {
		t.Errorf("ObserveStage() = %v, want >= 50ms", d)
	}
	if n := testutil.CollectAndCount(StageDuration, "gssdash_stage_duration_seconds"); n == 0 {
		t.Error("stage histogram has no series")
	}
}

func TestDegenerateArtifacts(t *testing.T) {
	DegenerateArtifacts.WithLabelValues("income_box").Inc()
	if got := testutil.ToFloat64(DegenerateArtifacts.WithLabelValues("income_box")); got < 1 {
		t.Errorf("counter = %v, want >= 1", got)
	}
}
