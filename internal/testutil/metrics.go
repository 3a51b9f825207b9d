package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/preston-bernstein/cricket-insights-service/internal/metrics"
)

// NewTelemetryRecorder returns a recorder wired to a live Prometheus
// exporter along with its exposition handler. The meter provider shuts
// down when the test ends.
func NewTelemetryRecorder(t *testing.T) (*metrics.Recorder, http.Handler) {
	t.Helper()
	rec, handler, shutdown, err := metrics.Setup(context.Background(), metrics.TelemetryConfig{Enabled: true})
	if err != nil {
		t.Fatalf("metrics setup: %v", err)
	}
	t.Cleanup(func() { _ = shutdown(context.Background()) })
	return rec, handler
}
