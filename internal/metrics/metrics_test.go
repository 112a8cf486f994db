package metrics

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWriteTextOnlyOwnFamilies(t *testing.T) {
	RecommendationsTotal.WithLabelValues("success").Inc()

	var buf bytes.Buffer
	if err := WriteText(&buf, nil); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "unirecommender_recommendations_total") {
		t.Fatalf("expected recommendations counter in output:\n%s", out)
	}
	if strings.Contains(out, "go_goroutines") {
		t.Fatalf("runtime collectors must be filtered out:\n%s", out)
	}
}

func TestGatewayCounter(t *testing.T) {
	before := testutil.ToFloat64(GatewayRequests.WithLabelValues("unavailable"))
	GatewayRequests.WithLabelValues("unavailable").Inc()
	after := testutil.ToFloat64(GatewayRequests.WithLabelValues("unavailable"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	if StatusLabel(nil) != "ok" {
		t.Fatalf("nil error should map to ok")
	}
	if StatusLabel(errors.New("boom")) != "error" {
		t.Fatalf("non-nil error should map to error")
	}
}
