package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goCSRF "github.com/MrEthical07/goCSRF"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeSource struct {
	snapshot goCSRF.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goCSRF.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                    { return f.dropped }

func TestCollectEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCSRF.MetricsSnapshot{
			Counters:   map[goCSRF.MetricID]uint64{},
			Histograms: map[goCSRF.MetricID][]uint64{},
		},
	})

	if got := testutil.CollectAndCount(exp); got != 0 {
		t.Fatalf("expected no metrics for disabled source, got %d", got)
	}
}

func TestCollectIncludesCountersHistogramAndDropped(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goCSRF.MetricsSnapshot{
			Counters: map[goCSRF.MetricID]uint64{
				goCSRF.MetricVerifyFailure: 7,
			},
			Histograms: map[goCSRF.MetricID][]uint64{
				goCSRF.MetricVerifyLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	// 8 counters + 1 histogram + audit dropped.
	if got := testutil.CollectAndCount(exp); got != 10 {
		t.Fatalf("expected 10 metrics, got %d", got)
	}
	if got := testutil.CollectAndCount(exp, "gocsrf_verify_failure_total"); got != 1 {
		t.Fatalf("expected verify failure counter, got %d", got)
	}

	expected := `
# HELP gocsrf_verify_failure_total Well-formed tokens that did not match their secret.
# TYPE gocsrf_verify_failure_total counter
gocsrf_verify_failure_total 7
# HELP gocsrf_audit_dropped_total Dropped audit events due to dispatcher backpressure.
# TYPE gocsrf_audit_dropped_total counter
gocsrf_audit_dropped_total 2
`
	if err := testutil.CollectAndCompare(exp, strings.NewReader(expected),
		"gocsrf_verify_failure_total", "gocsrf_audit_dropped_total"); err != nil {
		t.Fatalf("unexpected collected values: %v", err)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	tokens, err := goCSRF.NewBuilder().WithLatencyHistograms(true).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	secret, err := tokens.SecretSync()
	if err != nil {
		t.Fatalf("SecretSync failed: %v", err)
	}
	token, err := tokens.Create(secret)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !tokens.Verify(secret, token) {
		t.Fatal("expected token to verify")
	}

	exp := NewPrometheusExporter(tokens)
	rr := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		"gocsrf_token_created_total 1",
		"gocsrf_verify_success_total 1",
		"gocsrf_secret_generated_total 1",
		`gocsrf_verify_latency_seconds_bucket{le="+Inf"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %q in output, got:\n%s", want, body)
		}
	}
}
