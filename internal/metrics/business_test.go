package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric line
// matching the given name, partial label pattern, and value. Uses regex to
// handle extra OTel scope labels injected by the Prometheus exporter.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestBusinessMetrics_Record(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("Success_RecordOperation", func(t *testing.T) {
		bm.RecordOperation(ctx, "auth", "revoke", "success")
		bm.RecordOperation(ctx, "auth", "revoke", "error")
		bm.RecordOperation(ctx, "auth", "is_revoked", "success")
	})

	t.Run("Success_RecordDuration", func(t *testing.T) {
		bm.RecordDuration(ctx, "auth", "revoke", 50*time.Millisecond, "success")
		bm.RecordDuration(ctx, "auth", "is_revoked", 5*time.Millisecond, "success")
	})

	t.Run("Success_SetBlacklistEntries", func(t *testing.T) {
		bm.SetBlacklistEntries(ctx, 12)
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	// None of these should panic or record anything.
	noOpMetrics.RecordOperation(context.Background(), "auth", "revoke", "success")
	noOpMetrics.RecordDuration(context.Background(), "auth", "revoke", 100*time.Millisecond, "error")
	noOpMetrics.SetBlacklistEntries(context.Background(), 3)
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordOperation(ctx, "auth", "revoke", "success")
	bm.RecordOperation(ctx, "auth", "revoke", "success")
	bm.RecordOperation(ctx, "auth", "revoke", "error")
	bm.RecordOperation(ctx, "auth", "is_revoked", "success")

	bm.RecordDuration(ctx, "auth", "revoke", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "auth", "revoke", 60*time.Millisecond, "success")

	bm.SetBlacklistEntries(ctx, 42)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="auth".*operation="revoke".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="auth".*operation="revoke".*status="error"`,
		`1`,
	)
	assertMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="auth".*operation="revoke".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`integration_test_blacklist_entries`,
		``,
		`42`,
	)
}
