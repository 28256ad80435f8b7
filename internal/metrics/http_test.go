package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("test_http")
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_http"))
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("Success_RecordsMatchedRoute", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		mw := httptest.NewRecorder()
		mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		provider.Handler().ServeHTTP(mw, mreq)

		output := mw.Body.String()
		assertMetricLine(t, output, `test_http_http_requests_total`, `method="GET".*path="/health".*status_code="200"`, `1`)
		assertMetricLine(t, output, `test_http_http_request_duration_seconds_count`, `path="/health"`, `1`)
	})

	t.Run("Success_UnmatchedRouteUsesUnknownPath", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusNotFound, w.Code)

		mw := httptest.NewRecorder()
		mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		provider.Handler().ServeHTTP(mw, mreq)

		assert.Contains(t, mw.Body.String(), `path="unknown"`)
	})
}
