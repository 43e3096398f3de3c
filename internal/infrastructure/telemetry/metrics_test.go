package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetrics() *Metrics {
	cfg := DefaultConfig()
	cfg.GoCollectors = false
	return New(cfg)
}

func TestMetrics_Counters(t *testing.T) {
	m := testMetrics()

	m.ObserveOrderLoad(LoadOK, 20*time.Millisecond)
	m.ObserveOrderLoad(LoadOK, 30*time.Millisecond)
	m.ObserveOrderLoad(LoadNotFound, time.Millisecond)
	m.ObserveSheet("pdf", time.Second)
	m.RenderFailed("")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.SheetArchived()
	m.ShareLinkBuilt()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.orderLoads.WithLabelValues(LoadOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderLoads.WithLabelValues(LoadNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sheets.WithLabelValues("pdf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renderFailures.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.archived))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shareLinks))
	assert.Equal(t, 1, testutil.CollectAndCount(m.loadDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOrderLoad(LoadFailed, 0)
		m.ObserveSheet("html", 0)
		m.RenderFailed("RENDER_TIMEOUT")
		m.CacheLookup(true)
		m.SheetArchived()
		m.ShareLinkBuilt()
	})
}

func TestMetrics_GinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := testMetrics()

	r := gin.New()
	r.Use(m.GinMiddleware("/metrics"))
	r.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/orders/1", "/orders/2", "/nope"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/orders/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInflight))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.True(t, strings.Contains(string(body), `prodsheet_http_requests_total{method="GET",route="/orders/:id",status="200"} 2`))
	assert.NotContains(t, string(body), `route="/metrics"`)
}
