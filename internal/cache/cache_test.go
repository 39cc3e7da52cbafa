package cache

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/aeo-meter/internal/analysis"
	"github.com/ZanzyTHEbar/aeo-meter/internal/monitoring"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(1 * time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("key", []byte("payload"))
	data, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, 1, c.Size())
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)
	c.Set("key", []byte("payload"))

	time.Sleep(30 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCacheClear(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func cacheTestRouter(c *Cache, metrics *monitoring.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	logger := monitoring.NewLogger(slog.LevelError)
	r.Use(c.Middleware(metrics, logger))

	calls := 0
	r.POST("/analyze", func(ctx *gin.Context) {
		calls++
		ctx.JSON(http.StatusOK, gin.H{"call": calls})
	})
	return r
}

func TestMiddlewareCachesIdenticalBodies(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()
	r := cacheTestRouter(c, metrics)

	body := `{"markup":"<p>same</p>"}`

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, second.Code)

	// Second response comes from the cache: identical body, one handler call.
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int64(1), metrics.CacheHits)
	assert.Equal(t, int64(1), metrics.CacheMisses)
}

func TestMiddlewareDistinguishesBodies(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()
	r := cacheTestRouter(c, metrics)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(`{"markup":"<p>a</p>"}`)))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(`{"markup":"<p>b</p>"}`)))

	assert.NotEqual(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int64(2), metrics.CacheMisses)
}

func TestMiddlewareIgnoresOtherRoutes(t *testing.T) {
	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	logger := monitoring.NewLogger(slog.LevelError)
	r.Use(c.Middleware(metrics, logger))
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, int64(0), metrics.CacheHits+metrics.CacheMisses)
	assert.Equal(t, 0, c.Size())
}

func TestReportStore(t *testing.T) {
	s := NewReportStore(time.Minute)

	_, found := s.Get("missing")
	assert.False(t, found)

	report := analysis.Report{ID: "r-1", URL: "https://example.com", Overall: 0.6}
	s.Put(report)

	got, found := s.Get("r-1")
	require.True(t, found)
	assert.Equal(t, report, got)
}

func TestReportStoreExpiry(t *testing.T) {
	s := NewReportStore(10 * time.Millisecond)
	s.Put(analysis.Report{ID: "r-1"})

	time.Sleep(30 * time.Millisecond)

	_, found := s.Get("r-1")
	assert.False(t, found)
}
