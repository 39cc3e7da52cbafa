package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ZanzyTHEbar/aeo-meter/internal/analysis"
	"github.com/ZanzyTHEbar/aeo-meter/internal/benchmarks"
	"github.com/ZanzyTHEbar/aeo-meter/internal/cache"
	"github.com/ZanzyTHEbar/aeo-meter/internal/document"
	"github.com/ZanzyTHEbar/aeo-meter/internal/enhance"
	"github.com/ZanzyTHEbar/aeo-meter/internal/errors"
	"github.com/ZanzyTHEbar/aeo-meter/internal/history"
	"github.com/ZanzyTHEbar/aeo-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/aeo-meter/internal/ratelimit"
	"github.com/ZanzyTHEbar/aeo-meter/internal/types"
)

// deps holds everything the router needs. Tests construct it with in-memory
// pieces instead of the full production wiring.
type deps struct {
	analyzer   *analysis.Analyzer
	benchmarks *benchmarks.Store
	history    history.Store
	reports    *cache.ReportStore
	respCache  *cache.Cache
	limiter    *ratelimit.RateLimiter
	metrics    *monitoring.Metrics
	logger     *monitoring.Logger
}

const analyzeTimeout = 30 * time.Second

func newRouter(d deps) *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}))

	r.Use(monitoring.MonitoringMiddleware(d.metrics, d.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	if d.limiter != nil {
		r.Use(d.limiter.IPRateLimitMiddleware())
		r.Use(d.limiter.AnalyzeRateLimitMiddleware())
	}
	if d.respCache != nil {
		r.Use(d.respCache.Middleware(d.metrics, d.logger))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"metrics":   d.metrics.GetStats(),
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		stats := d.metrics.GetStats()
		if d.limiter != nil {
			stats["rate_limiter"] = d.limiter.GetStats()
		}
		c.JSON(http.StatusOK, stats)
	})

	r.POST("/analyze", d.handleAnalyze)
	r.GET("/report/:id", d.handleReport)
	r.GET("/history", d.handleHistory)
	r.POST("/enhance", d.handleEnhance)
	r.GET("/benchmarks/:vertical", d.handleBenchmark)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (d deps) handleAnalyze(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), analyzeTimeout)
	defer cancel()

	var req types.AnalyzeRequest
	if err := c.BindJSON(&req); err != nil {
		appErr := errors.NewValidationError("invalid request body: " + err.Error())
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	if strings.TrimSpace(req.Markup) == "" {
		appErr := errors.NewValidationError("markup cannot be empty")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	start := time.Now()
	report, err := d.analyzer.Analyze(ctx, req.Markup, analysis.AnalysisOptions{
		BrandName:         req.BrandName,
		CompetitorAgeDays: req.CompetitorAgeDays,
		PageURL:           req.URL,
		Vertical:          req.Vertical,
	})
	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	d.metrics.IncrementAnalysis()
	d.logger.AnalysisLogger(report.ID, report.URL, report.Overall, len(req.Markup), time.Since(start), false)

	if d.reports != nil {
		d.reports.Put(report)
	}
	if d.history != nil && report.URL != "" {
		if err := d.history.Append(ctx, report); err != nil {
			d.logger.Warn("failed to record analysis history", "url", report.URL, "error", err)
		}
	}

	c.JSON(http.StatusOK, report)
}

// handleReport renders a retained report as markdown. Score history for the
// report's URL feeds the trend section when available.
func (d deps) handleReport(c *gin.Context) {
	id := c.Param("id")

	var report analysis.Report
	var found bool
	if d.reports != nil {
		report, found = d.reports.Get(id)
	}
	if !found {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "report not found",
			Message: "reports are retained for a limited time after analysis",
		})
		return
	}

	var points []analysis.HistoryPoint
	if d.history != nil && report.URL != "" {
		window, err := d.history.Window(c.Request.Context(), report.URL, 10)
		if err == nil {
			points = history.Points(window)
		}
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(analysis.Render(report, points)))
}

func (d deps) handleHistory(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		appErr := errors.NewValidationError("url query parameter is required")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	n := 10
	if raw := c.Query("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			n = parsed
		}
	}

	var window []history.StoredReport
	if d.history != nil {
		var err error
		window, err = d.history.Window(c.Request.Context(), url, n)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     url,
		"reports": window,
		"trend":   history.ComputeTrend(window),
	})
}

func (d deps) handleEnhance(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), analyzeTimeout)
	defer cancel()

	var req types.EnhanceRequest
	if err := c.BindJSON(&req); err != nil {
		appErr := errors.NewValidationError("invalid request body: " + err.Error())
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	if strings.TrimSpace(req.Markup) == "" {
		appErr := errors.NewValidationError("markup cannot be empty")
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	report, err := d.analyzer.Analyze(ctx, req.Markup, analysis.AnalysisOptions{
		BrandName: req.BrandName,
		PageURL:   req.URL,
	})
	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	enhanced, err := enhance.Enhance(req.Markup, report, enhance.Options{
		URL:       req.URL,
		BrandName: req.BrandName,
	})
	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, types.EnhanceResponse{
		Markup:   enhanced,
		Markdown: document.Parse(enhanced).Markdown(),
		Report:   report,
	})
}

func (d deps) handleBenchmark(c *gin.Context) {
	vertical := c.Param("vertical")

	baseline, err := d.benchmarks.Load(vertical)
	if err != nil {
		appErr := errors.ToAppError(err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, baseline)
}
