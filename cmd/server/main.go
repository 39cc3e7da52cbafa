package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ZanzyTHEbar/aeo-meter/internal/analysis"
	"github.com/ZanzyTHEbar/aeo-meter/internal/benchmarks"
	"github.com/ZanzyTHEbar/aeo-meter/internal/cache"
	"github.com/ZanzyTHEbar/aeo-meter/internal/history"
	"github.com/ZanzyTHEbar/aeo-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/aeo-meter/internal/ratelimit"
	"github.com/ZanzyTHEbar/aeo-meter/internal/visibility"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	appLogger := monitoring.NewLogger(slog.LevelInfo)
	slog.SetDefault(appLogger.Logger)

	if err := analysis.ValidateWeights(); err != nil {
		slog.Error("invalid dimension weights", "error", err)
		os.Exit(1)
	}

	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	port := getEnvOrDefault("PORT", "8080")
	visibilityEndpoint := os.Getenv("VISIBILITY_API_URL")
	visibilityToken := os.Getenv("VISIBILITY_API_TOKEN")
	redisAddr := os.Getenv("REDIS_ADDR")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := getEnvIntOrDefault("REDIS_DB", 0)

	historyStore, err := history.NewSQLiteStore(dataDir)
	if err != nil {
		slog.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer historyStore.Close()

	benchmarkStore := benchmarks.NewStore(dataDir)

	appMetrics := monitoring.NewMetrics()

	// visibility.NewClient returns nil when no endpoint is configured; the
	// analyzer treats a nil checker as the feature being absent.
	var checker visibility.Checker
	if client := visibility.NewClient(visibilityEndpoint, visibilityToken); client != nil {
		checker = client.WithMonitoring(appMetrics, appLogger)
	}

	analyzer := analysis.NewAnalyzer(benchmarkStore, checker)

	redisClient, err := ratelimit.NewRedisClient(redisAddr, redisPassword, redisDB)
	if err != nil {
		slog.Warn("redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer redisClient.Close()

	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig(), appMetrics)

	router := newRouter(deps{
		analyzer:   analyzer,
		benchmarks: benchmarkStore,
		history:    historyStore,
		reports:    cache.NewReportStore(1 * time.Hour),
		respCache:  cache.NewCache(15 * time.Minute),
		limiter:    limiter,
		metrics:    appMetrics,
		logger:     appLogger,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		appLogger.SystemLogger("startup", "listening on port "+port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.SystemLogger("shutdown", "signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	appLogger.SystemLogger("shutdown", "server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
