package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	healthapp "mlop-ingest/application/health"
	filesapp "mlop-ingest/application/files"
	ingestapp "mlop-ingest/application/ingest"
	statusapp "mlop-ingest/application/status"
	stepapp "mlop-ingest/application/step"
	"mlop-ingest/internal/authdb"
	"mlop-ingest/internal/authn"
	"mlop-ingest/internal/columnstore"
	"mlop-ingest/internal/config"
	"mlop-ingest/internal/ingest"
	"mlop-ingest/internal/objectstore"
	"mlop-ingest/middleware"
)

const listenAddr = ":3003"

func main() {
	// A 128MB soft memory limit lets the Go runtime start GCing proactively
	// under sustained ingestion load instead of growing heap unbounded.
	debug.SetMemoryLimit(128 * 1024 * 1024)

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := NewLogger()
	defer logger.Sync()

	store, err := columnstore.Open(cfg.ClickHouseURL, cfg.ClickHouseUser, cfg.ClickHousePassword, logger)
	if err != nil {
		logger.Fatal("failed to connect to ClickHouse", zap.Error(err))
	}
	defer store.Close()

	authDB, err := authdb.Open(cfg.DatabaseDirectURL)
	if err != nil {
		logger.Fatal("failed to connect to auth database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presigner, err := objectstore.New(ctx, cfg.StorageEndpoint, cfg.StorageAccessKeyID, cfg.StorageSecretAccessKey, cfg.StorageBucket)
	if err != nil {
		logger.Fatal("failed to build object store presigner", zap.Error(err))
	}

	const channelCapacity = 1000
	metricsCh := make(chan ingest.MetricRow, channelCapacity)
	logsCh := make(chan ingest.LogRow, channelCapacity)
	dataCh := make(chan ingest.DataRow, channelCapacity)
	filesCh := make(chan ingest.FilesRow, channelCapacity)

	flush := config.DefaultFlush()
	batcherCfg := ingest.BatcherConfig{BatchSize: flush.BatchSize, FlushInterval: time.Duration(flush.FlushInterval) * time.Second}

	metricsBatcher := ingest.NewBatcher[ingest.MetricRow](config.MetricsTable, batcherCfg, store, logger, cfg.SkipUpload, metricsCh)
	logsBatcher := ingest.NewBatcher[ingest.LogRow](config.LogsTable, batcherCfg, store, logger, cfg.SkipUpload, logsCh)
	dataBatcher := ingest.NewBatcher[ingest.DataRow](config.DataTable, batcherCfg, store, logger, cfg.SkipUpload, dataCh)
	filesBatcher := ingest.NewBatcher[ingest.FilesRow](config.FilesTable, batcherCfg, store, logger, cfg.SkipUpload, filesCh)

	go metricsBatcher.Run(ctx)
	go logsBatcher.Run(ctx)
	go dataBatcher.Run(ctx)
	go filesBatcher.Run(ctx)

	var inFlight sync.WaitGroup
	r := setupRouter(logger, authDB, store, presigner, ingestapp.Channels{
		Metrics: metricsCh,
		Logs:    logsCh,
		Data:    dataCh,
	}, filesCh, &inFlight)

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  55 * time.Second,
		WriteTimeout: 55 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	resourceMonitorDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)
				logger.Debug("resource monitor",
					zap.Uint64("alloc_mb", m.Alloc/(1024*1024)),
					zap.Uint64("sys_mb", m.Sys/(1024*1024)),
					zap.Uint32("gc_count", m.NumGC),
					zap.Int("goroutines", runtime.NumGoroutine()))
			case <-resourceMonitorDone:
				return
			}
		}
	}()

	// Listen on both IPv4 and IPv6, matching the original service's dual-stack bind.
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		logger.Fatal("failed to bind listener", zap.Error(err))
	}

	go func() {
		logger.Info("gateway listening", zap.String("addr", listenAddr))
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown signal received, draining")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown of HTTP server timed out", zap.Error(err))
	}

	inFlight.Wait()
	close(resourceMonitorDone)

	close(metricsCh)
	close(logsCh)
	close(dataCh)
	close(filesCh)

	<-metricsBatcher.Done()
	<-logsBatcher.Done()
	<-dataBatcher.Done()
	<-filesBatcher.Done()

	logger.Info("shutdown complete")
}

// trackInFlight lets main wait for in-progress handlers (which may still be
// streaming an NDJSON body) to finish before it closes the row channels.
func trackInFlight(wg *sync.WaitGroup) gin.HandlerFunc {
	return func(c *gin.Context) {
		wg.Add(1)
		defer wg.Done()
		c.Next()
	}
}

func NewLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

func setupRouter(logger *zap.Logger, authDB *authdb.DB, store *columnstore.Store, presigner *objectstore.Presigner, chans ingestapp.Channels, filesCh chan ingest.FilesRow, inFlight *sync.WaitGroup) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(trackInFlight(inFlight))
	r.Use(middleware.RequestInit())
	r.Use(middleware.ResponseInit(logger))

	healthHandler := healthapp.NewHandler(healthapp.NewService(authDB, store))
	healthHandler.RegisterRoutes(r)

	authed := r.Group("")
	authed.Use(authn.Middleware(authDB))

	ingestapp.RegisterRoutes(authed, chans)
	filesapp.NewHandler(presigner, filesCh).RegisterRoutes(authed)
	stepapp.NewHandler(store).RegisterRoutes(authed)
	statusapp.NewHandler().RegisterRoutes(authed)

	return r
}
