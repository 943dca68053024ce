package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/cache"
	"github.com/BruksfildServices01/barberbook/internal/config"
	dbpkg "github.com/BruksfildServices01/barberbook/internal/db"
	"github.com/BruksfildServices01/barberbook/internal/geocoding"
	infraRepo "github.com/BruksfildServices01/barberbook/internal/infra/repository"
	"github.com/BruksfildServices01/barberbook/internal/logger"
	"github.com/BruksfildServices01/barberbook/internal/media"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/notify"
	"github.com/BruksfildServices01/barberbook/internal/reminder"
	"github.com/BruksfildServices01/barberbook/internal/routes"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

const shutdownTimeout = 15 * time.Second

func main() {

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFile, cfg.IsProduction())
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	timezone.DefaultTimezone = cfg.DefaultTimezone
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := dbpkg.NewDB(cfg)

	// --------------------------------------------------
	// Availability cache
	// --------------------------------------------------
	infra := routes.Infra{}

	rdb, err := cache.NewClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, availability cache disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		infra.Cache = cache.NewAvailabilityCache(rdb, cfg.CacheTTL)
		log.Info("availability cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	// --------------------------------------------------
	// Mail
	// --------------------------------------------------
	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.MailEnabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		log.Info("smtp mailer enabled", zap.String("host", cfg.SMTPHost))
	}
	notifier := notify.NewNotifier(mailer)
	infra.Notifier = notifier

	// --------------------------------------------------
	// Audit, geocoding, avatars
	// --------------------------------------------------
	dispatcher := audit.NewDispatcher(audit.New(db))
	infra.Audit = dispatcher

	infra.Geocoder = geocoding.NewClient(cfg.GeocodingURL, cfg.GeocodingTimeout)

	var store media.Store
	if cfg.StorageEnabled() {
		store = media.NewS3Store(media.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		log.Info("avatar storage enabled", zap.String("bucket", cfg.S3Bucket))
	}
	infra.Avatars = media.NewAvatars(store)

	// --------------------------------------------------
	// Reminders
	// --------------------------------------------------
	job := reminder.NewJob(infraRepo.NewBookingGormRepository(db), notifier, cfg.ReminderLead)
	scheduler, err := job.Start(cfg.ReminderSchedule)
	if err != nil {
		log.Fatal("invalid reminder schedule", zap.String("spec", cfg.ReminderSchedule), zap.Error(err))
	}

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware())

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		r.Use(middleware.NewMetrics(reg).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, infra)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	<-scheduler.Stop().Done()
	dispatcher.Close()
	notifier.Wait()

	log.Info("server stopped")
}
