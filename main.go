package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/rinkstats/internal/cache"
	"github.com/mauv0809/rinkstats/internal/config"
	"github.com/mauv0809/rinkstats/internal/dashboard"
	"github.com/mauv0809/rinkstats/internal/database"
	server "github.com/mauv0809/rinkstats/internal/http"
	"github.com/mauv0809/rinkstats/internal/journal"
	"github.com/mauv0809/rinkstats/internal/metrics"
	"github.com/mauv0809/rinkstats/internal/notifier"
	"github.com/mauv0809/rinkstats/internal/notifier/slack"
	"github.com/mauv0809/rinkstats/internal/pubsub"
	"github.com/mauv0809/rinkstats/internal/scheduler"
	"github.com/mauv0809/rinkstats/internal/sheet"
	"github.com/mauv0809/rinkstats/internal/syncer"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		db.Close()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var c cache.Cache = cache.NewMemoryCache()
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(cfg.Redis.URL, cfg.Redis.Prefix)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %s", err)
		}
		c = rc
	}
	defer c.Close()

	objects, err := sheet.NewS3Store(ctx, sheet.S3Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Endpoint:  cfg.S3.Endpoint,
	})
	if err != nil {
		log.Fatalf("Failed to initialize S3: %s", err)
	}
	store := sheet.NewStore(objects, c, metricsSvc, sheet.Options{
		Key:          cfg.S3.WorkbookKey,
		BackupPrefix: cfg.S3.BackupPrefix,
		Timeout:      cfg.S3.Timeout,
		CacheTTL:     cfg.Redis.CacheTTL,
	})

	var n notifier.Notifier = notifier.LogNotifier{}
	if cfg.Slack.Token != "" {
		n = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	}

	var ps pubsub.PubSubClient
	if cfg.ProjectID != "" {
		ps, err = pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	} else {
		// Without Pub/Sub, sync events go straight to the notifier.
		direct := pubsub.NewDirect()
		direct.Subscribe(pubsub.EventBatchSynced, func(data []byte) error {
			var msg pubsub.BatchSynced
			if err := direct.ProcessMessage(data, &msg); err != nil {
				return err
			}
			return n.SendSyncNotification(context.Background(), msg, false)
		})
		direct.Subscribe(pubsub.EventSyncFailed, func(data []byte) error {
			var msg pubsub.SyncFailed
			if err := direct.ProcessMessage(data, &msg); err != nil {
				return err
			}
			return n.SendSyncFailure(context.Background(), msg, false)
		})
		ps = direct
	}
	defer ps.Close()

	j := journal.New(db)
	sync := syncer.New(j, store, ps, metricsSvc)
	dash := dashboard.New(store, cfg.HomeTeam)

	sched, err := scheduler.NewScheduler(sync, cfg.SyncInterval)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %s", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %s", err)
	}

	s := server.NewServer(cfg, dash, sync, j, c, metricsSvc, metricsHandler, n, ps)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port, "workbook", cfg.S3.Bucket+"/"+cfg.S3.WorkbookKey)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	if err := sched.Stop(); err != nil {
		log.Error("Scheduler shutdown failed", "error", err)
	}
	log.Info("Server process shutting down")
}
