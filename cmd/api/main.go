package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hashlife_backend/internal/adapters/storage"
	"hashlife_backend/internal/analytics"
	"hashlife_backend/internal/chat/handler"
	"hashlife_backend/internal/email"
	"hashlife_backend/internal/events"
	apphttp "hashlife_backend/internal/http"
	"hashlife_backend/internal/http/router"
	"hashlife_backend/internal/ops"
	"hashlife_backend/internal/scheduler"
	"hashlife_backend/internal/submission"
	"hashlife_backend/internal/submission/repository"
	"hashlife_backend/migrations"
	"hashlife_backend/platform/config"
	"hashlife_backend/platform/db"
	"hashlife_backend/platform/logger"
	"hashlife_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting intake api", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	pool := initDatabase(ctx, cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	val := validator.New()

	var sender email.Sender
	if smtpSender := email.NewSMTPSender(cfg); smtpSender != nil {
		sender = smtpSender
		log.Info("email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("SMTP not configured; email disabled")
	}

	archiver := initArchiver(ctx, cfg, log)

	followUpClient, closeScheduler := initFollowUpScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	chatModule := handler.NewModule(cfg, cfg.IsDevelopment(), eventBus, val, log)
	defer chatModule.Manager().Stop()

	var leadStore submission.Store
	var qualityCounter ops.QualityCounter
	if pool != nil {
		repo := repository.New(pool)
		leadStore = repo
		qualityCounter = repo
	}

	gateway := submission.NewGateway(leadStore, archiver, eventBus, log)
	gateway.Subscribe(eventBus)
	defer gateway.Wait()

	emitter := analytics.NewEmitter(log, buildCollectors(cfg, log)...)
	emitter.Subscribe(eventBus)
	defer emitter.Wait()

	notifier := email.NewNotifier(sender, cfg.GetOperatorEmail(), log)
	notifier.Subscribe(eventBus)

	if followUpClient != nil {
		followUp := scheduler.NewSubscriber(followUpClient, cfg.GetFollowUpDelay(), log)
		followUp.Subscribe(eventBus)
	}

	opsModule := ops.NewModule(eventBus, qualityCounter)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	var health apphttp.HealthChecker
	if pool != nil {
		health = pool
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			chatModule,
			opsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, draining in-flight work")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initDatabase migrates and connects when DATABASE_URL is set; the api runs
// without persistence otherwise.
func initDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) *pgxpool.Pool {
	if !cfg.IsDatabaseEnabled() {
		log.Warn("DATABASE_URL not configured; leads will not be persisted")
		return nil
	}

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")

	return pool
}

// initArchiver wires the MinIO transcript archive when configured.
func initArchiver(ctx context.Context, cfg *config.Config, log *logger.Logger) *submission.TranscriptArchiver {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MinIO not configured; transcript archival disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		return nil
	}

	bucket := cfg.GetMinioBucketTranscripts()
	if err := withRetry(ctx, log, "ensure transcripts bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure transcripts bucket", "error", err, "bucket", bucket)
		return nil
	}

	log.Info("storage service initialized", "transcriptsBucket", bucket)
	return submission.NewTranscriptArchiver(storageSvc, bucket)
}

func initFollowUpScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.FollowUpScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; lead follow-ups disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func buildCollectors(cfg *config.Config, log *logger.Logger) []analytics.Collector {
	var collectors []analytics.Collector

	if ga4 := analytics.NewGA4Collector(cfg); ga4 != nil {
		collectors = append(collectors, ga4)
		log.Info("ga4 collector enabled")
	}
	if cfg.GetAnalyticsDebugLog() || cfg.IsDevelopment() {
		collectors = append(collectors, analytics.NewDebugCollector(log))
	}

	return collectors
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
