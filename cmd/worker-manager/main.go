// cmd/worker-manager/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"loan-origination-workers/internal/common/aws"
	"loan-origination-workers/internal/common/camunda"
	"loan-origination-workers/internal/common/config"
	"loan-origination-workers/internal/common/database"
	"loan-origination-workers/internal/common/logger"
	"loan-origination-workers/internal/common/observability"
	"loan-origination-workers/internal/providers"
	"loan-origination-workers/internal/store"
	"loan-origination-workers/pkg/registry"

	// Application Workers (3)
	cla "loan-origination-workers/internal/workers/application/create-loan-application"
	qa "loan-origination-workers/internal/workers/application/query-applications"
	vad "loan-origination-workers/internal/workers/application/validate-application-data"

	// Document Workers (1)
	edd "loan-origination-workers/internal/workers/document/extract-document-data"

	// Verification Workers (2)
	df "loan-origination-workers/internal/workers/verification/detect-fraud"
	pkc "loan-origination-workers/internal/workers/verification/perform-kyc-checks"

	// Decision Workers (3)
	crs "loan-origination-workers/internal/workers/decision/calculate-risk-score"
	mld "loan-origination-workers/internal/workers/decision/make-loan-decision"
	od "loan-origination-workers/internal/workers/decision/override-decision"

	// Communication Workers (1)
	sdn "loan-origination-workers/internal/workers/communication/send-decision-notification"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Activity registry cross-check ---
	taskTypes := []string{
		cla.TaskType, vad.TaskType, qa.TaskType,
		edd.TaskType,
		pkc.TaskType, df.TaskType,
		crs.TaskType, mld.TaskType, od.TaskType,
		sdn.TaskType,
	}
	if reg, err := registry.LoadRegistry(cfg.Registry.Path); err != nil {
		zapLog.Warn("activity registry not loaded", zap.Error(err), zap.String("path", cfg.Registry.Path))
	} else if err := reg.CheckTaskTypes(taskTypes); err != nil {
		zapLog.Fatal("activity registry out of sync", zap.Error(err))
	} else {
		zapLog.Info("activity registry check passed", zap.String("version", reg.Version))
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := zeebe.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry (optional, audit trail only) ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Host != "" {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	} else {
		zapLog.Info("PostgreSQL not configured, audit trail disabled")
	}

	// --- Init Elasticsearch with retry (optional, decision search) ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.GetURL() != "" {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	} else {
		zapLog.Info("Elasticsearch not configured, decision search disabled")
	}

	// --- Init Redis with retry (optional, OCR cache + store backend) ---
	var redis *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Info("Redis not configured, OCR cache disabled")
	}

	// --- Application store ---
	var repo store.Repository
	switch cfg.Store.Backend {
	case "redis":
		if redis == nil {
			zapLog.Fatal("store.backend is redis but redis is not configured")
		}
		repo = store.NewRedisRepository(redis.Client)
		zapLog.Info("Using Redis application store")
	default:
		repo = store.NewMemoryRepository()
		zapLog.Info("Using in-memory application store")
	}

	// --- Notification senders (optional) ---
	var emailSender sdn.EmailSender
	var smsSender sdn.SmsSender
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("SES client init failed", zap.Error(err))
		}
		emailSender = sesClient
	}
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("SNS client init failed", zap.Error(err))
		}
		smsSender = snsClient
	}

	// --- Verification providers ---
	seed := time.Now().UnixNano()
	extractor := providers.NewMockExtractor(seed)
	tamper := providers.NewMockTamperDetector(seed)
	kycProvider := providers.NewMockKycProvider(seed)
	fraudDetector := providers.NewMockFraudDetector(seed)

	// --- START: Register ALL 10 Workers ---

	// --- 1. Application Workers (3) ---
	if config.IsWorkerEnabled(cfg, cla.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, cla.TaskType)
		handler := cla.NewHandler(
			&cla.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			repo, pgDB(pg), log,
		)
		startWorker(zeebeClient, obs, cla.TaskType, wcfg, handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, vad.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, vad.TaskType)
		handler := vad.NewHandler(
			&vad.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			log,
		)
		startWorker(zeebeClient, obs, vad.TaskType, wcfg, handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, qa.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, qa.TaskType)
		qaCfg := qa.LoadConfig()
		qaCfg.Timeout = config.GetDuration(wcfg.Timeout)
		qaCfg.SearchIndex = cfg.Database.Elasticsearch.Index
		handler := qa.NewHandler(qaCfg, repo, esRaw(esClient), log)
		startWorker(zeebeClient, obs, qa.TaskType, wcfg, handler.Handle, zapLog)
	}

	// --- 2. Document Workers (1) ---
	if config.IsWorkerEnabled(cfg, edd.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, edd.TaskType)
		eddCfg := edd.LoadConfig()
		eddCfg.Timeout = config.GetDuration(wcfg.Timeout)
		handler := edd.NewHandler(eddCfg, repo, extractor, tamper, redisRaw(redis), log)
		startWorker(zeebeClient, obs, edd.TaskType, wcfg, handler.Handle, zapLog)
	}

	// --- 3. Verification Workers (2) ---
	if config.IsWorkerEnabled(cfg, pkc.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, pkc.TaskType)
		handler := pkc.NewHandler(
			&pkc.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			repo, kycProvider, log,
		)
		startWorker(zeebeClient, obs, pkc.TaskType, wcfg, handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, df.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, df.TaskType)
		handler := df.NewHandler(
			&df.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			repo, fraudDetector, log,
		)
		startWorker(zeebeClient, obs, df.TaskType, wcfg, handler.Handle, zapLog)
	}

	// --- 4. Decision Workers (3) ---
	if config.IsWorkerEnabled(cfg, crs.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, crs.TaskType)
		handler := crs.NewHandler(
			&crs.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			repo, log,
		)
		startWorker(zeebeClient, obs, crs.TaskType, wcfg, handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, mld.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, mld.TaskType)
		mldCfg := mld.LoadConfig()
		mldCfg.Timeout = config.GetDuration(wcfg.Timeout)
		mldCfg.DecisionIndex = cfg.Database.Elasticsearch.Index
		handler := mld.NewHandler(mldCfg, repo, esRaw(esClient), log)
		startWorker(zeebeClient, obs, mld.TaskType, wcfg, handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, od.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, od.TaskType)
		handler := od.NewHandler(
			&od.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			repo, pgDB(pg), log,
		)
		startWorker(zeebeClient, obs, od.TaskType, wcfg, handler.Handle, zapLog)
	}

	// --- 5. Communication Workers (1) ---
	if config.IsWorkerEnabled(cfg, sdn.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, sdn.TaskType)
		sdnCfg := sdn.LoadConfig()
		sdnCfg.Timeout = config.GetDuration(wcfg.Timeout)
		if cfg.Notifications.Email.FromEmail != "" {
			sdnCfg.FromAddress = cfg.Notifications.Email.FromEmail
		}
		handler := sdn.NewHandler(sdnCfg, repo, emailSender, smsSender, log)
		startWorker(zeebeClient, obs, sdn.TaskType, wcfg, handler.Handle, zapLog)
	}

	zapLog.Info("All 10 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, obs *observability.Observability, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	observed := func(jobClient worker.JobClient, job entities.Job) {
		start := time.Now()
		handlerFunc(jobClient, job)
		obs.ObserveJob(context.Background(), taskType, time.Since(start))
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(observed).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}

// nil-safe accessors for optional infrastructure

func pgDB(pg *database.PostgresClient) *sql.DB {
	if pg == nil {
		return nil
	}
	return pg.DB
}

func esRaw(es *database.ElasticsearchClient) *elasticsearch.Client {
	if es == nil {
		return nil
	}
	return es.Client
}

func redisRaw(r *database.RedisClient) *goredis.Client {
	if r == nil {
		return nil
	}
	return r.Client
}
