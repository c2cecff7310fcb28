package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servio/config"
	"servio/cron"
	"servio/database"
	bookingRepo "servio/database/repository/booking"
	commissionRepo "servio/database/repository/commission"
	providerRepo "servio/database/repository/provider"
	recordsRepo "servio/database/repository/records"
	transactionRepo "servio/database/repository/transaction"
	"servio/handlers"
	"servio/middleware"
	"servio/routes"
	"servio/services/booking"
	"servio/services/commission"
	"servio/services/notification"
	"servio/services/revenue"
	"servio/services/tier"
	"servio/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	if config.AppConfig.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET must be set")
	}
	utils.SetJWTSecret(config.AppConfig.JWTSecret)

	database.InitDB()
	cacheClient := utils.GetCacheClient()
	lockClient := utils.GetLockClient()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, 30*time.Second, []*redis.Client{cacheClient, lockClient}, database.MongoClient)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := utils.NewMetrics(registry)

	// repositories.
	db := database.DB()
	bookings, err := bookingRepo.NewMongoBookingRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: booking repository: %v", err)
	}
	providers, err := providerRepo.NewMongoProviderRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: provider repository: %v", err)
	}
	transactions, err := transactionRepo.NewMongoTransactionRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: transaction repository: %v", err)
	}
	audit, err := recordsRepo.NewMongoAuditRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: audit repository: %v", err)
	}
	notifications, err := recordsRepo.NewMongoNotificationRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: notification repository: %v", err)
	}
	mongoRates, err := commissionRepo.NewMongoCommissionRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: commission repository: %v", err)
	}
	cacheTTL := time.Duration(config.AppConfig.CommissionCacheTTL) * time.Second
	rates := commissionRepo.NewCachedCommissionRepo(mongoRates, cacheClient, cacheTTL, logger)

	// task queue.
	queue := asynq.NewClient(cron.RedisOpt())
	defer queue.Close()

	// services.
	evaluator := tier.NewEvaluator(bookings, transactions, providers, logger, metrics)
	migrator := tier.NewMigrationRunner(evaluator, providers, logger, metrics)

	table := commission.NewTable(rates, utils.NewRedisLocker(lockClient), logger)
	var gateway commission.PaymentGateway
	if key := config.AppConfig.StripeKey; key != "" {
		stripe.Key = key
		gateway = commission.NewStripeGateway(key, config.AppConfig.PlatformCurrency)
	} else {
		logger.Warn("main: STRIPE_KEY not set, card payments stay PENDING until settled manually")
	}
	pipeline := commission.NewPipeline(&commission.Calculator{Table: table}, transactions, evaluator, gateway, queue, logger, metrics)

	emails := notification.NewAsynqEmailService(queue, logger)
	sink := &notification.RepoSink{Repo: notifications}
	completions := commission.NewCompletionQueue(queue, pipeline, logger, metrics)
	lifecycle := booking.NewStateMachine(bookings, audit, emails, sink, completions, logger, metrics)

	reports := revenue.NewService(transactions, logger)

	// background jobs.
	stopWorker := cron.InitWorker(cron.Deps{
		Mailer:      notification.LogMailer{Logger: logger},
		Tiers:       evaluator,
		Migrator:    migrator,
		Bookings:    bookings,
		Completions: pipeline,
		Logger:      logger,
	})
	stopScheduler, err := cron.InitScheduler(config.AppConfig.TierMigrationCron, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(lifecycle),
		handlers.NewCommissionHandler(table),
		handlers.NewTransactionHandler(pipeline),
		handlers.NewRevenueHandler(reports),
		handlers.NewTierHandler(evaluator),
		handlers.NewAdminHandler(migrator),
		handlers.NewNotificationHandler(notifications),
	)
	routes.RegisterRoutes(router, handlerBundle, registry)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stopScheduler()
	stopWorker()
	stop()
	if err := database.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
