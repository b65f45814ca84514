package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/complyhub/complyhub/internal/app"
	"github.com/complyhub/complyhub/internal/assist"
	"github.com/complyhub/complyhub/internal/auth"
	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/billing"
	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/catalog"
	"github.com/complyhub/complyhub/internal/compliance/manufacturers"
	"github.com/complyhub/complyhub/internal/compliance/products"
	"github.com/complyhub/complyhub/internal/compliance/questions"
	"github.com/complyhub/complyhub/internal/compliance/reference"
	"github.com/complyhub/complyhub/internal/compliance/techfiles"
	"github.com/complyhub/complyhub/internal/identity"
	"github.com/complyhub/complyhub/internal/observability"
	platformcache "github.com/complyhub/complyhub/internal/platform/cache"
	"github.com/complyhub/complyhub/internal/platform/db"
	"github.com/complyhub/complyhub/internal/representative"
	"github.com/complyhub/complyhub/internal/shared"
	"github.com/complyhub/complyhub/internal/users"
	"github.com/complyhub/complyhub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := platformcache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "complyhub_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	store := cache.New(cfg.CacheTTL)
	auditLogger := shared.NewAuditLogger(pool, logger)

	accessor := identity.NewSessionAccessor(identity.NewRepository(pool))
	resolver := authz.NewResolver(authz.NewRepository(pool), logger)
	gate := authz.Middleware{Accessor: accessor, Resolver: resolver, Logger: logger}

	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	usersService := users.NewService(users.NewRepository(pool))
	usersHandler := users.NewHandler(logger, usersService)

	catalogSet := catalog.NewSet(pool, store, auditLogger)
	catalogHandler := catalog.NewHandler(logger, catalogSet, gate)

	manufacturersService := manufacturers.NewService(manufacturers.NewRepository(pool), store, auditLogger)
	manufacturersHandler := manufacturers.NewHandler(logger, manufacturersService, gate)

	productsService := products.NewService(products.NewRepository(pool), store, auditLogger)
	productsHandler := products.NewHandler(logger, productsService, gate)

	questionsService := questions.NewService(questions.NewRepository(pool), store)
	questionsHandler := questions.NewHandler(logger, questionsService, gate)

	techFilesService := techfiles.NewService(techfiles.NewRepository(pool), store)
	techFilesHandler := techfiles.NewHandler(logger, techFilesService, gate)

	referenceService := reference.NewService(reference.NewRepository(pool), store)
	referenceHandler := reference.NewHandler(logger, referenceService, gate)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	representativeService := representative.NewService(representative.NewRepository(pool), store, jobsClient, logger, cfg.OpsEmail)
	representativeHandler := representative.NewHandler(logger, representativeService, gate)

	paymentsClient := billing.NewPaymentsClient(cfg.PaymentsAPIURL, cfg.PaymentsAPIKey)
	billingService := billing.NewService(pool, paymentsClient, store)
	billingHandler := billing.NewHandler(logger, billingService, gate)

	assistService := assist.NewService(assist.NewClient(cfg.AssistAPIURL, cfg.AssistAPIKey))
	assistHandler := assist.NewHandler(logger, assistService, gate)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:                logger,
		Config:                cfg,
		SessionManager:        sessionManager,
		CSRFManager:           csrfManager,
		Gate:                  gate,
		AuthHandler:           authHandler,
		UsersHandler:          usersHandler,
		CatalogHandler:        catalogHandler,
		ManufacturersHandler:  manufacturersHandler,
		ProductsHandler:       productsHandler,
		QuestionsHandler:      questionsHandler,
		TechFilesHandler:      techFilesHandler,
		ReferenceHandler:      referenceHandler,
		RepresentativeHandler: representativeHandler,
		BillingHandler:        billingHandler,
		AssistHandler:         assistHandler,
		JobHandler:            jobHandler,
		Metrics:               metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
