package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kantor/internal/advisor"
	"kantor/internal/bot"
	"kantor/internal/cache"
	"kantor/internal/config"
	"kantor/internal/db"
	"kantor/internal/handler"
	"kantor/internal/job"
	"kantor/internal/provider"
	"kantor/internal/repository"
	"kantor/internal/service"
	"kantor/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "kantor/docs"
)

var (
	loadEnvFunc        = godotenv.Load
	loadConfigFunc     = config.Load
	initPostgresFunc   = db.InitPostgres
	initRedisFunc      = cache.InitRedis
	initTracerFunc     = tracing.InitTracer
	newAccountRepoFunc = repository.NewAccountRepository
	newTxRepoFunc      = repository.NewTransactionRepository
	newConvRepoFunc    = repository.NewConversationRepository
	newNBPProviderFunc = func(tracer trace.Tracer) service.RateProvider {
		return provider.NewNBPProvider(tracer)
	}
	newRateServiceFunc     = service.NewRateService
	newAccountServiceFunc  = service.NewAccountService
	newRatePollerFunc      = job.NewRatePoller
	startPollerFunc        = func(p *job.RatePoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newOpenAIClientFunc    = advisor.NewOpenAIClient
	newAdvisorServiceFunc  = advisor.NewAdvisorService
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Kantor API
// @version         1.0
// @description     Currency exchange rates, conversions and accounts.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repositories and run migrations
	accountRepo := newAccountRepoFunc(db.Pool, tracer)
	txRepo := newTxRepoFunc(db.Pool, tracer)
	convRepo := newConvRepoFunc(db.Pool, tracer)
	if db.Pool != nil {
		if err := accountRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Create provider and services
	nbpProvider := newNBPProviderFunc(tracer)
	rateService := newRateServiceFunc(tracer, nbpProvider, cache.Client)

	var accountService *service.AccountService
	if db.Pool != nil {
		accountService = newAccountServiceFunc(tracer, accountRepo, txRepo, rateService)
	} else {
		log.Println("DATABASE_URL not set, account endpoints disabled")
	}

	// Start rate poller (background goroutine, stopped by ctx cancel)
	poller := newRatePollerFunc(tracer, rateService, cfg.NBPPollSecs)
	startPollerFunc(poller, ctx)

	// Advisor (optional, needs Postgres for conversation history)
	var advisorSvc *advisor.AdvisorService
	switch {
	case cfg.OpenAIAPIKey == "":
	case db.Pool == nil:
		log.Println("DATABASE_URL not set, advisor disabled")
	default:
		llmClient := newOpenAIClientFunc(cfg.OpenAIAPIKey)
		advisorSvc = newAdvisorServiceFunc(tracer, llmClient, rateService,
			convRepo, cfg.OpenAIModel, cfg.AdvisorMaxHistory)
		log.Println("Advisor service enabled")
	}

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(rateService, advisorSvc)

	// Create handlers and routes
	h := newHandlerFunc(tracer, rateService, accountService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("kantor"))
	r.Use(handler.APIKeyAuth(cfg.APIKey))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
