package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goldtracer/internal/advisor"
	"goldtracer/internal/bot"
	"goldtracer/internal/cache"
	"goldtracer/internal/config"
	"goldtracer/internal/db"
	"goldtracer/internal/handler"
	"goldtracer/internal/job"
	"goldtracer/internal/provider"
	"goldtracer/internal/service"
	syncsvc "goldtracer/internal/sync"
	"goldtracer/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "goldtracer/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newRepoFunc      = syncsvc.NewRepository
	newYahooFunc     = func(tracer trace.Tracer) syncsvc.QuoteProvider {
		return provider.NewYahooProvider(tracer)
	}
	newFREDFunc = func(apiKey string, tracer trace.Tracer) syncsvc.SeriesProvider {
		return provider.NewFREDProvider(apiKey, tracer)
	}
	newRSSFunc = func(tracer trace.Tracer) syncsvc.NewsProvider {
		return provider.NewRSSProvider(tracer)
	}
	newSyncServiceFunc     = syncsvc.NewService
	newSyncJobFunc         = job.NewSyncJob
	startSyncJobFunc       = func(j *job.SyncJob, ctx context.Context) { go j.Start(ctx) }
	newDashboardFunc       = service.NewDashboardService
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Goldtracer API
// @version         1.0
// @description     Gold market synchronization and signal-synthesis service.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initPostgresFunc(ctx, cfg.DatabaseURL)
	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// A typed nil *pgxpool.Pool would slip past the repository's nil check,
	// so only a live pool is handed over.
	var pool syncsvc.PgxPool
	if db.Pool != nil {
		pool = db.Pool
	}
	repo := newRepoFunc(pool, tracer)
	if pool != nil {
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	yahoo := newYahooFunc(tracer)
	fred := newFREDFunc(cfg.FREDAPIKey, tracer)
	rss := newRSSFunc(tracer)
	syncService := newSyncServiceFunc(yahoo, fred, rss, repo, cfg, tracer)

	syncJob := newSyncJobFunc(tracer, syncService, cfg.SyncPollSecs)
	startSyncJobFunc(syncJob, ctx)

	dashboard := newDashboardFunc(tracer, repo, cache.Client, cfg)

	startTelegramBotFunc(cfg.TelegramBotToken, dashboard)

	var llm advisor.LLMClient
	if cfg.OpenAIAPIKey != "" {
		llm = advisor.NewOpenAIClient(cfg.OpenAIAPIKey)
	}
	adv := advisor.New(tracer, llm, dashboard, cfg.OpenAIModel)

	h := newHandlerFunc(tracer, dashboard, syncService, adv, repo, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("goldtracer"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
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
