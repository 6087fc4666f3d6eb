package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/billing"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/chat"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/httpapi"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/knowledge"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/media"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/monitoring"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/stats"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/store"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/worker"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using process environment")
	}

	var (
		port       = flag.Int("port", 3000, "HTTP server port")
		dbHost     = flag.String("db-host", "localhost", "Database host")
		dbPort     = flag.Int("db-port", 5432, "Database port")
		dbUser     = flag.String("db-user", "admin", "Database user")
		dbPass     = flag.String("db-pass", "securepassword", "Database password")
		dbName     = flag.String("db-name", "blindbot", "Database name")
		redisAddr  = flag.String("redis-addr", "localhost:6379", "Redis address")
		rendersDir = flag.String("renders-dir", "./renders", "Directory for generated renderings")
		baseURL    = flag.String("base-url", "http://localhost:3000", "Externally visible base URL")
	)
	flag.Parse()

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		*dbHost, *dbPort, *dbUser, *dbPass, *dbName)

	db, err := store.New(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer rdb.Close()

	gemini, err := ai.NewGemini(context.Background(), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	defer gemini.Close()

	renders, err := media.NewDiskRenderStore(*rendersDir, *baseURL+"/renders")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare renders directory")
	}

	var refill billing.RefillTrigger
	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		refill = billing.NewStripeClient(key, os.Getenv("STRIPE_CREDITS_PRICE_ID"))
	} else {
		log.Info().Msg("STRIPE_SECRET_KEY not set, auto-refill disabled")
	}

	fetcher := media.NewFetcher()
	ledger := billing.NewCreditLedger(db, refill)
	retriever := knowledge.NewRetriever(db, gemini)
	gate := chat.NewVisualizationGate(ledger, gemini, renders, fetcher)
	reconciler := chat.NewLeadReconciler(db)
	orchestrator := chat.NewOrchestrator(db, db, db, retriever, gemini, gate, reconciler, fetcher, nil)
	statsCache := stats.NewCache(rdb, db)

	monitoring.InitMetrics()

	// Background pollers: level-triggered, idempotent, safe to run
	// redundantly.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10s", worker.NewPersonaWorker(db, gemini, fetcher).Run); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule persona worker")
	}
	if _, err := scheduler.AddFunc("@every 30s", worker.NewProductWorker(db, gemini, fetcher).Run); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule product worker")
	}
	if _, err := scheduler.AddFunc("@every 1m", worker.NewKnowledgeWorker(db, gemini).Run); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule knowledge worker")
	}
	scheduler.Start()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Static("/renders", *rendersDir)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	httpapi.NewHandler(orchestrator, db, statsCache).Register(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	go func() {
		log.Info().Msgf("Sales agent server listening on port %d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server exiting")
}
