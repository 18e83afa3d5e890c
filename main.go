package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/drinkcal-bot/server/internal/bot/flow"
	"github.com/drinkcal-bot/server/internal/bot/model"
	"github.com/drinkcal-bot/server/internal/bot/session"
	"github.com/drinkcal-bot/server/internal/catalog"
	"github.com/drinkcal-bot/server/internal/charts"
	"github.com/drinkcal-bot/server/internal/core"
	"github.com/drinkcal-bot/server/internal/orders"
	"github.com/drinkcal-bot/server/internal/recommend"
	"github.com/drinkcal-bot/server/internal/stores"
	"github.com/drinkcal-bot/server/internal/transport/line"
	logx "github.com/drinkcal-bot/server/pkg/logger"
	pkgredis "github.com/drinkcal-bot/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the bot, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`

	// Infrastructure
	Redis pkgredis.Config

	// Chat platform
	Line model.LineConfig

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Bot configs
	Session   model.SessionConfig
	External  model.ExternalConfig
	Catalog   model.CatalogConfig
	Places    model.PlacesConfig
	Recommend model.RecommendModelConfig
	Chart     model.ChartConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	sessionTTL, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		logx.Fatal().Err(err).Str("ttl", cfg.Session.TTL).Msg("invalid SESSION_TTL")
	}
	externalTimeout, err := time.ParseDuration(cfg.External.Timeout)
	if err != nil {
		logx.Fatal().Err(err).Str("timeout", cfg.External.Timeout).Msg("invalid EXTERNAL_CALL_TIMEOUT")
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise Redis client")
	}
	defer rdb.Close()

	drinkCatalog, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load drink catalog")
	}

	recommender, err := recommend.NewGeminiRecommender(ctx, recommend.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Recommend,
	}, drinkCatalog)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise recommender")
	}

	engine := flow.New(flow.Config{
		Sessions:        session.NewStore(session.NewRedisSessionRepository(rdb, sessionTTL)),
		Orders:          orders.NewRedisOrderRepository(rdb),
		Catalog:         drinkCatalog,
		Stores:          stores.NewPlacesClient(cfg.Places),
		Recommender:     recommender,
		Charts:          charts.NewQuickChartRenderer(cfg.Chart),
		ExternalTimeout: externalTimeout,
	})

	webhook, err := line.NewHandler(cfg.Line, engine)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise LINE webhook handler")
	}

	mux := http.NewServeMux()
	mux.Handle("/callback", webhook)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logx.Info().Str("addr", cfg.ListenAddr).Msg("webhook server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("webhook server failed")
		}
	}()

	<-stopCtx.Done()
	logx.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}
