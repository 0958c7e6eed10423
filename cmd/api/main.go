package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"portfolio-backend/cmd"
	"portfolio-backend/internal/api"
	"portfolio-backend/internal/command"
	"portfolio-backend/internal/llm"
	"portfolio-backend/internal/session"
)

type APIConfig struct {
	APIPort            string `env:"API_PORT" envDefault:"8000"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"INFO"`
	Debug              bool   `env:"DEBUG" envDefault:"false"`
	GeminiAPIKey       string `env:"GEMINI_API_KEY"`
	LLMModel           string `env:"LLM_MODEL" envDefault:"gemini-2.5-flash"`
	MaxInputChars      int    `env:"LLM_MAX_INPUT_CHARS" envDefault:"500"`
	MaxTurns           int    `env:"LLM_MAX_CONVERSATION_TURNS" envDefault:"10"`
	RateLimitPerMinute int    `env:"LLM_RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	SessionTTLMinutes  int    `env:"SESSION_TTL_MINUTES" envDefault:"30"`
	CVPath             string `env:"CV_PATH" envDefault:"static/files/demo_cv.pdf"`
	KnowledgeBasePath  string `env:"KNOWLEDGE_BASE_PATH" envDefault:"static/files/knowledge_base.txt"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

func main() {
	log.Println("Starting portfolio API server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	cmd.SetupLogging(cfg.LogLevel, cfg.Debug)

	ctx := context.Background()

	// A missing API key degrades the assistant to a fixed apology instead of
	// failing startup.
	var model llm.ChatModel
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, AI assistant will run degraded")
	} else {
		systemPrompt := llm.BuildSystemPrompt(llm.LoadKnowledgeBase(cfg.KnowledgeBasePath))
		gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.LLMModel, systemPrompt)
		if err != nil {
			slog.Error("could not initialize gemini client, AI assistant will run degraded", "error", err)
		} else {
			model = gemini
			slog.Info("llm service initialized", "model", cfg.LLMModel)
		}
	}

	store := session.NewStore(time.Duration(cfg.SessionTTLMinutes) * time.Minute)
	defer store.Close()

	llmService := llm.NewService(model, cfg.LLMModel, store, cfg.MaxInputChars, cfg.MaxTurns)
	registry := command.NewRegistry(llmService)

	limiter := api.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Close()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSAllowedOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	apiHandler := api.NewPortfolioService(registry, llmService, limiter, cfg.CVPath)
	apiHandler.AddRoutes(r)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
