package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"glow/internal/auth"
	"glow/internal/config"
	"glow/internal/gateway/gemini"
	"glow/internal/handler"
	"glow/internal/middleware"
	"glow/internal/quota"
	"glow/internal/repository/postgres"
	chatSvc "glow/internal/service/chat"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

// maxLogFiles bounds how many timestamped log files are kept in LOG_DIR.
const maxLogFiles = 7

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	// With LOG_DIR set, logs go to a timestamped file as well as stdout
	var logWriter io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, maxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logWriter = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token verifier for the auth provider
	verifier, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	// Postgres connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Redis client for the long-lived guest counter store
	redisOpts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := goredis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}

	logger.Info("redis connected")

	// Repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	conversationRepo := postgres.NewConversationRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Quota ledger: in-process session store + Redis cache store
	ledger := quota.NewLedger(
		userRepo,
		quota.NewSessionStore(),
		quota.NewRedisStore(redisClient),
		logger,
	)

	// Generation gateway
	persona, err := config.LoadPersona()
	if err != nil {
		log.Fatalf("Failed to load persona config: %v", err)
	}
	generator := gemini.NewClient(cfg.GeminiAPIKey, persona, logger,
		gemini.WithBaseURL(cfg.GeminiBaseURL),
	)

	// Turn orchestrator
	chatService := chatSvc.NewService(conversationRepo, ledger, generator, txManager, logger)

	// Handlers
	chatHandler := handler.NewChatHandler(chatService, logger)
	conversationHandler := handler.NewConversationHandler(chatService, logger)

	logger.Info("services initialized", "model", persona.Model)

	// HTTP router (Go 1.22+ method patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Chat routes
	mux.HandleFunc("POST /api/messages", chatHandler.SendMessage)
	mux.HandleFunc("POST /api/guest/messages", chatHandler.SendGuestMessage)

	// Conversation routes
	mux.HandleFunc("GET /api/conversations", conversationHandler.ListConversations)
	mux.HandleFunc("GET /api/conversations/{id}", conversationHandler.GetConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", conversationHandler.DeleteConversation)

	// Middleware chain, applied in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.Auth(verifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation calls can take up to 30s
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
