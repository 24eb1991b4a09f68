package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"reading-system/internal/assistant"
	"reading-system/internal/auth"
	"reading-system/internal/config"
	"reading-system/internal/quiz"
	"reading-system/internal/session"
	"reading-system/internal/stats"
	"reading-system/pkg/cache"
	"reading-system/pkg/database"
	"reading-system/pkg/llm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(&database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr)

	llmClient, err := llm.NewChatClient(llm.Config{
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize LLM client", "error", err)
		os.Exit(1)
	}

	// Repositories
	authRepo := auth.NewRepository(db)
	sessionRepo := session.NewRepository(db)
	attemptRepo := quiz.NewRepository(db)

	// Services
	authService := auth.NewService(authRepo, cfg.JWTSecret, logger)
	sessionService := session.NewService(sessionRepo, llmClient, redisCache, logger)
	generator := quiz.NewGenerator(llmClient, logger)
	quizService := quiz.NewService(sessionRepo, attemptRepo, generator, llmClient, redisCache, logger)
	statsService := stats.NewService(sessionRepo, attemptRepo, redisCache, logger)
	assistantService := assistant.NewService(sessionRepo, llmClient, logger)

	// Handlers
	authHandler := auth.NewHandler(authService)
	sessionHandler := session.NewHandler(sessionService)
	quizHandler := quiz.NewHandler(quizService, sessionService)
	statsHandler := stats.NewHandler(statsService)
	assistantHandler := assistant.NewHandler(assistantService)

	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Everything else requires a token
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(cfg.JWTSecret))

	apiRouter.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/sessions", sessionHandler.List).Methods("GET")
	apiRouter.HandleFunc("/sessions/{sessionID}", sessionHandler.Get).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/sessions/{sessionID}", sessionHandler.Delete).Methods("DELETE")

	apiRouter.HandleFunc("/quiz", quizHandler.CreateQuiz).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/validate", quizHandler.ValidateAnswers).Methods("POST", "OPTIONS")

	apiRouter.HandleFunc("/stats", statsHandler.GetStats).Methods("GET", "OPTIONS")

	apiRouter.HandleFunc("/assistant", assistantHandler.Query).Methods("POST", "OPTIONS")

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server shutdown gracefully")
}
