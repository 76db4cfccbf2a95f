package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"docmind/internal/auth"
	"docmind/internal/config"
	"docmind/internal/handler"
	"docmind/internal/middleware"
	"docmind/internal/repository/postgres"
	"docmind/internal/service/ai"
	"docmind/internal/service/docs"
	"docmind/internal/service/export"
	"docmind/internal/service/ledger"
	"docmind/internal/service/payment"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelDebug
	if cfg.IsProduction() {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connected")

	verifier, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	if err != nil {
		return err
	}

	repoCfg := postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoCfg)
	tokenRepo := postgres.NewTokenRepository(repoCfg)
	txManager := postgres.NewTransactionManager(pool)

	var aiClient ai.Client
	if cfg.GeminiAPIKey != "" {
		aiClient, err = ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return err
		}
	} else {
		aiClient = ai.NewOfflineClient(logger)
	}

	plans, err := payment.LoadPlans()
	if err != nil {
		return err
	}

	ledgerSvc := ledger.NewService(tokenRepo, cfg.StartingTokens, logger)
	docStore := docs.NewStore(docRepo, txManager, logger)
	aiSvc := ai.NewService(aiClient, ledgerSvc, docStore, logger)
	exportSvc := export.NewService(docStore, logger)
	paymentSvc := payment.NewService(plans, ledgerSvc, cfg.PaymentBackendURL, cfg.FallbackCheckoutURL, logger)

	documentHandler := handler.NewDocumentHandler(docStore, logger)
	aiHandler := handler.NewAIHandler(aiSvc, logger)
	exportHandler := handler.NewExportHandler(exportSvc, logger)
	tokenHandler := handler.NewTokenHandler(ledgerSvc, paymentSvc, logger)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, logger)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/documents", documentHandler.State)
	api.HandleFunc("POST /api/documents", documentHandler.Create)
	api.HandleFunc("POST /api/documents/generate", aiHandler.Generate)
	api.HandleFunc("POST /api/documents/batch-delete", documentHandler.BatchDelete)
	api.HandleFunc("GET /api/documents/{id}", documentHandler.Get)
	api.HandleFunc("PATCH /api/documents/{id}", documentHandler.Update)
	api.HandleFunc("DELETE /api/documents/{id}", documentHandler.Delete)
	api.HandleFunc("POST /api/documents/{id}/current", documentHandler.SetCurrent)
	api.HandleFunc("POST /api/documents/{id}/select", documentHandler.ToggleSelect)
	api.HandleFunc("POST /api/documents/{id}/review", aiHandler.Review)
	api.HandleFunc("POST /api/documents/{id}/translate", aiHandler.Translate)
	api.HandleFunc("POST /api/documents/{id}/summarize", aiHandler.Summarize)
	api.HandleFunc("POST /api/chat", aiHandler.Chat)
	api.HandleFunc("POST /api/export", exportHandler.Export)
	api.HandleFunc("GET /api/tokens", tokenHandler.Balance)
	api.HandleFunc("POST /api/tokens/purchase", tokenHandler.Purchase)
	api.HandleFunc("GET /api/plans", paymentHandler.Plans)
	api.HandleFunc("POST /api/create-preference", paymentHandler.CreatePreference)
	api.HandleFunc("GET /api/languages", handler.Languages)

	authMiddleware := middleware.Auth(verifier, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.Handle("/api/", authMiddleware(api))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsMiddleware.Handler(middleware.Recovery(logger)(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
