package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cpisim/cpisim-backend/internal/adapter/cpiapi"
	"github.com/cpisim/cpisim-backend/internal/adapter/httpapi"
	"github.com/cpisim/cpisim-backend/internal/adapter/repository/postgres"
	"github.com/cpisim/cpisim-backend/internal/usecase/annotation"
	"github.com/cpisim/cpisim-backend/internal/usecase/baseline"
	"github.com/cpisim/cpisim-backend/internal/usecase/submission"
)

const (
	defaultHTTPPort     = "8080"
	defaultBaselinePath = "data/baseline.json"
	defaultCPITimeout   = 30 * time.Second
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 1. Setup Database
	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		host := envOr("DB_HOST", "localhost")
		port := envOr("DB_PORT", "5432")
		user := envOr("DB_USER", "postgres")
		password := envOr("DB_PASSWORD", "postgres")
		dbname := envOr("DB_NAME", "cpisim")

		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := postgres.NewDB(dbConnStr)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	// 2. Initialize Repositories and external clients
	submissionRepo := postgres.NewSubmissionRepository(db)

	cpiURL := os.Getenv("CPI_API_URL")
	if cpiURL == "" {
		logger.Fatal("CPI_API_URL must be set")
	}
	calculator := cpiapi.NewClient(cpiURL, &http.Client{Timeout: defaultCPITimeout}, logger)

	// 3. Load the baseline series (consumed once at session start)
	baselinePath := envOr("BASELINE_PATH", defaultBaselinePath)
	records, err := baseline.NewLoader(baselinePath, logger).Load()
	if err != nil {
		logger.Fatal("failed to load baseline series", zap.Error(err))
	}
	logger.Info("baseline series loaded", zap.Int("records", len(records)))

	// 4. Initialize Services (Use Cases)
	submissionService := submission.NewService(submissionRepo, calculator, logger)
	builder := annotation.NewBuilder()

	// 5. Start HTTP server
	handler := httpapi.NewSimulationHandler(submissionService, submissionRepo, records, builder, logger)
	mux := httpapi.NewRouter(handler, os.Getenv("API_TOKEN"), logger)

	server := &http.Server{
		Addr:    ":" + envOr("HTTP_PORT", defaultHTTPPort),
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down gracefully", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}
