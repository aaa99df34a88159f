package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dataroom/internal/auth"
	"dataroom/internal/config"
	"dataroom/internal/handler"
	"dataroom/internal/middleware"
	"dataroom/internal/service/audit"
	"dataroom/internal/service/docstore"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	configPath := flag.String("config", "", "optional config file (yaml, toml or json)")
	flag.Parse()

	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"metadata_backend", cfg.Metadata.Backend,
		"blob_type", cfg.Blob.Type,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := config.CreateMetadataStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open metadata store: %v", err)
	}
	defer store.Close()

	// The schema is idempotent; dev and test databases are created on start
	if cfg.Environment != "prod" {
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
	}

	blobs, err := config.CreateBlobStore(ctx, cfg.Blob, logger)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Create services
	recorder := audit.NewLogRecorder(logger)
	validator := docstore.NewResourceValidator(store.Datarooms, store.Folders)
	dataroomService := docstore.NewDataroomService(store.Datarooms, store.Files, store.Tx, blobs, cfg.BlobDeleteConcurrency, recorder, logger)
	folderService := docstore.NewFolderService(store.Folders, store.Files, store.Tx, validator, blobs, cfg.BlobDeleteConcurrency, recorder, logger)
	fileService := docstore.NewFileService(store.Files, store.Tx, validator, blobs, recorder, logger)
	treeService := docstore.NewTreeService(validator, store.Folders, store.Files, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, &handler.Handlers{
		Health:    handler.NewHealthHandler(store.Ping, logger),
		Datarooms: handler.NewDataroomHandler(dataroomService, logger),
		Folders:   handler.NewFolderHandler(folderService, logger),
		Files:     handler.NewFileHandler(fileService, cfg.MaxUploadBytes, logger),
		Tree:      handler.NewTreeHandler(treeService, logger),
	})

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	if cfg.AuthJWKSURL != "" {
		jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	} else {
		logger.Warn("AUTH_JWKS_URL not set: all requests are anonymous")
	}
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     h,
		ReadTimeout: 5 * time.Minute, // Large uploads
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
