package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pet-shelter-directory/internal/adapters/auth/idp"
	"pet-shelter-directory/internal/adapters/storage/postgres"
	"pet-shelter-directory/internal/platform/logger"
	"pet-shelter-directory/internal/ports/auth"
	"pet-shelter-directory/internal/router"
)

func main() {
	_ = godotenv.Load() // .env opcional; si no existe quedan las env vars del entorno

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var db *sql.DB
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		opened, err := postgres.Open(dsn)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		db = opened

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Error("ensure schema failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		cancel()
		log.Info("postgres connected", nil)
	} else {
		log.Warn("no DB_DSN set, using in-memory store", nil)
	}

	var verifier auth.AuthVerifier
	if baseURL := os.Getenv("IDP_BASE_URL"); baseURL != "" {
		client, err := idp.NewClient(idp.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("IDP_API_KEY"),
		})
		if err != nil {
			log.Error("idp client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = idp.NewVerifier(client)
	} else {
		log.Warn("no IDP_BASE_URL set, running in dev auth mode", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
