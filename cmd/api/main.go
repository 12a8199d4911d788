package main

import (
	"net/http"
	"os"
	"time"

	"pet-care-ops/internal/adapters/notify/webhook"
	"pet-care-ops/internal/adapters/storage/postgres"
	"pet-care-ops/internal/platform/logger"
	"pet-care-ops/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional; en deploy las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	opts := router.Options{Logger: log}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := postgres.Open(dsn)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		if err := postgres.Migrate(db); err != nil {
			log.Error("migrations failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		opts.DB = db
	}

	if url := os.Getenv("CALENDAR_WEBHOOK_URL"); url != "" {
		notifier, err := webhook.New(url, 5*time.Second)
		if err != nil {
			log.Error("calendar webhook config invalid", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		opts.Notifier = notifier
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
