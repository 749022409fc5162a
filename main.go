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

	"github.com/event-manager-services/common/config"
	"github.com/event-manager-services/common/db"
	"github.com/event-manager-services/common/jwt"
	"github.com/event-manager-services/common/logger"
	"github.com/event-manager-services/services/event-lambda/handler"
	"github.com/event-manager-services/services/event-lambda/repository"
	"github.com/event-manager-services/services/event-lambda/usecase"
)

// Local development server. Runs the same handlers the lambdas deploy.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ .env not loaded: %v", err)
	}
	logger.SetDefault(logger.New(logger.DefaultConfig()))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("Connecting to MySQL database...")
	if err := db.InitDBWithConfig(cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	service := usecase.NewEventUseCase(repository.NewEventRepository(db.GetDB()), tokens)
	e := newServer(handler.NewEventHandler(service), dbPinger(db.GetDB()))

	go func() {
		log.Printf("🚀 Server listening on :%s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
