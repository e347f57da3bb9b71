package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/acrenier/todo-api/internal/config"
	"github.com/acrenier/todo-api/internal/database"
	"github.com/acrenier/todo-api/internal/domain"
	"github.com/acrenier/todo-api/internal/repository"
	"github.com/acrenier/todo-api/internal/server"
	"github.com/acrenier/todo-api/internal/service"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// Give in-flight requests 5 seconds to finish.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if err := dbService.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exiting")
	done <- true
}

func main() {
	cfg := config.Load()

	dbService, err := database.New(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	gormDB := dbService.GetDB()

	// Create-if-absent is the only schema management this service does.
	if err := gormDB.AutoMigrate(&domain.Todo{}); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	todoRepo := repository.NewGormTodoRepository(gormDB)
	todoService := service.NewTodoService(todoRepo)

	if err := todoService.SeedIfEmpty(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	apiServer := server.NewServer(cfg, todoService, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, done)

	log.Printf("Starting server on %s", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
