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

	"todo-backend/internal/database"
	"todo-backend/internal/repository"
	"todo-backend/internal/server"
	"todo-backend/internal/service"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	// Disconnect from the store once in-flight requests have drained.
	if dbService != nil {
		log.Println("Closing database connection...")
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed.")
		}
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	// 1. Connect to MongoDB
	dbService := database.New()

	collName := os.Getenv("TODOS_COLLECTION")
	if collName == "" {
		collName = repository.DefaultCollection
	}

	// 2. Initialize Repositories
	todoRepo := repository.NewMongoTodoRepository(dbService.Collection(collName))

	// 3. Initialize Services
	todoService := service.NewTodoService(todoRepo)

	// 4. Initialize Server/Router, passing dependencies
	chiServer := server.NewServer(todoService, dbService)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(chiServer, dbService, done)

	log.Printf("Starting server on %s", chiServer.Addr)
	err := chiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")
}
