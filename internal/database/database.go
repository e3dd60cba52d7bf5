package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Service exposes the MongoDB handle plus the lifecycle hooks the server
// needs (health endpoint, graceful shutdown).
type Service interface {
	Health() map[string]string
	Close() error
	Collection(name string) *mongo.Collection
}

type service struct {
	client *mongo.Client
	db     *mongo.Database
}

var (
	uri        = os.Getenv("MONGODB_URI")
	dbName     = os.Getenv("MONGODB_DATABASE")
	dbInstance *service
)

// New connects to MongoDB and verifies the connection with a ping. The
// returned Service is a process-wide singleton.
func New() Service {
	if dbInstance != nil {
		return dbInstance
	}

	connURI := uri
	if connURI == "" {
		connURI = "mongodb://localhost:27017"
	}
	name := dbName
	if name == "" {
		name = "todo_app"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Connect is lazy; ping so a bad URI fails at startup instead of on
	// the first request.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Failed to ping MongoDB at %s: %v", connURI, err)
	}
	log.Printf("Connected to MongoDB, database %q", name)

	dbInstance = &service{
		client: client,
		db:     client.Database(name),
	}
	return dbInstance
}

// Collection returns a handle to the named collection.
func (s *service) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Health pings the database and reports its status.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	start := time.Now()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["ping"] = time.Since(start).String()
	stats["database"] = s.db.Name()

	return stats
}

// Close disconnects the underlying client. Safe to call once at shutdown.
func (s *service) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Printf("Closing MongoDB connection for database: %s", s.db.Name())
	return s.client.Disconnect(ctx)
}
