// Package internal wires the application together: environment, logging,
// document store, managers and the HTTP server.
package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dev-castle-server/internal/managers"
	"dev-castle-server/internal/routing"
)

const envFile = ".env"

func Init() {
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	setLogLevel(logLevel)

	// Connect to the document store
	client := initializeDatabase()

	// Initialize database manager
	databaseMgr := managers.NewDatabaseManager(client, databaseName())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := databaseMgr.EnsureIndexes(ctx); err != nil {
		log.Fatal("error creating indexes: ", err)
	}
	cancel()

	// Initialize mail manager
	mailMgr := managers.NewMailManager()

	// Initialize JWT manager
	jwtMgr, err := managers.NewJWTManagerFromEnv()
	if err != nil {
		log.Fatal("error initializing JWT manager: ", err)
	}

	// Initialize cache manager
	cacheMgr := managers.NewCacheManager()

	// Initialize router
	r := routing.InitRouter(databaseMgr, mailMgr, jwtMgr, cacheMgr)
	log.Info("Initialized router")

	// Handle interrupt signal gracefully
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)

		<-c
		log.Info("Server shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := databaseMgr.Close(ctx); err != nil {
			log.Warn("Error disconnecting from database: ", err)
		}
		os.Exit(0)
	}()

	// Start server on the specified port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("Starting server on port %s...", port)
	err = http.ListenAndServe(":"+port, r)
	if err != nil {
		log.Fatal("Error starting server: ", err)
	}
}

func initializeDatabase() *mongo.Client {
	log.Info("Initializing database")

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Fatal("MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("database not reachable: ", err)
	}

	log.Info("Connected to database")
	return client
}

func databaseName() string {
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = "devcastle"
	}
	return name
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)

	log.SetOutput(os.Stdout)
}
