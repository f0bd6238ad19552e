// Package managers handles the shared infrastructure of the application: the
// document store, token issuing and verification, outgoing mail and caching.
package managers

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseMgr defines the interface for document-store management.
// It provides access to the collections of the application.
type DatabaseMgr interface {
	Users() *mongo.Collection
	Profiles() *mongo.Collection
	Posts() *mongo.Collection
	EnsureIndexes(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// DatabaseManager is responsible for managing the MongoDB client and database
// handle. The client is process-wide, created once at startup and reused by
// every request.
type DatabaseManager struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func (dbMgr *DatabaseManager) Users() *mongo.Collection {
	return dbMgr.Database.Collection("users")
}

func (dbMgr *DatabaseManager) Profiles() *mongo.Collection {
	return dbMgr.Database.Collection("profiles")
}

func (dbMgr *DatabaseManager) Posts() *mongo.Collection {
	return dbMgr.Database.Collection("posts")
}

// EnsureIndexes creates the unique indexes the write paths rely on: one user
// per email and one profile per user. Registration still checks for an
// existing email first, the index closes the race between check and insert.
func (dbMgr *DatabaseManager) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := dbMgr.Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = dbMgr.Profiles().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: unique,
	})
	return err
}

func (dbMgr *DatabaseManager) Ping(ctx context.Context) error {
	return dbMgr.Client.Ping(ctx, nil)
}

func (dbMgr *DatabaseManager) Close(ctx context.Context) error {
	return dbMgr.Client.Disconnect(ctx)
}

// NewDatabaseManager creates and initializes a new instance of DatabaseManager
// with the provided client and database name.
func NewDatabaseManager(client *mongo.Client, databaseName string) DatabaseMgr {
	log.Info("Initializing database manager")
	return &DatabaseManager{
		Client:   client,
		Database: client.Database(databaseName),
	}
}
