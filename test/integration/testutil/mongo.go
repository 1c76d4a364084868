//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"bondvoyage/pkg/client"
	"bondvoyage/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "bondvoyage"
	ConnectionTimeout   = 10 * time.Second

	BookingsCollection        = "bookings"
	PaymentSettingsCollection = "payment_settings"
	UsersCollection           = "users"
	ActivityLogsCollection    = "activity_logs"
)

// MongoHelper inspects and resets the database behind the service under
// test. It connects through the same client the services use.
type MongoHelper struct {
	client   *client.Client
	Database *mongo.Database
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	c := client.NewClient()
	if err := c.ConnectMongo(mongoURI, "integration-tests", ConnectionTimeout); err != nil {
		t.Fatalf("mongo unavailable: %v", err)
	}
	return &MongoHelper{client: c, Database: c.Mongo.Database(dbName)}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	m.client.GracefulShutdown(logger.Discard(), 5*time.Second)
}

// CleanCollection removes all documents from a specific collection
func (m *MongoHelper) CleanCollection(t *testing.T, collectionName string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := m.Database.Collection(collectionName).DeleteMany(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to clean collection %s: %v", collectionName, err)
	}
	t.Logf("Cleaned %d documents from collection: %s", result.DeletedCount, collectionName)
}

func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string, filter bson.M) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}
