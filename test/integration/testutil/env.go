//go:build integration

package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"
)

// TestEnv points the integration suite at a running service and its database.
// Every value can be overridden with a TEST_* variable.
type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
}

func NewTestEnv() *TestEnv {
	port := envOr("TEST_SERVER_PORT", "8080")
	return &TestEnv{
		MongoURI:     envOr("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: envOr("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:    envOr("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", port)),
	}
}

// Setup empties collections before and after the test and waits for the
// service to report healthy. Collections are emptied rather than dropped so
// the migration's validators and indexes stay in place.
func (e *TestEnv) Setup(t *testing.T, collections ...string) (*MongoHelper, *Client) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	for _, name := range collections {
		mongo.CleanCollection(t, name)
	}
	t.Cleanup(func() {
		for _, name := range collections {
			mongo.CleanCollection(t, name)
		}
		mongo.Close(t)
	})

	client := NewClient(e.ServerURL)
	client.WaitForHealthy(t, healthTimeout)
	return mongo, client
}

const healthTimeout = 30 * time.Second

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
