package client

import (
	"context"
	"fmt"
	"time"

	"bondvoyage/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client holds the connections shared by a service's repositories.
type Client struct {
	Mongo *mongo.Client
}

func NewClient() *Client {
	return &Client{}
}

// ConnectMongo dials uri and waits for a primary within timeout. appName
// shows up in the server's currentOp and slow query log.
func (c *Client) ConnectMongo(uri, appName string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout).
		SetRetryWrites(true)

	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("connect to mongo: %w", err)
	}
	if err := mc.Ping(ctx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(context.Background())
		return fmt.Errorf("ping mongo primary: %w", err)
	}

	c.Mongo = mc
	return nil
}

func (c *Client) GracefulShutdown(log *logger.Logger, timeout time.Duration) {
	if c.Mongo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.Mongo.Disconnect(ctx); err != nil {
		log.Error("Failed to disconnect from MongoDB", "error", err)
		return
	}
	c.Mongo = nil
	log.Info("Disconnected from MongoDB")
}
