package repository

import (
	"context"
	"fmt"
	"time"

	"bondvoyage/pkg/config"
	mongotx "bondvoyage/pkg/db/mongo"
	"bondvoyage/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "activity_logs"
)

type ActivityLogRepository interface {
	Save(ctx context.Context, entry *model.ActivityLogEntry) error
	FindAll(ctx context.Context) ([]*model.ActivityLogEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type mongoActivityLogRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoActivityLogRepository(cfg *config.Config) ActivityLogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoActivityLogRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// Save upserts on the entry id, so a redelivered event replaces itself.
func (r *mongoActivityLogRepository) Save(ctx context.Context, entry *model.ActivityLogEntry) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry, opts); err != nil {
		return fmt.Errorf("failed to save activity log entry: %w", err)
	}
	return nil
}

func (r *mongoActivityLogRepository) FindAll(ctx context.Context) ([]*model.ActivityLogEntry, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find activity logs: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]*model.ActivityLogEntry, 0)
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode activity logs: %w", err)
	}
	return entries, nil
}

func (r *mongoActivityLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete activity logs before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return result.DeletedCount, nil
}
