package mongo

import (
	"context"
	"fmt"
	"sort"

	activitylogsrepo "bondvoyage/internal/activitylogs/repository"
	bookingsrepo "bondvoyage/internal/bookings/repository"
	faqsrepo "bondvoyage/internal/faqs/repository"
	"bondvoyage/internal/migrations/mongo/validators"
	paymentsrepo "bondvoyage/internal/payments/repository"
	usersrepo "bondvoyage/internal/users/repository"
	"bondvoyage/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_date", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "payment_history.id", Value: 1}}},
	}

	UsersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{Keys: bson.D{{Key: "signup_date", Value: -1}}},
	}

	ActivityLogsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	FAQsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "pages", Value: 1}}},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the services write, with its schema
// validator and indexes.
func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		bookingsrepo.CollectionName: {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		paymentsrepo.SettingsCollectionName: {
			Validator: validators.PaymentSettingsValidator,
		},
		usersrepo.CollectionName: {
			Indexes:   UsersIndexes,
			Validator: validators.UserValidator,
		},
		activitylogsrepo.CollectionName: {
			Indexes:   ActivityLogsIndexes,
			Validator: validators.ActivityLogValidator,
		},
		faqsrepo.CollectionName: {
			Indexes:   FAQsIndexes,
			Validator: validators.FAQValidator,
		},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	collections := Collections()
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := collections[name]
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully", "collections", len(names))
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	coll := db.Collection(name)
	created, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", created)
	return nil
}
