package repository

import (
	"context"
	"errors"
	"fmt"

	faqserrors "bondvoyage/internal/faqs/errors"
	"bondvoyage/pkg/config"
	mongotx "bondvoyage/pkg/db/mongo"
	"bondvoyage/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "faqs"
)

type FAQRepository interface {
	Create(ctx context.Context, faq *model.FAQ) error
	FindByID(ctx context.Context, id string) (*model.FAQ, error)
	FindAll(ctx context.Context) ([]*model.FAQ, error)
	FindByPage(ctx context.Context, page string) ([]*model.FAQ, error)
	Update(ctx context.Context, id string, faq *model.FAQ) error
	Delete(ctx context.Context, id string) error
}

type mongoFAQRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFAQRepository(cfg *config.Config) FAQRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFAQRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoFAQRepository) Create(ctx context.Context, faq *model.FAQ) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := mongotx.Now()
	faq.CreatedAt = now
	faq.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, faq)
	if err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		faq.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFAQRepository) FindByID(ctx context.Context, id string) (*model.FAQ, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", faqserrors.ErrInvalidID, id)
	}

	var faq model.FAQ
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&faq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, faqserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find faq: %w", err)
	}

	return &faq, nil
}

func (r *mongoFAQRepository) FindAll(ctx context.Context) ([]*model.FAQ, error) {
	return r.find(ctx, bson.M{})
}

// FindByPage returns the FAQs targeted at a page slug. Pages are stored
// normalized so an equality match on the array is enough.
func (r *mongoFAQRepository) FindByPage(ctx context.Context, page string) ([]*model.FAQ, error) {
	return r.find(ctx, bson.M{"pages": page})
}

func (r *mongoFAQRepository) find(ctx context.Context, filter bson.M) ([]*model.FAQ, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find faqs: %w", err)
	}
	defer cursor.Close(ctx)

	faqs := make([]*model.FAQ, 0)
	if err = cursor.All(ctx, &faqs); err != nil {
		return nil, fmt.Errorf("failed to decode faqs: %w", err)
	}
	return faqs, nil
}

func (r *mongoFAQRepository) Update(ctx context.Context, id string, faq *model.FAQ) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", faqserrors.ErrInvalidID, id)
	}

	faq.UpdatedAt = mongotx.Now()
	update := bson.M{
		"$set": bson.M{
			"question":   faq.Question,
			"answer":     faq.Answer,
			"tags":       faq.Tags,
			"pages":      faq.Pages,
			"keywords":   faq.Keywords,
			"updated_at": faq.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update faq: %w", err)
	}

	if result.MatchedCount == 0 {
		return faqserrors.ErrNotFound
	}

	return nil
}

func (r *mongoFAQRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", faqserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}

	if result.DeletedCount == 0 {
		return faqserrors.ErrNotFound
	}

	return nil
}
