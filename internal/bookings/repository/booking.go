package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "bondvoyage/internal/bookings/errors"
	"bondvoyage/pkg/config"
	mongotx "bondvoyage/pkg/db/mongo"
	"bondvoyage/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, statuses ...string) ([]*model.Booking, error)
	Update(ctx context.Context, id string, booking *model.Booking) error
	SetItinerary(ctx context.Context, id string, days []model.ItineraryDay) error
	Delete(ctx context.Context, id string) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := mongotx.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.PaymentHistory == nil {
		booking.PaymentHistory = []model.PaymentSubmission{}
	}

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return booking.Derive(), nil
}

// FindAll returns bookings newest first, restricted to statuses when given.
// Filtering, sorting and paging for the list views happen in the service.
func (r *mongoBookingRepository) FindAll(ctx context.Context, statuses ...string) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	for _, b := range bookings {
		b.Derive()
	}
	return bookings, nil
}

// Update writes the editable fields. amount_paid and payment_history belong to
// the payments flow and are never touched here, but the filter pins the
// amount_paid the caller read so a new total is never checked against a stale
// paid amount.
func (r *mongoBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	booking.UpdatedAt = mongotx.Now()
	update := bson.M{
		"$set": bson.M{
			"customer_name": booking.CustomerName,
			"email":         booking.Email,
			"phone":         booking.Phone,
			"destination":   booking.Destination,
			"start_date":    booking.StartDate,
			"end_date":      booking.EndDate,
			"travelers":     booking.Travelers,
			"total_amount":  booking.TotalAmount,
			"type":          booking.Type,
			"status":        booking.Status,
			"notes":         booking.Notes,
			"updated_at":    booking.UpdatedAt,
		},
	}

	filter := bson.M{"_id": objectID, "amount_paid": booking.AmountPaid}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return fmt.Errorf("failed to check booking: %w", err)
		}
		if count == 0 {
			return bookingserrors.ErrNotFound
		}
		return bookingserrors.ErrStaleBooking
	}

	return nil
}

func (r *mongoBookingRepository) SetItinerary(ctx context.Context, id string, days []model.ItineraryDay) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{"itinerary": days, "updated_at": mongotx.Now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update itinerary: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}
