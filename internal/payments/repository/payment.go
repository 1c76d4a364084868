package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingsrepo "bondvoyage/internal/bookings/repository"
	paymentserrors "bondvoyage/internal/payments/errors"
	"bondvoyage/pkg/config"
	mongotx "bondvoyage/pkg/db/mongo"
	"bondvoyage/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SettingsCollectionName = "payment_settings"
)

// PaymentRepository works on the payment_history array embedded in each
// booking and on the singleton settings document.
type PaymentRepository interface {
	FindBooking(ctx context.Context, bookingID string) (*model.Booking, error)
	FindAllBookings(ctx context.Context) ([]*model.Booking, error)
	AppendSubmission(ctx context.Context, bookingID string, expectedPaid, paid float64, submission *model.PaymentSubmission) error
	MarkVerified(ctx context.Context, bookingID, paymentID string, at time.Time) error
	MarkRejected(ctx context.Context, bookingID, paymentID string, expectedPaid, paid float64, reason string, at time.Time) error
	GetSettings(ctx context.Context) (*model.PaymentSettings, error)
	SaveSettings(ctx context.Context, settings *model.PaymentSettings) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoPaymentRepository struct {
	cfg       *config.Config
	bookings  *mongo.Collection
	settings  *mongo.Collection
	txManager mongotx.TransactionManager
}

func NewMongoPaymentRepository(cfg *config.Config) PaymentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPaymentRepository{
		cfg:       cfg,
		bookings:  db.Collection(bookingsrepo.CollectionName),
		settings:  db.Collection(SettingsCollectionName),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoPaymentRepository) FindBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := objectIDFromHex(bookingID)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	err = r.bookings.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, paymentserrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return booking.Derive(), nil
}

// FindAllBookings loads every booking that has at least one submission, with
// only the fields the payments views need.
func (r *mongoPaymentRepository) FindAllBookings(ctx context.Context) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"payment_history.0": bson.M{"$exists": true}}
	opts := options.Find().
		SetProjection(bson.M{
			"customer_name":   1,
			"destination":     1,
			"total_amount":    1,
			"amount_paid":     1,
			"payment_history": 1,
		}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings with payments: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// AppendSubmission pushes the submission and sets amount_paid to paid in one
// write. The filter pins the paid amount the caller read, so a concurrent
// submission makes this fail with ErrStaleBooking instead of overwriting.
func (r *mongoPaymentRepository) AppendSubmission(ctx context.Context, bookingID string, expectedPaid, paid float64, submission *model.PaymentSubmission) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := objectIDFromHex(bookingID)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": objectID, "amount_paid": expectedPaid}
	update := bson.M{
		"$push": bson.M{"payment_history": submission},
		"$set": bson.M{
			"amount_paid": paid,
			"updated_at":  mongotx.Now(),
		},
	}

	result, err := r.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to append payment: %w", err)
	}

	if result.MatchedCount == 0 {
		return r.missOrStale(ctx, objectID)
	}
	return nil
}

func (r *mongoPaymentRepository) MarkVerified(ctx context.Context, bookingID, paymentID string, at time.Time) error {
	return r.review(ctx, bookingID, paymentID, nil, bson.M{
		"$set": bson.M{
			"payment_history.$.status":      model.PaymentStatusVerified,
			"payment_history.$.reviewed_at": at,
			"updated_at":                    at,
		},
	})
}

// MarkRejected also sets amount_paid to paid, the total recomputed without
// the rejected amount. Like AppendSubmission it pins expectedPaid.
func (r *mongoPaymentRepository) MarkRejected(ctx context.Context, bookingID, paymentID string, expectedPaid, paid float64, reason string, at time.Time) error {
	return r.review(ctx, bookingID, paymentID, &expectedPaid, bson.M{
		"$set": bson.M{
			"payment_history.$.status":      model.PaymentStatusRejected,
			"payment_history.$.reason":      reason,
			"payment_history.$.reviewed_at": at,
			"amount_paid":                   paid,
			"updated_at":                    at,
		},
	})
}

// review updates a submission that is still pending. With expectedPaid set,
// a miss on a booking whose submission is still pending is a lost race and
// reports ErrStaleBooking.
func (r *mongoPaymentRepository) review(ctx context.Context, bookingID, paymentID string, expectedPaid *float64, update bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := objectIDFromHex(bookingID)
	if err != nil {
		return err
	}

	pending := bson.M{
		"_id": objectID,
		"payment_history": bson.M{"$elemMatch": bson.M{
			"id":     paymentID,
			"status": model.PaymentStatusPending,
		}},
	}
	filter := pending
	if expectedPaid != nil {
		filter = bson.M{"_id": objectID, "payment_history": pending["payment_history"], "amount_paid": *expectedPaid}
	}

	result, err := r.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to review payment: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	if expectedPaid != nil {
		count, err := r.bookings.CountDocuments(ctx, pending)
		if err != nil {
			return fmt.Errorf("failed to check payment: %w", err)
		}
		if count > 0 {
			return paymentserrors.ErrStaleBooking
		}
	}
	return paymentserrors.ErrNotPending
}

// GetSettings returns the stored settings or the defaults when none were saved.
func (r *mongoPaymentRepository) GetSettings(ctx context.Context) (*model.PaymentSettings, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var settings model.PaymentSettings
	err := r.settings.FindOne(ctx, bson.M{"_id": model.PaymentSettingsID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.DefaultPaymentSettings(), nil
		}
		return nil, fmt.Errorf("failed to find payment settings: %w", err)
	}

	return &settings, nil
}

func (r *mongoPaymentRepository) SaveSettings(ctx context.Context, settings *model.PaymentSettings) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	settings.ID = model.PaymentSettingsID
	settings.UpdatedAt = mongotx.Now()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.settings.ReplaceOne(ctx, bson.M{"_id": settings.ID}, settings, opts); err != nil {
		return fmt.Errorf("failed to save payment settings: %w", err)
	}
	return nil
}

func (r *mongoPaymentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// missOrStale tells a deleted booking apart from a lost optimistic race.
func (r *mongoPaymentRepository) missOrStale(ctx context.Context, objectID primitive.ObjectID) error {
	count, err := r.bookings.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to check booking: %w", err)
	}
	if count == 0 {
		return paymentserrors.ErrBookingNotFound
	}
	return paymentserrors.ErrStaleBooking
}

func objectIDFromHex(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", paymentserrors.ErrInvalidBookingID, id)
	}
	return objectID, nil
}
