package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	paymentserrors "bondvoyage/internal/payments/errors"
	"bondvoyage/internal/payments/repository"
	"bondvoyage/internal/payments/validator"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/billing"
	"bondvoyage/pkg/config"
	mongotx "bondvoyage/pkg/db/mongo"
	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/export"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/sanitizer"
	"bondvoyage/pkg/validation"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Filter names accepted by the payment list and export endpoints.
const (
	FilterStatus = "status"
	FilterMode   = "mode"
	FilterType   = "type"
)

var ListFilters = []string{FilterStatus, FilterMode, FilterType}

type PaymentService interface {
	Submit(ctx context.Context, bookingID string, req *model.PaymentRequest) (*model.PaymentSubmission, error)
	History(ctx context.Context, bookingID string, q listview.Query) (listview.Page[model.PaymentSubmission], error)
	Summary(ctx context.Context, bookingID string) (billing.Summary, error)
	List(ctx context.Context, q listview.Query) (listview.Page[model.PaymentListing], error)
	Export(ctx context.Context, q listview.Query) (export.Table, error)
	Verify(ctx context.Context, bookingID, paymentID string) (*model.PaymentSubmission, error)
	Reject(ctx context.Context, bookingID, paymentID string, review *model.PaymentReview) (*model.PaymentSubmission, error)
	GetSettings(ctx context.Context) (*model.PaymentSettings, error)
	UpdateSettings(ctx context.Context, settings *model.PaymentSettings) (*model.PaymentSettings, error)
}

type paymentService struct {
	repo      repository.PaymentRepository
	validator *validator.PaymentValidator
	recorder  audit.Recorder
	cfg       *config.Config
}

func NewPaymentService(
	repo repository.PaymentRepository,
	validator *validator.PaymentValidator,
	recorder audit.Recorder,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		repo:      repo,
		validator: validator,
		recorder:  recorder,
		cfg:       cfg,
	}
}

// Submit records a pending submission and adds its amount to the booking's
// paid total. The amount counts immediately; rejecting it later takes it back.
func (s *paymentService) Submit(ctx context.Context, bookingID string, req *model.PaymentRequest) (*model.PaymentSubmission, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	sanitizer.PaymentRequest(req)

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load payment settings", "error", err)
		return nil, apperrors.Internal("Failed to load payment settings", err)
	}

	if err := s.validator.ValidateRequest(req, settings); err != nil {
		s.cfg.Log.Warn("Payment validation failed", "booking_id", bookingID, "error", err)
		return nil, validationError("Payment validation failed", err)
	}

	var submission *model.PaymentSubmission
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindBooking(sessCtx, bookingID)
		if err != nil {
			return err
		}

		if err := checkAgainstBooking(booking, req, settings); err != nil {
			return err
		}

		submission = &model.PaymentSubmission{
			ID:             uuid.NewString(),
			BookingID:      booking.ID,
			Type:           req.Type,
			Amount:         req.Amount,
			Mode:           req.Mode,
			ProofReference: req.ProofReference,
			SubmittedAt:    mongotx.Now(),
			Status:         model.PaymentStatusPending,
		}
		history := append(slices.Clip(booking.PaymentHistory), *submission)
		paid := billing.Repaid(booking.AmountPaid, booking.PaymentHistory, history)
		return s.repo.AppendSubmission(sessCtx, bookingID, booking.AmountPaid, paid, submission)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			s.cfg.Log.Warn("Payment rejected", "booking_id", bookingID, "amount", req.Amount, "error", err)
			return nil, err
		}
		s.cfg.Log.Error("Failed to submit payment", "booking_id", bookingID, "amount", req.Amount, "error", err)
		return nil, translateRepoError(err, bookingID, "Failed to submit payment")
	}

	s.cfg.Log.Info("Payment submitted successfully",
		"booking_id", bookingID,
		"payment_id", submission.ID,
		"type", submission.Type,
		"mode", submission.Mode,
		"amount", submission.Amount,
	)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Submitted payment",
		Category: model.CategoryPayment,
		Details:  fmt.Sprintf("%s %s payment of %s for booking %s", submission.Mode, submission.Type, export.Money(submission.Amount), bookingID),
	})
	return submission, nil
}

// checkAgainstBooking enforces the balance rules. A Full payment must settle
// the balance exactly; a Partial payment may not exceed it and, unless it
// settles the balance, must reach the configured minimum share of the total.
func checkAgainstBooking(booking *model.Booking, req *model.PaymentRequest, settings *model.PaymentSettings) error {
	if booking.Status == model.BookingStatusCancelled {
		return apperrors.Conflict("Cannot accept payments for a cancelled booking")
	}

	balance := booking.Summary().Balance
	if billing.Cents(balance) <= 0 {
		return apperrors.Conflict("Booking is already fully paid")
	}

	if billing.Cents(req.Amount) > billing.Cents(balance) {
		return apperrors.Validation("Payment validation failed", validation.Field("amount",
			fmt.Sprintf("amount exceeds balance of %s", export.Money(balance))).Details())
	}

	switch req.Type {
	case model.PaymentTypeFull:
		if billing.Cents(req.Amount) != billing.Cents(balance) {
			return apperrors.Validation("Payment validation failed", validation.Field("amount",
				fmt.Sprintf("full payment must equal the remaining balance of %s", export.Money(balance))).Details())
		}
	case model.PaymentTypePartial:
		minimum := booking.TotalAmount * float64(settings.MinPartialPercent) / 100
		if billing.Cents(req.Amount) < billing.Cents(minimum) && billing.Cents(req.Amount) != billing.Cents(balance) {
			return apperrors.Validation("Payment validation failed", validation.Field("amount",
				fmt.Sprintf("partial payment must be at least %d%% of the total (%s)", settings.MinPartialPercent, export.Money(minimum))).Details())
		}
	}

	return nil
}

func (s *paymentService) History(ctx context.Context, bookingID string, q listview.Query) (listview.Page[model.PaymentSubmission], error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return listview.Page[model.PaymentSubmission]{}, err
	}

	q = q.WithPageSize(s.cfg.PageSizePayments)
	page := historySpec(q).Page(booking.PaymentHistory, q.Page, s.cfg.NormalizePageSize(q.PageSize, s.cfg.PageSizePayments))
	page.FilterKey = q.FilterKey
	return page, nil
}

func (s *paymentService) Summary(ctx context.Context, bookingID string) (billing.Summary, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return billing.Summary{}, err
	}
	return booking.Summary(), nil
}

func (s *paymentService) List(ctx context.Context, q listview.Query) (listview.Page[model.PaymentListing], error) {
	listings, err := s.listings(ctx)
	if err != nil {
		return listview.Page[model.PaymentListing]{}, err
	}

	q = q.WithPageSize(s.cfg.PageSizePayments)
	page := ListSpec(q).Page(listings, q.Page, s.cfg.NormalizePageSize(q.PageSize, s.cfg.PageSizePayments))
	page.FilterKey = q.FilterKey
	return page, nil
}

func (s *paymentService) Export(ctx context.Context, q listview.Query) (export.Table, error) {
	listings, err := s.listings(ctx)
	if err != nil {
		return export.Table{}, err
	}

	table := PaymentTable("Payments Report", ListSpec(q).Apply(listings))
	s.recorder.Record(ctx, audit.Event{
		Action:   "Exported payments",
		Category: model.CategoryPayment,
		Details:  fmt.Sprintf("%d records", len(table.Rows)),
	})
	return table, nil
}

func (s *paymentService) Verify(ctx context.Context, bookingID, paymentID string) (*model.PaymentSubmission, error) {
	payment, err := s.pendingPayment(ctx, bookingID, paymentID)
	if err != nil {
		return nil, err
	}

	now := mongotx.Now()
	if err := s.repo.MarkVerified(ctx, bookingID, paymentID, now); err != nil {
		s.cfg.Log.Error("Failed to verify payment", "booking_id", bookingID, "payment_id", paymentID, "error", err)
		return nil, translateRepoError(err, bookingID, "Failed to verify payment")
	}

	payment.Status = model.PaymentStatusVerified
	payment.ReviewedAt = &now

	s.cfg.Log.Info("Payment verified", "booking_id", bookingID, "payment_id", paymentID, "amount", payment.Amount)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Verified payment",
		Category: model.CategoryPayment,
		Details:  fmt.Sprintf("%s of %s for booking %s", paymentID, export.Money(payment.Amount), bookingID),
	})
	return payment, nil
}

func (s *paymentService) Reject(ctx context.Context, bookingID, paymentID string, review *model.PaymentReview) (*model.PaymentSubmission, error) {
	review.Reason = sanitizer.NormalizeText(review.Reason)
	if err := s.validator.ValidateRejection(review); err != nil {
		s.cfg.Log.Warn("Payment rejection validation failed", "payment_id", paymentID, "error", err)
		return nil, validationError("Rejection reason is required", err)
	}

	var payment *model.PaymentSubmission
	now := mongotx.Now()
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.findBooking(sessCtx, bookingID)
		if err != nil {
			return err
		}
		if payment, err = pendingIn(booking, paymentID); err != nil {
			return err
		}

		history := slices.Clone(booking.PaymentHistory)
		for i := range history {
			if history[i].ID == paymentID {
				history[i].Status = model.PaymentStatusRejected
			}
		}
		paid := billing.Repaid(booking.AmountPaid, booking.PaymentHistory, history)
		return s.repo.MarkRejected(sessCtx, bookingID, paymentID, booking.AmountPaid, paid, review.Reason, now)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to reject payment", "booking_id", bookingID, "payment_id", paymentID, "error", err)
		return nil, translateRepoError(err, bookingID, "Failed to reject payment")
	}

	payment.Status = model.PaymentStatusRejected
	payment.Reason = review.Reason
	payment.ReviewedAt = &now

	s.cfg.Log.Info("Payment rejected", "booking_id", bookingID, "payment_id", paymentID, "reason", review.Reason)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Rejected payment",
		Category: model.CategoryPayment,
		Details:  fmt.Sprintf("%s for booking %s: %s", paymentID, bookingID, review.Reason),
		Status:   model.OutcomeWarning,
	})
	return payment, nil
}

func (s *paymentService) GetSettings(ctx context.Context) (*model.PaymentSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load payment settings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve payment settings", err)
	}
	return settings, nil
}

func (s *paymentService) UpdateSettings(ctx context.Context, settings *model.PaymentSettings) (*model.PaymentSettings, error) {
	sanitizer.PaymentSettings(settings, s.cfg.PhoneRegion)
	if err := s.validator.ValidateSettings(settings); err != nil {
		s.cfg.Log.Warn("Payment settings validation failed", "error", err)
		return nil, validationError("Payment settings validation failed", err)
	}

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		s.cfg.Log.Error("Failed to save payment settings", "error", err)
		return nil, apperrors.Internal("Failed to save payment settings", err)
	}

	s.cfg.Log.Info("Payment settings updated",
		"accepted_modes", settings.AcceptedModes,
		"min_partial_percent", settings.MinPartialPercent,
	)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Updated payment settings",
		Category: model.CategoryPayment,
		Details:  fmt.Sprintf("modes %s, minimum partial %d%%", strings.Join(settings.AcceptedModes, "/"), settings.MinPartialPercent),
	})
	return settings, nil
}

// --- Pipelines ---

func searchFields(p model.PaymentListing) []string {
	return []string{p.ID, p.BookingID, p.CustomerName, p.Destination, p.ProofReference}
}

// ListSpec filters the cross-booking view by search, status, mode, type,
// submission date and amount, sorted by submission date.
func ListSpec(q listview.Query) listview.Spec[model.PaymentListing] {
	return listview.Spec[model.PaymentListing]{
		Predicates: []listview.Predicate[model.PaymentListing]{
			listview.MatchText(q.Search, searchFields),
			listview.Equals(q.Value(FilterStatus), func(p model.PaymentListing) string { return p.Status }),
			listview.Equals(q.Value(FilterMode), func(p model.PaymentListing) string { return p.Mode }),
			listview.Equals(q.Value(FilterType), func(p model.PaymentListing) string { return p.Type }),
			listview.InDateRange(q.Dates, func(p model.PaymentListing) time.Time { return p.SubmittedAt }),
			listview.InNumberRange(q.Amounts, func(p model.PaymentListing) float64 { return p.Amount }),
		},
		Sort:      q.Sort,
		SortField: func(p model.PaymentListing) time.Time { return p.SubmittedAt },
	}
}

func historySpec(q listview.Query) listview.Spec[model.PaymentSubmission] {
	return listview.Spec[model.PaymentSubmission]{
		Predicates: []listview.Predicate[model.PaymentSubmission]{
			listview.Equals(q.Value(FilterStatus), func(p model.PaymentSubmission) string { return p.Status }),
			listview.Equals(q.Value(FilterMode), func(p model.PaymentSubmission) string { return p.Mode }),
			listview.InDateRange(q.Dates, func(p model.PaymentSubmission) time.Time { return p.SubmittedAt }),
		},
		Sort:      q.Sort,
		SortField: func(p model.PaymentSubmission) time.Time { return p.SubmittedAt },
	}
}

var PaymentColumns = []string{
	"Payment ID", "Booking ID", "Customer Name", "Destination", "Type", "Mode",
	"Amount", "Status", "Submitted At", "Reviewed At", "Proof Reference", "Reason",
}

func PaymentTable(title string, listings []model.PaymentListing) export.Table {
	rows := make([]map[string]string, 0, len(listings))
	for _, p := range listings {
		reviewed := ""
		if p.ReviewedAt != nil {
			reviewed = export.DateTime(*p.ReviewedAt)
		}
		rows = append(rows, map[string]string{
			"paymentid":      p.ID,
			"bookingid":      p.BookingID,
			"customername":   p.CustomerName,
			"destination":    p.Destination,
			"type":           p.Type,
			"mode":           p.Mode,
			"amount":         export.Money(p.Amount),
			"status":         p.Status,
			"submittedat":    export.DateTime(p.SubmittedAt),
			"reviewedat":     reviewed,
			"proofreference": p.ProofReference,
			"reason":         p.Reason,
		})
	}
	return export.Table{Title: title, Columns: PaymentColumns, Rows: rows}
}

// --- Helpers ---

func (s *paymentService) findBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, translateRepoError(err, bookingID, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *paymentService) listings(ctx context.Context) ([]model.PaymentListing, error) {
	bookings, err := s.repo.FindAllBookings(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list payments", "error", err)
		return nil, apperrors.Internal("Failed to retrieve payments", err)
	}

	var listings []model.PaymentListing
	for _, b := range bookings {
		for _, p := range b.PaymentHistory {
			if p.BookingID == "" {
				p.BookingID = b.ID
			}
			listings = append(listings, model.PaymentListing{
				PaymentSubmission: p,
				CustomerName:      b.CustomerName,
				Destination:       b.Destination,
				BookingTotal:      b.TotalAmount,
			})
		}
	}
	return listings, nil
}

// pendingPayment returns a copy of the submission when it can still be
// reviewed.
func (s *paymentService) pendingPayment(ctx context.Context, bookingID, paymentID string) (*model.PaymentSubmission, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return pendingIn(booking, paymentID)
}

func pendingIn(booking *model.Booking, paymentID string) (*model.PaymentSubmission, error) {
	for _, p := range booking.PaymentHistory {
		if p.ID != paymentID {
			continue
		}
		if p.Status != model.PaymentStatusPending {
			return nil, apperrors.Conflict(fmt.Sprintf("Payment is already %s", strings.ToLower(p.Status)))
		}
		return &p, nil
	}

	return nil, apperrors.NotFoundWithID("Payment", paymentID)
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func translateRepoError(err error, bookingID, message string) error {
	switch {
	case errors.Is(err, paymentserrors.ErrBookingNotFound):
		return apperrors.NotFoundWithID("Booking", bookingID)
	case errors.Is(err, paymentserrors.ErrInvalidBookingID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, paymentserrors.ErrStaleBooking):
		return apperrors.Conflict("Booking was updated by another request; reload and try again")
	case errors.Is(err, paymentserrors.ErrNotPending):
		return apperrors.Conflict("Payment is no longer pending")
	case errors.Is(err, mongotx.ErrTransactionsUnsupported):
		return apperrors.Unavailable("Payment processing")
	default:
		return apperrors.Internal(message, err)
	}
}
