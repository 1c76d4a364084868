package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	bookingserrors "bondvoyage/internal/bookings/errors"
	"bondvoyage/internal/bookings/repository"
	"bondvoyage/internal/bookings/validator"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/config"
	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/export"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/sanitizer"
	"bondvoyage/pkg/validation"
)

// Filter names accepted by the list and export endpoints.
const (
	FilterType          = "type"
	FilterStatus        = "status"
	FilterPaymentStatus = "payment_status"
)

var ListFilters = []string{FilterType, FilterStatus, FilterPaymentStatus}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, q listview.Query) (listview.Page[*model.Booking], error)
	History(ctx context.Context, q listview.Query) (listview.Page[*model.Booking], error)
	Export(ctx context.Context, q listview.Query, history bool) (export.Table, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	GetItinerary(ctx context.Context, id string) ([]model.ItineraryDay, error)
	ReplaceItinerary(ctx context.Context, id string, update *model.ItineraryUpdate) ([]model.ItineraryDay, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	recorder  audit.Recorder
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	recorder audit.Recorder,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		recorder:  recorder,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	sanitizer.Booking(booking, s.cfg.PhoneRegion)
	if err := s.validate(booking); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}
	booking.Derive()

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"destination", booking.Destination,
		"start_date", booking.StartDate,
		"total_amount", booking.TotalAmount,
	)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Created booking",
		Category: model.CategoryBooking,
		Details:  fmt.Sprintf("%s for %s to %s", booking.ID, booking.CustomerName, booking.Destination),
	})
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id, "Failed to retrieve booking")
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, q listview.Query) (listview.Page[*model.Booking], error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return listview.Page[*model.Booking]{}, apperrors.Internal("Failed to retrieve bookings", err)
	}

	q = q.WithPageSize(s.cfg.PageSizeBookings)
	page := ListSpec(q).Page(bookings, q.Page, s.cfg.NormalizePageSize(q.PageSize, s.cfg.PageSizeBookings))
	page.FilterKey = q.FilterKey
	return page, nil
}

func (s *bookingService) History(ctx context.Context, q listview.Query) (listview.Page[*model.Booking], error) {
	bookings, err := s.repo.FindAll(ctx, model.BookingStatusCompleted, model.BookingStatusCancelled)
	if err != nil {
		s.cfg.Log.Error("Failed to list booking history", "error", err)
		return listview.Page[*model.Booking]{}, apperrors.Internal("Failed to retrieve booking history", err)
	}

	q = q.WithPageSize(s.cfg.PageSizeBookings)
	page := HistorySpec(q).Page(bookings, q.Page, s.cfg.NormalizePageSize(q.PageSize, s.cfg.PageSizeBookings))
	page.FilterKey = q.FilterKey
	return page, nil
}

func (s *bookingService) Export(ctx context.Context, q listview.Query, history bool) (export.Table, error) {
	var (
		bookings []*model.Booking
		err      error
		spec     listview.Spec[*model.Booking]
		title    = "Bookings Report"
	)
	if history {
		bookings, err = s.repo.FindAll(ctx, model.BookingStatusCompleted, model.BookingStatusCancelled)
		spec = HistorySpec(q)
		title = "Booking History Report"
	} else {
		bookings, err = s.repo.FindAll(ctx)
		spec = ListSpec(q)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for export", "error", err)
		return export.Table{}, apperrors.Internal("Failed to export bookings", err)
	}

	table := BookingTable(title, spec.Apply(bookings))
	s.recorder.Record(ctx, audit.Event{
		Action:   "Exported bookings",
		Category: model.CategoryBooking,
		Details:  fmt.Sprintf("%s: %d records", title, len(table.Rows)),
	})
	return table, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	sanitizer.BookingUpdate(updates, s.cfg.PhoneRegion)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, validationError("Invalid update input", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id, "Failed to check booking existence")
	}

	merged := mergeBookingUpdates(existing, updates)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, s.translateRepoError(err, id, "Failed to update booking")
	}
	merged.Derive()

	s.cfg.Log.Info("Booking updated successfully", "id", id, "status", merged.Status)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Updated booking",
		Category: model.CategoryBooking,
		Details:  fmt.Sprintf("%s status %s", id, merged.Status),
	})
	return merged, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete booking", "id", id, "error", err)
		return s.translateRepoError(err, id, "Failed to delete booking")
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Deleted booking",
		Category: model.CategoryBooking,
		Details:  id,
	})
	return nil
}

func (s *bookingService) GetItinerary(ctx context.Context, id string) ([]model.ItineraryDay, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Itinerary == nil {
		return []model.ItineraryDay{}, nil
	}
	return booking.Itinerary, nil
}

// ReplaceItinerary stores days ordered by day number.
func (s *bookingService) ReplaceItinerary(ctx context.Context, id string, update *model.ItineraryUpdate) ([]model.ItineraryDay, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	sanitizer.Itinerary(update.Days)
	if err := s.validator.ValidateItinerary(update); err != nil {
		s.cfg.Log.Warn("Itinerary validation failed", "id", id, "error", err)
		return nil, validationError("Itinerary validation failed", err)
	}

	days := update.Days
	if days == nil {
		days = []model.ItineraryDay{}
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Day < days[j].Day })

	if err := s.repo.SetItinerary(ctx, id, days); err != nil {
		s.cfg.Log.Error("Failed to update itinerary", "id", id, "error", err)
		return nil, s.translateRepoError(err, id, "Failed to update itinerary")
	}

	s.cfg.Log.Info("Itinerary updated successfully", "id", id, "days", len(days))
	s.recorder.Record(ctx, audit.Event{
		Action:   "Updated itinerary",
		Category: model.CategoryBooking,
		Details:  fmt.Sprintf("%s: %d days", id, len(days)),
	})
	return days, nil
}

// --- Pipelines ---

func bookingSearchFields(b *model.Booking) []string {
	return []string{b.ID, b.CustomerName, b.Email, b.Destination}
}

// ListSpec filters by search, type, booking status, payment status, start date
// and total amount, sorted by start date.
func ListSpec(q listview.Query) listview.Spec[*model.Booking] {
	return listview.Spec[*model.Booking]{
		Predicates: []listview.Predicate[*model.Booking]{
			listview.MatchText(q.Search, bookingSearchFields),
			listview.Equals(q.Value(FilterType), func(b *model.Booking) string { return b.Type }),
			listview.Equals(q.Value(FilterStatus), func(b *model.Booking) string { return b.Status }),
			listview.Equals(q.Value(FilterPaymentStatus), func(b *model.Booking) string { return string(b.PaymentStatus) }),
			listview.InDateRange(q.Dates, func(b *model.Booking) time.Time { return b.StartDate }),
			listview.InNumberRange(q.Amounts, func(b *model.Booking) float64 { return b.TotalAmount }),
		},
		Sort:      q.Sort,
		SortField: func(b *model.Booking) time.Time { return b.StartDate },
	}
}

// HistorySpec is ListSpec sorted by creation date.
func HistorySpec(q listview.Query) listview.Spec[*model.Booking] {
	spec := ListSpec(q)
	spec.SortField = func(b *model.Booking) time.Time { return b.CreatedAt }
	return spec
}

var BookingColumns = []string{
	"Booking ID", "Customer Name", "Email", "Phone", "Destination",
	"Start Date", "End Date", "Travelers", "Type", "Status",
	"Total Amount", "Amount Paid", "Balance", "Payment Status",
}

func BookingTable(title string, bookings []*model.Booking) export.Table {
	rows := make([]map[string]string, 0, len(bookings))
	for _, b := range bookings {
		summary := b.Summary()
		rows = append(rows, map[string]string{
			"bookingid":     b.ID,
			"customername":  b.CustomerName,
			"email":         b.Email,
			"phone":         b.Phone,
			"destination":   b.Destination,
			"startdate":     export.Date(b.StartDate),
			"enddate":       export.Date(b.EndDate),
			"travelers":     strconv.Itoa(b.Travelers),
			"type":          b.Type,
			"status":        b.Status,
			"totalamount":   export.Money(summary.Total),
			"amountpaid":    export.Money(summary.Paid),
			"balance":       export.Money(summary.Balance),
			"paymentstatus": string(summary.Status),
		})
	}
	return export.Table{Title: title, Columns: BookingColumns, Rows: rows}
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.BookingStatusPending
	}
	if b.Type == "" {
		b.Type = model.BookingTypeStandard
	}
	if b.PaymentHistory == nil {
		b.PaymentHistory = []model.PaymentSubmission{}
	}
}

func mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.CustomerName != "" {
		merged.CustomerName = updates.CustomerName
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Destination != "" {
		merged.Destination = updates.Destination
	}
	if updates.StartDate != nil {
		merged.StartDate = *updates.StartDate
	}
	if updates.EndDate != nil {
		merged.EndDate = *updates.EndDate
	}
	if updates.Travelers != nil {
		merged.Travelers = *updates.Travelers
	}
	if updates.TotalAmount != nil {
		merged.TotalAmount = *updates.TotalAmount
	}
	if updates.Type != "" {
		merged.Type = updates.Type
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return validationError("Booking validation failed", err)
	}
	return nil
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func (s *bookingService) translateRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, bookingserrors.ErrStaleBooking):
		return apperrors.Conflict("Booking payments changed while updating; reload and retry")
	default:
		return apperrors.Internal(message, err)
	}
}
