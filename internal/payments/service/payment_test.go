package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	paymentserrors "bondvoyage/internal/payments/errors"
	"bondvoyage/internal/payments/validator"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/billing"
	"bondvoyage/pkg/config"
	mongotx "bondvoyage/pkg/db/mongo"
	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
)

const bookingID = "6650f0c2a1b2c3d4e5f60718"

// ────────────────────────────────────────────────
// Mock repository for testing
// ────────────────────────────────────────────────

type mockPaymentRepository struct {
	bookings  map[string]*model.Booking
	settings  *model.PaymentSettings
	appendErr error

	appended     *model.PaymentSubmission
	expectedPaid float64
	verified     string
	rejected     string
	paid         float64
	reason       string
	saved        *model.PaymentSettings
}

func (m *mockPaymentRepository) FindBooking(ctx context.Context, id string) (*model.Booking, error) {
	if len(id) != 24 {
		return nil, paymentserrors.ErrInvalidBookingID
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, paymentserrors.ErrBookingNotFound
	}
	found := *b
	found.PaymentHistory = append([]model.PaymentSubmission(nil), b.PaymentHistory...)
	return found.Derive(), nil
}

func (m *mockPaymentRepository) FindAllBookings(ctx context.Context) ([]*model.Booking, error) {
	out := make([]*model.Booking, 0, len(m.bookings))
	for _, id := range []string{bookingID, "6650f0c2a1b2c3d4e5f60719"} {
		if b, ok := m.bookings[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// AppendSubmission and MarkRejected apply the write to the stored booking the
// way the Mongo updates do, guard on amount_paid included.
func (m *mockPaymentRepository) AppendSubmission(ctx context.Context, id string, expectedPaid, paid float64, submission *model.PaymentSubmission) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	b := m.bookings[id]
	if b.AmountPaid != expectedPaid {
		return paymentserrors.ErrStaleBooking
	}
	b.PaymentHistory = append(b.PaymentHistory, *submission)
	b.AmountPaid = paid
	m.appended = submission
	m.expectedPaid = expectedPaid
	m.paid = paid
	return nil
}

func (m *mockPaymentRepository) MarkVerified(ctx context.Context, id, paymentID string, at time.Time) error {
	m.verified = paymentID
	return nil
}

func (m *mockPaymentRepository) MarkRejected(ctx context.Context, id, paymentID string, expectedPaid, paid float64, reason string, at time.Time) error {
	b := m.bookings[id]
	if b.AmountPaid != expectedPaid {
		return paymentserrors.ErrStaleBooking
	}
	for i := range b.PaymentHistory {
		if b.PaymentHistory[i].ID == paymentID {
			b.PaymentHistory[i].Status = model.PaymentStatusRejected
			b.PaymentHistory[i].Reason = reason
		}
	}
	b.AmountPaid = paid
	m.rejected = paymentID
	m.expectedPaid = expectedPaid
	m.paid = paid
	m.reason = reason
	return nil
}

func (m *mockPaymentRepository) GetSettings(ctx context.Context) (*model.PaymentSettings, error) {
	if m.settings == nil {
		return model.DefaultPaymentSettings(), nil
	}
	return m.settings, nil
}

func (m *mockPaymentRepository) SaveSettings(ctx context.Context, settings *model.PaymentSettings) error {
	m.saved = settings
	return nil
}

func (m *mockPaymentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func newTestService(repo *mockPaymentRepository) (PaymentService, *audit.Memory) {
	cfg := &config.Config{
		Log:              logger.Discard(),
		PhoneRegion:      "PH",
		PageSizePayments: 5,
		MaxPageSize:      100,
	}
	rec := &audit.Memory{}
	return NewPaymentService(repo, validator.NewPaymentValidator(cfg.Log), rec, cfg), rec
}

func submittedAt(day int) time.Time {
	return time.Date(2025, 5, day, 10, 0, 0, 0, time.UTC)
}

func bookingWithPayments() *model.Booking {
	return &model.Booking{
		ID:           bookingID,
		CustomerName: "Ana Reyes",
		Destination:  "Siargao",
		TotalAmount:  10000,
		AmountPaid:   7000,
		Status:       model.BookingStatusConfirmed,
		PaymentHistory: []model.PaymentSubmission{
			{ID: "p1", BookingID: bookingID, Type: "Partial", Amount: 3000, Mode: "Cash", Status: model.PaymentStatusVerified, SubmittedAt: submittedAt(1)},
			{ID: "p2", BookingID: bookingID, Type: "Partial", Amount: 4000, Mode: "Gcash", ProofReference: "GC-991", Status: model.PaymentStatusPending, SubmittedAt: submittedAt(3)},
			{ID: "p0", BookingID: bookingID, Type: "Partial", Amount: 500, Mode: "Cash", Status: model.PaymentStatusRejected, Reason: "bounced", SubmittedAt: submittedAt(2)},
		},
	}
}

func newRepo(bookings ...*model.Booking) *mockPaymentRepository {
	repo := &mockPaymentRepository{bookings: map[string]*model.Booking{}}
	for _, b := range bookings {
		stored := *b
		stored.PaymentHistory = append([]model.PaymentSubmission(nil), b.PaymentHistory...)
		repo.bookings[b.ID] = &stored
	}
	return repo
}

// ────────────────────────────────────────────────
// Tests for Submit()
// ────────────────────────────────────────────────

func TestSubmit(t *testing.T) {
	unpaid := func() *model.Booking {
		return &model.Booking{ID: bookingID, TotalAmount: 10000, Status: model.BookingStatusPending}
	}

	tests := []struct {
		name     string
		booking  *model.Booking
		settings *model.PaymentSettings
		req      model.PaymentRequest
		wantCode string
		wantMsg  string
	}{
		{
			name:    "partial cash",
			booking: unpaid(),
			req:     model.PaymentRequest{Type: "Partial", Amount: 3000, Mode: "Cash"},
		},
		{
			name:    "full gcash settles balance",
			booking: bookingWithPayments(),
			req:     model.PaymentRequest{Type: "Full", Amount: 3000, Mode: "Gcash", ProofReference: " GC-1001 "},
		},
		{
			name:     "amount exceeds balance",
			booking:  bookingWithPayments(),
			req:      model.PaymentRequest{Type: "Partial", Amount: 3000.01, Mode: "Cash"},
			wantCode: apperrors.CodeValidation,
			wantMsg:  "amount exceeds balance",
		},
		{
			name:     "full below balance",
			booking:  unpaid(),
			req:      model.PaymentRequest{Type: "Full", Amount: 9000, Mode: "Cash"},
			wantCode: apperrors.CodeValidation,
			wantMsg:  "full payment must equal",
		},
		{
			name:     "partial below minimum share",
			booking:  unpaid(),
			settings: &model.PaymentSettings{AcceptedModes: []string{"Cash"}, MinPartialPercent: 30},
			req:      model.PaymentRequest{Type: "Partial", Amount: 2000, Mode: "Cash"},
			wantCode: apperrors.CodeValidation,
			wantMsg:  "at least 30%",
		},
		{
			name:     "partial settling small remainder ignores minimum",
			booking:  &model.Booking{ID: bookingID, TotalAmount: 10000, AmountPaid: 9500, Status: model.BookingStatusConfirmed},
			settings: &model.PaymentSettings{AcceptedModes: []string{"Cash"}, MinPartialPercent: 30},
			req:      model.PaymentRequest{Type: "Partial", Amount: 500, Mode: "Cash"},
		},
		{
			name:     "mode not accepted",
			booking:  unpaid(),
			settings: &model.PaymentSettings{AcceptedModes: []string{"Cash"}},
			req:      model.PaymentRequest{Type: "Partial", Amount: 1000, Mode: "Gcash", ProofReference: "x"},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "gcash without proof",
			booking:  unpaid(),
			req:      model.PaymentRequest{Type: "Partial", Amount: 1000, Mode: "Gcash"},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "already paid",
			booking:  &model.Booking{ID: bookingID, TotalAmount: 10000, AmountPaid: 10000, Status: model.BookingStatusConfirmed},
			req:      model.PaymentRequest{Type: "Full", Amount: 1, Mode: "Cash"},
			wantCode: apperrors.CodeConflict,
		},
		{
			name:     "cancelled booking",
			booking:  &model.Booking{ID: bookingID, TotalAmount: 10000, Status: model.BookingStatusCancelled},
			req:      model.PaymentRequest{Type: "Partial", Amount: 1000, Mode: "Cash"},
			wantCode: apperrors.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(tt.booking)
			repo.settings = tt.settings
			svc, rec := newTestService(repo)

			req := tt.req
			got, err := svc.Submit(context.Background(), bookingID, &req)

			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Fatalf("error = %v, want %s", err, tt.wantCode)
				}
				if tt.wantMsg != "" && !strings.Contains(strings.ToLower(errorDetails(err)), tt.wantMsg) {
					t.Errorf("details = %s, want %q", errorDetails(err), tt.wantMsg)
				}
				if repo.appended != nil || len(rec.Events()) != 0 {
					t.Error("rejected submission must not be stored or audited")
				}
				return
			}

			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if got.Status != model.PaymentStatusPending || got.ID == "" || got.BookingID != bookingID {
				t.Errorf("submission = %+v", got)
			}
			if repo.expectedPaid != tt.booking.AmountPaid {
				t.Errorf("guard paid = %v, want %v", repo.expectedPaid, tt.booking.AmountPaid)
			}
			if got.Mode == model.PaymentModeGcash && got.ProofReference != "GC-1001" {
				t.Errorf("proof reference = %q", got.ProofReference)
			}
			if events := rec.Events(); len(events) != 1 || events[0].Category != model.CategoryPayment {
				t.Errorf("events = %+v", events)
			}
		})
	}
}

func errorDetails(err error) string {
	appErr := apperrors.AsAppError(err)
	var b strings.Builder
	if fields, ok := appErr.Details["fields"].(map[string]string); ok {
		for _, msg := range fields {
			b.WriteString(msg)
		}
	}
	return b.String()
}

func TestSubmit_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		err      error
		wantCode string
	}{
		{"lost race", bookingID, paymentserrors.ErrStaleBooking, apperrors.CodeConflict},
		{"deleted meanwhile", bookingID, paymentserrors.ErrBookingNotFound, apperrors.CodeNotFound},
		{"database down", bookingID, errors.New("connection refused"), apperrors.CodeInternal},
		{"standalone server", bookingID, fmt.Errorf("%w: IllegalOperation", mongotx.ErrTransactionsUnsupported), apperrors.CodeUnavailable},
		{"unknown booking", "6650f0c2a1b2c3d4e5f60799", nil, apperrors.CodeNotFound},
		{"malformed id", "abc", nil, apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(&model.Booking{ID: bookingID, TotalAmount: 10000, Status: model.BookingStatusPending})
			repo.appendErr = tt.err
			svc, _ := newTestService(repo)

			_, err := svc.Submit(context.Background(), tt.id, &model.PaymentRequest{Type: "Partial", Amount: 100, Mode: "Cash"})
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Tests for History() / Summary() / List()
// ────────────────────────────────────────────────

func TestHistory_NewestFirstPageOfFive(t *testing.T) {
	svc, _ := newTestService(newRepo(bookingWithPayments()))

	page, err := svc.History(context.Background(), bookingID, listview.Query{Sort: listview.SortNewest})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if page.PageSize != 5 || page.TotalItems != 3 {
		t.Errorf("page = %+v", page)
	}
	var ids []string
	for _, p := range page.Items {
		ids = append(ids, p.ID)
	}
	if strings.Join(ids, ",") != "p2,p0,p1" {
		t.Errorf("order = %v", ids)
	}

	page, _ = svc.History(context.Background(), bookingID, listview.Query{Filters: map[string]string{FilterStatus: "rejected"}})
	if page.TotalItems != 1 || page.Items[0].ID != "p0" {
		t.Errorf("rejected filter = %+v", page.Items)
	}
}

func TestSummary(t *testing.T) {
	svc, _ := newTestService(newRepo(bookingWithPayments()))

	got, err := svc.Summary(context.Background(), bookingID)
	if err != nil {
		t.Fatal(err)
	}
	want := billing.Summary{Total: 10000, Paid: 7000, Balance: 3000, Progress: 70, Status: billing.StatusPartial}
	if got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}

	if _, err := svc.Summary(context.Background(), "6650f0c2a1b2c3d4e5f60799"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("missing booking: error = %v", err)
	}
}

func TestList_AcrossBookings(t *testing.T) {
	other := &model.Booking{
		ID:           "6650f0c2a1b2c3d4e5f60719",
		CustomerName: "Ben Cruz",
		Destination:  "Bohol",
		TotalAmount:  5000,
		PaymentHistory: []model.PaymentSubmission{
			{ID: "q1", Type: "Full", Amount: 5000, Mode: "Gcash", ProofReference: "GC-77", Status: model.PaymentStatusPending, SubmittedAt: submittedAt(4)},
		},
	}
	svc, _ := newTestService(newRepo(bookingWithPayments(), other))

	tests := []struct {
		name  string
		query listview.Query
		want  string
	}{
		{"all newest", listview.Query{Sort: listview.SortNewest}, "q1,p2,p0,p1"},
		{"pending gcash", listview.Query{Filters: map[string]string{FilterStatus: "Pending", FilterMode: "Gcash"}, Sort: listview.SortOldest}, "p2,q1"},
		{"search customer", listview.Query{Search: "ben"}, "q1"},
		{"search proof", listview.Query{Search: "gc-991"}, "p2"},
		{"type full", listview.Query{Filters: map[string]string{FilterType: "Full"}}, "q1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(context.Background(), tt.query)
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, p := range page.Items {
				ids = append(ids, p.ID)
			}
			if got := strings.Join(ids, ","); got != tt.want {
				t.Errorf("ids = %s, want %s", got, tt.want)
			}
		})
	}

	page, _ := svc.List(context.Background(), listview.Query{Search: "ben"})
	if page.Items[0].BookingID != other.ID || page.Items[0].CustomerName != "Ben Cruz" {
		t.Errorf("listing = %+v", page.Items[0])
	}
}

// ────────────────────────────────────────────────
// Tests for Verify() / Reject()
// ────────────────────────────────────────────────

func TestVerify(t *testing.T) {
	repo := newRepo(bookingWithPayments())
	svc, rec := newTestService(repo)

	got, err := svc.Verify(context.Background(), bookingID, "p2")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got.Status != model.PaymentStatusVerified || got.ReviewedAt == nil || repo.verified != "p2" {
		t.Errorf("verified = %+v", got)
	}
	if len(rec.Events()) != 1 {
		t.Error("expected audit event")
	}

	if _, err := svc.Verify(context.Background(), bookingID, "p1"); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("already verified: error = %v", err)
	}
	if _, err := svc.Verify(context.Background(), bookingID, "nope"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown payment: error = %v", err)
	}
}

func TestReject(t *testing.T) {
	repo := newRepo(bookingWithPayments())
	svc, rec := newTestService(repo)

	if _, err := svc.Reject(context.Background(), bookingID, "p2", &model.PaymentReview{Reason: "  "}); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("blank reason: error = %v", err)
	}

	got, err := svc.Reject(context.Background(), bookingID, "p2", &model.PaymentReview{Reason: "Receipt does not match"})
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if got.Status != model.PaymentStatusRejected || got.Reason != "Receipt does not match" {
		t.Errorf("rejected = %+v", got)
	}
	if repo.rejected != "p2" || repo.expectedPaid != 7000 || repo.paid != 3000 {
		t.Errorf("rejected = %s paid %v -> %v, want p2 7000 -> 3000", repo.rejected, repo.expectedPaid, repo.paid)
	}
	if events := rec.Events(); len(events) != 1 || events[0].Status != model.OutcomeWarning {
		t.Errorf("events = %+v", events)
	}

	if _, err := svc.Reject(context.Background(), bookingID, "p0", &model.PaymentReview{Reason: "again"}); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("already rejected: error = %v", err)
	}
}

func TestReject_RestoresExactPaidTotal(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
	}{
		{"seventy and ten cents", []float64{0.7, 0.1}},
		{"ten and twenty cents", []float64{0.1, 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(&model.Booking{ID: bookingID, TotalAmount: 10, Status: model.BookingStatusConfirmed})
			svc, _ := newTestService(repo)
			ctx := context.Background()

			var ids []string
			for _, amount := range tt.amounts {
				sub, err := svc.Submit(ctx, bookingID, &model.PaymentRequest{Type: "Partial", Amount: amount, Mode: "Cash"})
				if err != nil {
					t.Fatalf("Submit(%v) error = %v", amount, err)
				}
				ids = append(ids, sub.ID)
			}
			for _, id := range ids {
				if _, err := svc.Reject(ctx, bookingID, id, &model.PaymentReview{Reason: "Not received"}); err != nil {
					t.Fatalf("Reject(%s) error = %v", id, err)
				}
			}

			got, err := repo.FindBooking(ctx, bookingID)
			if err != nil {
				t.Fatal(err)
			}
			if got.AmountPaid != 0 {
				t.Errorf("amount paid = %v, want 0", got.AmountPaid)
			}
			if got.PaymentStatus != billing.StatusUnpaid {
				t.Errorf("payment status = %s, want Unpaid", got.PaymentStatus)
			}
		})
	}
}

type racingRejectRepository struct {
	*mockPaymentRepository
	err error
}

func (r *racingRejectRepository) MarkRejected(ctx context.Context, id, paymentID string, expectedPaid, paid float64, reason string, at time.Time) error {
	return r.err
}

func TestReject_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"paid total moved", paymentserrors.ErrStaleBooking, apperrors.CodeConflict},
		{"reviewed meanwhile", paymentserrors.ErrNotPending, apperrors.CodeConflict},
		{"standalone server", mongotx.ErrTransactionsUnsupported, apperrors.CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &racingRejectRepository{mockPaymentRepository: newRepo(bookingWithPayments()), err: tt.err}
			svc := NewPaymentService(repo, validator.NewPaymentValidator(logger.Discard()), &audit.Memory{}, &config.Config{Log: logger.Discard()})

			_, err := svc.Reject(context.Background(), bookingID, "p2", &model.PaymentReview{Reason: "Duplicate"})
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Tests for Export() and settings
// ────────────────────────────────────────────────

func TestExport(t *testing.T) {
	svc, rec := newTestService(newRepo(bookingWithPayments()))

	table, err := svc.Export(context.Background(), listview.Query{Filters: map[string]string{FilterStatus: "Verified"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
	row := table.Rows[0]
	if row["paymentid"] != "p1" || row["amount"] != "₱3,000.00" || row["customername"] != "Ana Reyes" {
		t.Errorf("row = %v", row)
	}
	if len(rec.Events()) != 1 {
		t.Error("export should be audited")
	}
}

func TestSettings(t *testing.T) {
	repo := newRepo()
	svc, rec := newTestService(repo)

	got, err := svc.GetSettings(context.Background())
	if err != nil || len(got.AcceptedModes) != 2 {
		t.Fatalf("GetSettings() = %+v, %v", got, err)
	}

	updated, err := svc.UpdateSettings(context.Background(), &model.PaymentSettings{
		GcashAccountName:  " BondVoyage  Travel ",
		GcashNumber:       "0917 123 4567",
		AcceptedModes:     []string{"Cash", "Gcash", "Cash"},
		MinPartialPercent: 25,
	})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if updated.GcashNumber != "+639171234567" || updated.GcashAccountName != "BondVoyage Travel" || len(updated.AcceptedModes) != 2 {
		t.Errorf("sanitized settings = %+v", updated)
	}
	if repo.saved == nil || len(rec.Events()) != 1 {
		t.Error("settings not saved or not audited")
	}

	_, err = svc.UpdateSettings(context.Background(), &model.PaymentSettings{AcceptedModes: []string{"Bitcoin"}})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("bad mode: error = %v", err)
	}
}
