package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bondvoyage/internal/activitylogs/repository"
	"bondvoyage/internal/activitylogs/validator"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/config"
	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/export"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/sanitizer"
	"bondvoyage/pkg/validation"
)

const (
	FilterCategory = "category"
	FilterStatus   = "status"
)

var ListFilters = []string{FilterCategory, FilterStatus}

type ActivityLogService interface {
	List(ctx context.Context, q listview.Query) (listview.Page[*model.ActivityLogEntry], error)
	Export(ctx context.Context, q listview.Query) (export.Table, error)
	Record(ctx context.Context, entry *model.ActivityLogEntry) error
	Ingest(ctx context.Context, entry *model.ActivityLogEntry) error
	Purge(ctx context.Context, now time.Time) (int64, error)
}

type activityLogService struct {
	repo      repository.ActivityLogRepository
	validator *validator.ActivityLogValidator
	recorder  audit.Recorder
	cfg       *config.Config
}

func NewActivityLogService(
	repo repository.ActivityLogRepository,
	validator *validator.ActivityLogValidator,
	recorder audit.Recorder,
	cfg *config.Config,
) ActivityLogService {
	return &activityLogService{
		repo:      repo,
		validator: validator,
		recorder:  recorder,
		cfg:       cfg,
	}
}

func (s *activityLogService) List(ctx context.Context, q listview.Query) (listview.Page[*model.ActivityLogEntry], error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list activity logs", "error", err)
		return listview.Page[*model.ActivityLogEntry]{}, apperrors.Internal("Failed to retrieve activity logs", err)
	}

	q = q.WithPageSize(s.cfg.PageSizeActivityLogs)
	page := ListSpec(q).Page(entries, q.Page, s.cfg.NormalizePageSize(q.PageSize, s.cfg.PageSizeActivityLogs))
	page.FilterKey = q.FilterKey
	return page, nil
}

func (s *activityLogService) Export(ctx context.Context, q listview.Query) (export.Table, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load activity logs for export", "error", err)
		return export.Table{}, apperrors.Internal("Failed to export activity logs", err)
	}

	table := ActivityLogTable("Activity Log Report", ListSpec(q).Apply(entries))
	s.recorder.Record(ctx, audit.Event{
		Action:   "Exported activity logs",
		Category: model.CategorySystem,
		Details:  fmt.Sprintf("%d records", len(table.Rows)),
	})
	return table, nil
}

// Record stores an entry posted directly. Missing id, timestamp, actor, IP and
// status are taken from the request.
func (s *activityLogService) Record(ctx context.Context, entry *model.ActivityLogEntry) error {
	defaults := audit.Entry(ctx, audit.Event{Status: entry.Status})
	if entry.ID == "" {
		entry.ID = defaults.ID
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = defaults.Timestamp
	}
	if entry.Actor == "" {
		entry.Actor = defaults.Actor
	}
	if entry.IP == "" {
		entry.IP = defaults.IP
	}
	if entry.Status == "" {
		entry.Status = defaults.Status
	}

	if err := s.store(ctx, entry); err != nil {
		return err
	}

	s.cfg.Log.Info("Activity recorded", "id", entry.ID, "actor", entry.Actor, "action", entry.Action)
	return nil
}

// Ingest stores an entry received from another service. The entry is taken
// as published; invalid entries return a validation AppError.
func (s *activityLogService) Ingest(ctx context.Context, entry *model.ActivityLogEntry) error {
	if err := s.store(ctx, entry); err != nil {
		return err
	}

	s.cfg.Log.Debug("Activity event stored", "id", entry.ID, "category", entry.Category)
	return nil
}

// Purge removes entries older than the configured retention.
func (s *activityLogService) Purge(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.cfg.ActivityLogRetention)

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.cfg.Log.Error("Failed to purge activity logs", "cutoff", cutoff, "error", err)
		return 0, apperrors.Internal("Failed to purge activity logs", err)
	}

	s.cfg.Log.Info("Activity logs purged", "cutoff", cutoff, "deleted", deleted)
	if deleted > 0 {
		s.recorder.Record(ctx, audit.Event{
			Action:   "Purged activity logs",
			Category: model.CategorySystem,
			Details:  fmt.Sprintf("%d entries older than %s", deleted, cutoff.Format(time.RFC3339)),
		})
	}
	return deleted, nil
}

func (s *activityLogService) store(ctx context.Context, entry *model.ActivityLogEntry) error {
	sanitizer.ActivityLog(entry)
	entry.Timestamp = entry.Timestamp.UTC()

	if err := s.validator.Validate(entry); err != nil {
		s.cfg.Log.Warn("Activity log validation failed", "id", entry.ID, "error", err)
		return validationError("Activity log validation failed", err)
	}

	if err := s.repo.Save(ctx, entry); err != nil {
		s.cfg.Log.Error("Failed to save activity log entry", "id", entry.ID, "error", err)
		return apperrors.Internal("Failed to save activity log entry", err)
	}
	return nil
}

func searchFields(e *model.ActivityLogEntry) []string {
	return []string{e.Actor, e.Action, e.Details}
}

// ListSpec searches actor, action and details, filters by category, outcome
// and timestamp, and sorts by timestamp.
func ListSpec(q listview.Query) listview.Spec[*model.ActivityLogEntry] {
	return listview.Spec[*model.ActivityLogEntry]{
		Predicates: []listview.Predicate[*model.ActivityLogEntry]{
			listview.MatchText(q.Search, searchFields),
			listview.Equals(q.Value(FilterCategory), func(e *model.ActivityLogEntry) string { return e.Category }),
			listview.Equals(q.Value(FilterStatus), func(e *model.ActivityLogEntry) string { return e.Status }),
			listview.InDateRange(q.Dates, func(e *model.ActivityLogEntry) time.Time { return e.Timestamp }),
		},
		Sort:      q.Sort,
		SortField: func(e *model.ActivityLogEntry) time.Time { return e.Timestamp },
	}
}

var ActivityLogColumns = []string{"Timestamp", "Actor", "Action", "Category", "Details", "IP", "Status"}

func ActivityLogTable(title string, entries []*model.ActivityLogEntry) export.Table {
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]string{
			"timestamp": export.DateTime(e.Timestamp),
			"actor":     e.Actor,
			"action":    e.Action,
			"category":  e.Category,
			"details":   e.Details,
			"ip":        e.IP,
			"status":    e.Status,
		})
	}
	return export.Table{Title: title, Columns: ActivityLogColumns, Rows: rows}
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
