package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	userserrors "bondvoyage/internal/users/errors"
	"bondvoyage/internal/users/repository"
	"bondvoyage/internal/users/validator"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/config"
	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/export"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/sanitizer"
	"bondvoyage/pkg/validation"
)

const FilterStatus = "status"

var ListFilters = []string{FilterStatus}

type UserService interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, q listview.Query) (listview.Page[*model.User], error)
	Export(ctx context.Context, q listview.Query) (export.Table, error)
	Deactivate(ctx context.Context, id string) (*model.User, error)
	Activate(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	recorder  audit.Recorder
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	recorder audit.Recorder,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		recorder:  recorder,
		cfg:       cfg,
	}
}

func (s *userService) Create(ctx context.Context, user *model.User) error {
	if user.Status == "" {
		user.Status = model.UserStatusActive
	}
	sanitizer.User(user, s.cfg.PhoneRegion)

	if err := s.validator.Validate(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		return validationError("User validation failed", err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			s.cfg.Log.Warn("Duplicate user email", "email", user.Email)
			return apperrors.Conflict(fmt.Sprintf("A user with email %s already exists", user.Email))
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID, "status", user.Status)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Created user",
		Category: model.CategoryUser,
		Details:  fmt.Sprintf("%s <%s>", user.Name, user.Email),
	})
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id, "Failed to retrieve user")
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, q listview.Query) (listview.Page[*model.User], error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return listview.Page[*model.User]{}, apperrors.Internal("Failed to retrieve users", err)
	}

	q = q.WithPageSize(s.cfg.PageSizeUsers)
	page := ListSpec(q).Page(users, q.Page, s.cfg.NormalizePageSize(q.PageSize, s.cfg.PageSizeUsers))
	page.FilterKey = q.FilterKey
	return page, nil
}

func (s *userService) Export(ctx context.Context, q listview.Query) (export.Table, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load users for export", "error", err)
		return export.Table{}, apperrors.Internal("Failed to export users", err)
	}

	table := UserTable("Users Report", ListSpec(q).Apply(users))
	s.recorder.Record(ctx, audit.Event{
		Action:   "Exported users",
		Category: model.CategoryUser,
		Details:  fmt.Sprintf("%d records", len(table.Rows)),
	})
	return table, nil
}

func (s *userService) Deactivate(ctx context.Context, id string) (*model.User, error) {
	return s.setStatus(ctx, id, model.UserStatusDeactivated, "Deactivated user")
}

func (s *userService) Activate(ctx context.Context, id string) (*model.User, error) {
	return s.setStatus(ctx, id, model.UserStatusActive, "Activated user")
}

// setStatus is idempotent: a user already in the target status is returned
// unchanged and nothing is recorded.
func (s *userService) setStatus(ctx context.Context, id, status, action string) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return user, nil
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.cfg.Log.Error("Failed to update user status", "id", id, "status", status, "error", err)
		return nil, translateRepoError(err, id, "Failed to update user status")
	}
	user.Status = status

	s.cfg.Log.Info("User status updated", "id", id, "status", status)
	s.recorder.Record(ctx, audit.Event{
		Action:   action,
		Category: model.CategoryUser,
		Details:  fmt.Sprintf("%s <%s>", user.Name, user.Email),
	})
	return user, nil
}

func searchFields(u *model.User) []string {
	return []string{u.Name, u.Email, u.Phone}
}

// ListSpec searches name, email and phone, filters by status and signup
// date, and sorts by signup date.
func ListSpec(q listview.Query) listview.Spec[*model.User] {
	return listview.Spec[*model.User]{
		Predicates: []listview.Predicate[*model.User]{
			listview.MatchText(q.Search, searchFields),
			listview.Equals(q.Value(FilterStatus), func(u *model.User) string { return u.Status }),
			listview.InDateRange(q.Dates, func(u *model.User) time.Time { return u.SignupDate }),
		},
		Sort:      q.Sort,
		SortField: func(u *model.User) time.Time { return u.SignupDate },
	}
}

var UserColumns = []string{"User ID", "Name", "Email", "Phone", "Signup Date", "Status"}

func UserTable(title string, users []*model.User) export.Table {
	rows := make([]map[string]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, map[string]string{
			"userid":     u.ID,
			"name":       u.Name,
			"email":      u.Email,
			"phone":      u.Phone,
			"signupdate": export.Date(u.SignupDate),
			"status":     u.Status,
		})
	}
	return export.Table{Title: title, Columns: UserColumns, Rows: rows}
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func translateRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	default:
		return apperrors.Internal(message, err)
	}
}
