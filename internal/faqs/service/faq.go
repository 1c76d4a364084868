package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	faqserrors "bondvoyage/internal/faqs/errors"
	"bondvoyage/internal/faqs/repository"
	"bondvoyage/internal/faqs/validator"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/config"
	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/model"
	"bondvoyage/pkg/sanitizer"
	"bondvoyage/pkg/validation"
)

const (
	FilterTag        = "tag"
	FilterPageTarget = "page_target"
)

var ListFilters = []string{FilterTag, FilterPageTarget}

type FAQService interface {
	Create(ctx context.Context, faq *model.FAQ) error
	GetByID(ctx context.Context, id string) (*model.FAQ, error)
	List(ctx context.Context, q listview.Query) (listview.Page[*model.FAQ], error)
	ForPage(ctx context.Context, page string) ([]*model.FAQ, error)
	Update(ctx context.Context, id string, updates *model.FAQUpdate) (*model.FAQ, error)
	Delete(ctx context.Context, id string) error
}

type faqService struct {
	repo      repository.FAQRepository
	validator *validator.FAQValidator
	recorder  audit.Recorder
	cfg       *config.Config
}

func NewFAQService(
	repo repository.FAQRepository,
	validator *validator.FAQValidator,
	recorder audit.Recorder,
	cfg *config.Config,
) FAQService {
	return &faqService{
		repo:      repo,
		validator: validator,
		recorder:  recorder,
		cfg:       cfg,
	}
}

func (s *faqService) Create(ctx context.Context, faq *model.FAQ) error {
	sanitizer.FAQ(faq)
	if err := s.validator.Validate(faq); err != nil {
		s.cfg.Log.Warn("FAQ validation failed", "error", err)
		return validationError("FAQ validation failed", err)
	}

	if err := s.repo.Create(ctx, faq); err != nil {
		s.cfg.Log.Error("Failed to create FAQ", "error", err)
		return apperrors.Internal("Failed to create FAQ", err)
	}

	s.cfg.Log.Info("FAQ created successfully", "id", faq.ID, "pages", faq.Pages)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Created FAQ",
		Category: model.CategoryFAQ,
		Details:  faq.Question,
	})
	return nil
}

func (s *faqService) GetByID(ctx context.Context, id string) (*model.FAQ, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("FAQ ID cannot be empty")
	}

	faq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id, "Failed to retrieve FAQ")
	}
	return faq, nil
}

func (s *faqService) List(ctx context.Context, q listview.Query) (listview.Page[*model.FAQ], error) {
	faqs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list FAQs", "error", err)
		return listview.Page[*model.FAQ]{}, apperrors.Internal("Failed to retrieve FAQs", err)
	}

	q = q.WithPageSize(s.cfg.PageSizeFAQs)
	page := ListSpec(q).Page(faqs, q.Page, s.cfg.NormalizePageSize(q.PageSize, s.cfg.PageSizeFAQs))
	page.FilterKey = q.FilterKey
	return page, nil
}

// ForPage serves the public lookup. The slug is normalized the same way
// target pages are on write, so "Tour Packages" finds "tour-packages".
func (s *faqService) ForPage(ctx context.Context, page string) ([]*model.FAQ, error) {
	slug := sanitizer.NormalizePageSlug(page)
	if slug == "" {
		return nil, apperrors.InvalidInput("Page cannot be empty")
	}

	faqs, err := s.repo.FindByPage(ctx, slug)
	if err != nil {
		s.cfg.Log.Error("Failed to find FAQs for page", "page", slug, "error", err)
		return nil, apperrors.Internal("Failed to retrieve FAQs", err)
	}
	return faqs, nil
}

func (s *faqService) Update(ctx context.Context, id string, updates *model.FAQUpdate) (*model.FAQ, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("FAQ ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("FAQ update validation failed", "id", id, "error", err)
		return nil, validationError("Invalid update input", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id, "Failed to check FAQ existence")
	}

	merged := mergeFAQUpdates(existing, updates)
	sanitizer.FAQ(merged)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("FAQ validation failed", "id", id, "error", err)
		return nil, validationError("FAQ validation failed", err)
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update FAQ", "id", id, "error", err)
		return nil, translateRepoError(err, id, "Failed to update FAQ")
	}

	s.cfg.Log.Info("FAQ updated successfully", "id", id)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Updated FAQ",
		Category: model.CategoryFAQ,
		Details:  merged.Question,
	})
	return merged, nil
}

func (s *faqService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("FAQ ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete FAQ", "id", id, "error", err)
		return translateRepoError(err, id, "Failed to delete FAQ")
	}

	s.cfg.Log.Info("FAQ deleted successfully", "id", id)
	s.recorder.Record(ctx, audit.Event{
		Action:   "Deleted FAQ",
		Category: model.CategoryFAQ,
		Details:  id,
	})
	return nil
}

func searchFields(f *model.FAQ) []string {
	fields := []string{f.Question, f.Answer}
	fields = append(fields, f.Keywords...)
	return append(fields, f.Tags...)
}

// ListSpec searches question, answer, keywords and tags, and filters by tag
// and target page. Sorting is by last update.
func ListSpec(q listview.Query) listview.Spec[*model.FAQ] {
	return listview.Spec[*model.FAQ]{
		Predicates: []listview.Predicate[*model.FAQ]{
			listview.MatchText(q.Search, searchFields),
			listview.Contains(sanitizer.NormalizeTag(q.Value(FilterTag)), func(f *model.FAQ) []string { return f.Tags }),
			listview.Contains(sanitizer.NormalizePageSlug(q.Value(FilterPageTarget)), func(f *model.FAQ) []string { return f.Pages }),
		},
		Sort:      q.Sort,
		SortField: func(f *model.FAQ) time.Time { return f.UpdatedAt },
	}
}

func mergeFAQUpdates(existing *model.FAQ, updates *model.FAQUpdate) *model.FAQ {
	merged := *existing

	if updates.Question != nil {
		merged.Question = *updates.Question
	}
	if updates.Answer != nil {
		merged.Answer = *updates.Answer
	}
	if updates.Tags != nil {
		merged.Tags = *updates.Tags
	}
	if updates.Pages != nil {
		merged.Pages = *updates.Pages
	}
	if updates.Keywords != nil {
		merged.Keywords = *updates.Keywords
	}

	return &merged
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
	case errors.Is(err, faqserrors.ErrNotFound):
		return apperrors.NotFoundWithID("FAQ", id)
	case errors.Is(err, faqserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid FAQ ID format: %s", id))
	default:
		return apperrors.Internal(message, err)
	}
}
