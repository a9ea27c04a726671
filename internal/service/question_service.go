package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
	"github.com/phtrivia/phtrivia-backend/internal/validation"
)

// QuestionDrafter produces AI question drafts for admin review.
type QuestionDrafter interface {
	DraftQuestions(ctx context.Context, topic string, count int) ([]models.Question, error)
}

// QuestionService is the admin-facing CRUD over categories, questions
// and options.
type QuestionService struct {
	repo    *repository.QuestionRepository
	drafter QuestionDrafter
}

// NewQuestionService creates the question service. drafter may be nil
// when no AI endpoint is configured.
func NewQuestionService(repo *repository.QuestionRepository, drafter QuestionDrafter) *QuestionService {
	return &QuestionService{repo: repo, drafter: drafter}
}

// CreateCategoryInput carries a new category.
type CreateCategoryInput struct {
	Name     string
	IsActive bool
}

// CreateCategory validates and persists a category.
func (s *QuestionService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateLength("category name", name, 1, validation.MaxCategoryNameLength); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:     name,
		Slug:     slugify(name),
		IsActive: in.IsActive,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory applies edits to an existing category.
func (s *QuestionService) UpdateCategory(ctx context.Context, id uuid.UUID, in CreateCategoryInput) (*models.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateLength("category name", name, 1, validation.MaxCategoryNameLength); err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = slugify(name)
	category.IsActive = in.IsActive
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lists categories, optionally including inactive ones.
func (s *QuestionService) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	return s.repo.ListCategories(ctx, !includeInactive)
}

// CreateQuestionInput carries a new question with its options.
type CreateQuestionInput struct {
	CategoryID   uuid.UUID
	Text         string
	Points       int64
	OptionTexts  []string
	CorrectIndex int
	IsActive     bool
}

// CreateQuestion validates and persists a question with options.
func (s *QuestionService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	if err := validation.ValidateQuestionText(in.Text); err != nil {
		return nil, err
	}
	if in.Points <= 0 {
		return nil, fmt.Errorf("question points must be positive")
	}
	if err := validation.ValidateOptions(in.OptionTexts, in.CorrectIndex); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	question := &models.Question{
		CategoryID: in.CategoryID,
		Text:       strings.TrimSpace(in.Text),
		Points:     in.Points,
		IsActive:   in.IsActive,
	}
	options := make([]models.Option, len(in.OptionTexts))
	for i, text := range in.OptionTexts {
		options[i] = models.Option{
			Text:      strings.TrimSpace(text),
			IsCorrect: i == in.CorrectIndex,
		}
	}

	return s.repo.CreateQuestion(ctx, question, options)
}

// UpdateQuestion applies edits to the question row. Options are not
// editable in place: grading history must stay attributable, so option
// changes go through deactivate-and-recreate.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id uuid.UUID, text string, points int64, isActive bool) (*models.Question, error) {
	question, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateQuestionText(text); err != nil {
		return nil, err
	}
	if points <= 0 {
		return nil, fmt.Errorf("question points must be positive")
	}

	question.Text = strings.TrimSpace(text)
	question.Points = points
	question.IsActive = isActive
	if err := s.repo.UpdateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// GetQuestion returns a question with options, answer key included.
func (s *QuestionService) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return s.repo.GetQuestion(ctx, id)
}

// ListQuestions pages through questions for the dashboard.
func (s *QuestionService) ListQuestions(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]models.Question, error) {
	return s.repo.ListQuestions(ctx, categoryID, limit, offset)
}

// DeactivateQuestion disables a question without deleting it.
func (s *QuestionService) DeactivateQuestion(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivateQuestion(ctx, id)
}

// SetQuestionImage attaches an uploaded image to a question.
func (s *QuestionService) SetQuestionImage(ctx context.Context, id uuid.UUID, imagePath string) error {
	return s.repo.SetQuestionImage(ctx, id, &imagePath)
}

// DraftQuestions asks the configured AI endpoint for question drafts.
// Drafts are returned for review only and never persisted here.
func (s *QuestionService) DraftQuestions(ctx context.Context, topic string, count int) ([]models.Question, error) {
	if s.drafter == nil {
		return nil, fmt.Errorf("question drafting is not configured")
	}
	if count < 1 || count > 20 {
		return nil, fmt.Errorf("draft count must be between 1 and 20")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}
	return s.drafter.DraftQuestions(ctx, topic, count)
}

// slugify lowercases a name and collapses non-alphanumerics to dashes.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
