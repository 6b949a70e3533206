package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/repository"
)

// MaxCustomQuestions caps company-authored supplementary questions per survey.
const MaxCustomQuestions = 3

// Question domain errors.
var (
	ErrCustomQuestionCap = errors.New("custom question limit reached")
	ErrCriticalQuestion  = errors.New("critical questions cannot be removed")
	ErrBadOptions        = errors.New("options payload does not match question type")
)

// QuestionService handles question business logic.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	surveyRepo   *repository.SurveyRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, surveyRepo *repository.SurveyRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, surveyRepo: surveyRepo}
}

// ListBySurvey retrieves a survey's questions in display order.
func (s *QuestionService) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]model.Question, error) {
	return s.questionRepo.ListBySurvey(ctx, surveyID)
}

// Create validates and inserts a question. Custom questions are capped at
// MaxCustomQuestions; custom and demographic markers are mutually exclusive
// with types that cannot carry them.
func (s *QuestionService) Create(ctx context.Context, q *model.Question) error {
	if err := ValidateOptions(q); err != nil {
		return err
	}

	if q.IsCustom {
		switch q.Type {
		case model.QuestionTypeGender, model.QuestionTypeAgeRange, model.QuestionTypeClassification:
			return fmt.Errorf("%w: %s questions cannot be custom", ErrBadOptions, q.Type)
		}
		count, err := s.questionRepo.CountCustom(ctx, q.SurveyID)
		if err != nil {
			return fmt.Errorf("count custom questions: %w", err)
		}
		if count >= MaxCustomQuestions {
			return ErrCustomQuestionCap
		}
	}

	return s.questionRepo.Create(ctx, q)
}

// Update validates and modifies a question. Clearing the critical flag is
// allowed; deleting a critical question is not (see Delete).
func (s *QuestionService) Update(ctx context.Context, q *model.Question) error {
	if err := ValidateOptions(q); err != nil {
		return err
	}
	return s.questionRepo.Update(ctx, q)
}

// GetByID retrieves a single question.
func (s *QuestionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// Delete removes a question unless it is marked critical.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q.Critical {
		return ErrCriticalQuestion
	}
	return s.questionRepo.Delete(ctx, id)
}

// ValidateOptions checks that the options payload matches the question type.
func ValidateOptions(q *model.Question) error {
	switch q.Type {
	case model.QuestionTypeText:
		return nil

	case model.QuestionTypeRating:
		opts, err := q.RatingOptions()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadOptions, err)
		}
		if opts.Scale != 5 && opts.Scale != 10 {
			return fmt.Errorf("%w: rating scale must be 5 or 10", ErrBadOptions)
		}
		return nil

	case model.QuestionTypeMultipleChoice, model.QuestionTypeCheckbox,
		model.QuestionTypeGender, model.QuestionTypeAgeRange:
		opts, err := q.ChoiceOptions()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadOptions, err)
		}
		if len(opts.Choices) == 0 {
			return fmt.Errorf("%w: at least one choice required", ErrBadOptions)
		}
		seen := make(map[string]bool, len(opts.Choices))
		for _, c := range opts.Choices {
			if c.ID == "" || c.ID == model.NAValue {
				return fmt.Errorf("%w: invalid choice id %q", ErrBadOptions, c.ID)
			}
			if seen[c.ID] {
				return fmt.Errorf("%w: duplicate choice id %q", ErrBadOptions, c.ID)
			}
			seen[c.ID] = true
		}
		return nil

	case model.QuestionTypeClassification:
		items, err := q.ClassificationItems()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadOptions, err)
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: at least one item to evaluate required", ErrBadOptions)
		}
		seen := make(map[string]bool, len(items))
		for _, it := range items {
			if it.ID == "" || it.ID == model.NAValue {
				return fmt.Errorf("%w: invalid item id %q", ErrBadOptions, it.ID)
			}
			if seen[it.ID] {
				return fmt.Errorf("%w: duplicate item id %q", ErrBadOptions, it.ID)
			}
			seen[it.ID] = true
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown question type %s", ErrBadOptions, q.Type)
	}
}

// NormalizeOptions fills an empty options payload for types that allow one.
func NormalizeOptions(q *model.Question) {
	if len(q.Options) == 0 {
		q.Options = json.RawMessage(`{}`)
	}
}
