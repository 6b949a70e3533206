package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/repository"
	"github.com/sondea/sondea-backend/internal/response"
)

// Domain errors.
var (
	ErrNotSurveyOwner  = errors.New("survey belongs to another company")
	ErrNoQuestions     = errors.New("survey has no questions")
	ErrSurveyNotDraft  = errors.New("survey status is not DRAFT")
	ErrSurveyNotActive = errors.New("survey status is not ACTIVE")
)

// SurveyService handles survey lifecycle and the Redis payload cache.
type SurveyService struct {
	surveyRepo   *repository.SurveyRepository
	questionRepo *repository.QuestionRepository
	companyRepo  *repository.CompanyRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewSurveyService creates a new SurveyService.
func NewSurveyService(
	surveyRepo *repository.SurveyRepository,
	questionRepo *repository.QuestionRepository,
	companyRepo *repository.CompanyRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *SurveyService {
	return &SurveyService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		companyRepo:  companyRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "survey_service").Logger(),
	}
}

// GetOwned retrieves a survey and verifies company ownership.
func (s *SurveyService) GetOwned(ctx context.Context, surveyID uuid.UUID, companyID int) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.CompanyID != companyID {
		return nil, ErrNotSurveyOwner
	}
	return survey, nil
}

// ListByCompany retrieves a company's surveys with pagination.
func (s *SurveyService) ListByCompany(ctx context.Context, companyID, page, perPage int) ([]model.Survey, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	surveys, total, err := s.surveyRepo.ListByCompanyPaginated(ctx, companyID, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if surveys == nil {
		surveys = []model.Survey{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return surveys, pagination, nil
}

// Create inserts a new survey as DRAFT.
func (s *SurveyService) Create(ctx context.Context, survey *model.Survey) error {
	survey.Status = model.SurveyStatusDraft
	if survey.TemplateStyle == nil {
		survey.TemplateStyle = json.RawMessage(`{}`)
	}
	return s.surveyRepo.Create(ctx, survey)
}

// Update modifies a survey and refreshes the payload cache when the survey
// is live, so respondents see presentation changes without a republish.
func (s *SurveyService) Update(ctx context.Context, survey *model.Survey) error {
	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return err
	}
	if survey.Status == model.SurveyStatusActive {
		if err := s.WarmSurveyCache(ctx, survey); err != nil {
			s.log.Warn().Err(err).Str("survey_id", survey.ID.String()).Msg("Cache refresh failed")
		}
	}
	return nil
}

// Publish activates a DRAFT survey and caches the respondent payload.
// This is the critical path that populates the fast lane.
func (s *SurveyService) Publish(ctx context.Context, surveyID uuid.UUID, companyID int) error {
	survey, err := s.GetOwned(ctx, surveyID, companyID)
	if err != nil {
		return err
	}
	if survey.Status != model.SurveyStatusDraft {
		return ErrSurveyNotDraft
	}

	if err := s.WarmSurveyCache(ctx, survey); err != nil {
		return err
	}

	if err := s.surveyRepo.UpdateStatus(ctx, surveyID, model.SurveyStatusActive); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().Str("survey_id", surveyID.String()).Msg("Survey published")
	return nil
}

// Archive retires an ACTIVE survey and drops its cached payload, which makes
// every distribution endpoint answer SURVEY_INACTIVE.
func (s *SurveyService) Archive(ctx context.Context, surveyID uuid.UUID, companyID int) error {
	survey, err := s.GetOwned(ctx, surveyID, companyID)
	if err != nil {
		return err
	}
	if survey.Status != model.SurveyStatusActive {
		return ErrSurveyNotActive
	}

	if err := s.surveyRepo.UpdateStatus(ctx, surveyID, model.SurveyStatusArchived); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if err := s.rdb.Del(ctx, config.CacheKey.SurveyPayloadKey(surveyID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("survey_id", surveyID.String()).Msg("Cache invalidation failed")
	}

	s.log.Info().Str("survey_id", surveyID.String()).Msg("Survey archived")
	return nil
}

// Delete removes a DRAFT survey.
func (s *SurveyService) Delete(ctx context.Context, surveyID uuid.UUID, companyID int) error {
	survey, err := s.GetOwned(ctx, surveyID, companyID)
	if err != nil {
		return err
	}
	if survey.Status != model.SurveyStatusDraft {
		return ErrSurveyNotDraft
	}
	return s.surveyRepo.Delete(ctx, surveyID)
}

// RefreshCache re-caches the respondent payload for an active survey.
// Called when questions change after publish.
func (s *SurveyService) RefreshCache(ctx context.Context, surveyID uuid.UUID, companyID int) error {
	survey, err := s.GetOwned(ctx, surveyID, companyID)
	if err != nil {
		return err
	}
	if survey.Status != model.SurveyStatusActive {
		return ErrSurveyNotActive
	}

	if err := s.WarmSurveyCache(ctx, survey); err != nil {
		return err
	}

	s.log.Info().Str("survey_id", surveyID.String()).Msg("Cache refreshed")
	return nil
}

// WarmSurveyCache loads a survey's respondent payload from PostgreSQL into
// Redis. Used by Publish, RefreshCache and PrewarmAllCaches.
func (s *SurveyService) WarmSurveyCache(ctx context.Context, survey *model.Survey) error {
	payload, err := s.BuildPayload(ctx, survey)
	if err != nil {
		return err
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	key := config.CacheKey.SurveyPayloadKey(survey.ID.String())
	if err := s.rdb.Set(ctx, key, payloadJSON, 0).Err(); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("survey_id", survey.ID.String()).
		Int("questions", len(payload.Questions)).
		Msg("Payload cached")
	return nil
}

// BuildPayload assembles the respondent-facing payload from PostgreSQL.
func (s *SurveyService) BuildPayload(ctx context.Context, survey *model.Survey) (*model.SurveyPayload, error) {
	questions, err := s.questionRepo.ListBySurvey(ctx, survey.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	company, err := s.companyRepo.GetByID(ctx, survey.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}

	public := make([]model.RespondentQuestion, len(questions))
	for i, q := range questions {
		public[i] = model.RespondentQuestion{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type,
			Options:    q.Options,
			NAOption:   q.NAOption,
			IsCustom:   q.IsCustom,
			OrderIndex: q.OrderIndex,
		}
	}

	return &model.SurveyPayload{
		SurveyID:         survey.ID,
		Title:            survey.Title,
		Description:      survey.Description,
		ThankYouMessage:  survey.ThankYouMessage,
		ThankYouImageURL: survey.ThankYouImageURL,
		ShowCompanyLogo:  survey.ShowCompanyLogo,
		LogoURL:          company.LogoURL,
		TemplateStyle:    survey.TemplateStyle,
		Questions:        public,
	}, nil
}

// PrewarmAllCaches loads every ACTIVE survey into Redis. Run at boot before
// accepting traffic so respondents never hit a cold cache under load.
func (s *SurveyService) PrewarmAllCaches(ctx context.Context) error {
	surveys, err := s.surveyRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active surveys: %w", err)
	}

	warmed := 0
	for i := range surveys {
		if err := s.WarmSurveyCache(ctx, &surveys[i]); err != nil {
			s.log.Warn().Err(err).Str("survey_id", surveys[i].ID.String()).Msg("Prewarm failed")
			continue
		}
		warmed++
	}

	s.log.Info().Int("warmed", warmed).Int("total", len(surveys)).Msg("Cache prewarm complete")
	return nil
}
