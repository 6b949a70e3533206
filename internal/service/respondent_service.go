package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/repository"
	"github.com/sondea/sondea-backend/internal/session"
)

// Respondent-facing domain errors.
var (
	ErrSurveyInactive     = errors.New("survey is not accepting responses")
	ErrIncompleteResponse = errors.New("response does not answer every required question")
)

// PersistResponseJob is the unit of work queued for the submission worker.
// It carries everything needed to persist the response without touching the
// survey tables again, plus the pre-computed benchmark events.
type PersistResponseJob struct {
	ResponseID     uuid.UUID           `json:"response_id"`
	SurveyID       uuid.UUID           `json:"survey_id"`
	DistributionID uuid.UUID           `json:"distribution_id"`
	Industry       string              `json:"industry"`
	SubmittedAt    time.Time           `json:"submitted_at"`
	Submission     *session.Submission `json:"submission"`
	Benchmarks     []BenchmarkEvent    `json:"benchmarks,omitempty"`
}

// BenchmarkEvent is one anonymous rating observation feeding the
// cross-company industry aggregates. NA answers never produce one.
type BenchmarkEvent struct {
	Industry string `json:"industry"`
	Scale    int    `json:"scale"`
	Value    int    `json:"value"`
}

// Valid reports whether the observation is inside its scale's bounds.
// 10-point ratings run 0-10 (zero is a real detractor score); 5-point
// ratings and classification items run 1-5.
func (e BenchmarkEvent) Valid() bool {
	if e.Industry == "" {
		return false
	}
	low := 1
	if e.Scale == 10 {
		low = 0
	}
	return e.Value >= low && e.Value <= e.Scale
}

// RespondentService serves the public, unauthenticated survey surface.
type RespondentService struct {
	distributionRepo *repository.DistributionRepository
	surveyRepo       *repository.SurveyRepository
	companyRepo      *repository.CompanyRepository
	surveyService    *SurveyService
	redisClient      *redis.Client
	logger           zerolog.Logger
}

// NewRespondentService creates a new RespondentService.
func NewRespondentService(
	distributionRepo *repository.DistributionRepository,
	surveyRepo *repository.SurveyRepository,
	companyRepo *repository.CompanyRepository,
	surveyService *SurveyService,
	redisClient *redis.Client,
	logger zerolog.Logger,
) *RespondentService {
	return &RespondentService{
		distributionRepo: distributionRepo,
		surveyRepo:       surveyRepo,
		companyRepo:      companyRepo,
		surveyService:    surveyService,
		redisClient:      redisClient,
		logger:           logger.With().Str("service", "respondent").Logger(),
	}
}

// FetchSurvey resolves a distribution id to its survey payload. The payload
// is served from the Redis cache when warm; on a miss the service rebuilds
// it from Postgres and re-warms the cache so the next respondent hits Redis.
func (s *RespondentService) FetchSurvey(ctx context.Context, distributionID uuid.UUID) (*model.SurveyPayload, error) {
	dist, err := s.distributionRepo.GetByID(ctx, distributionID)
	if err != nil {
		return nil, ErrDistributionNotFound
	}
	if !dist.Active {
		return nil, ErrSurveyInactive
	}

	if payload := s.cachedPayload(ctx, dist.SurveyID); payload != nil {
		return payload, nil
	}

	survey, err := s.surveyRepo.GetByID(ctx, dist.SurveyID)
	if err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	if survey.Status != model.SurveyStatusActive {
		return nil, ErrSurveyInactive
	}

	payload, err := s.surveyService.BuildPayload(ctx, survey)
	if err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}

	if err := s.surveyService.WarmSurveyCache(ctx, survey); err != nil {
		s.logger.Warn().Err(err).Str("survey_id", survey.ID.String()).Msg("cache self-heal failed")
	}

	return payload, nil
}

func (s *RespondentService) cachedPayload(ctx context.Context, surveyID uuid.UUID) *model.SurveyPayload {
	raw, err := s.redisClient.Get(ctx, config.CacheKey.SurveyPayloadKey(surveyID.String())).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("payload cache read failed, falling back to database")
		}
		return nil
	}

	var payload model.SurveyPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		s.logger.Warn().Err(err).Msg("cached payload is corrupt, falling back to database")
		return nil
	}
	return &payload
}

// SubmitResponse validates a complete submission by replaying it through the
// answering state machine, then queues it for asynchronous persistence.
// Nothing is written synchronously; the worker owns the transaction.
func (s *RespondentService) SubmitResponse(ctx context.Context, distributionID uuid.UUID, req *model.SubmitResponseRequest) (uuid.UUID, error) {
	dist, err := s.distributionRepo.GetByID(ctx, distributionID)
	if err != nil {
		return uuid.Nil, ErrDistributionNotFound
	}
	if !dist.Active {
		return uuid.Nil, ErrSurveyInactive
	}

	payload, err := s.FetchSurvey(ctx, distributionID)
	if err != nil {
		return uuid.Nil, err
	}

	questions := QuestionsFromPayload(payload)
	sess, err := session.New(questions)
	if err != nil {
		return uuid.Nil, err
	}

	if err := applyRequest(sess, questions, req); err != nil {
		return uuid.Nil, err
	}

	// Walking every step re-checks the answered-invariant per question.
	for {
		submitting, err := sess.Advance()
		if err != nil {
			if errors.Is(err, session.ErrAnswerRequired) {
				return uuid.Nil, ErrIncompleteResponse
			}
			return uuid.Nil, err
		}
		if submitting {
			break
		}
	}

	submission, err := sess.BuildSubmission()
	if err != nil {
		return uuid.Nil, err
	}

	responseID, err := s.EnqueueSubmission(ctx, distributionID, payload.SurveyID, questions, submission)
	if err != nil {
		_ = sess.FailSubmit()
		return uuid.Nil, err
	}

	_ = sess.CompleteSubmit()
	return responseID, nil
}

// EnqueueSubmission packages a validated submission as a persist job and
// pushes it to the worker queue. The hosted-session store reuses this path.
func (s *RespondentService) EnqueueSubmission(ctx context.Context, distributionID, surveyID uuid.UUID, questions []model.Question, submission *session.Submission) (uuid.UUID, error) {
	industry, err := s.companyRepo.IndustryOf(ctx, surveyID.String())
	if err != nil {
		s.logger.Warn().Err(err).Msg("industry lookup failed, benchmarks skipped for this response")
		industry = ""
	}

	job := &PersistResponseJob{
		ResponseID:     uuid.New(),
		SurveyID:       surveyID,
		DistributionID: distributionID,
		Industry:       industry,
		SubmittedAt:    time.Now().UTC(),
		Submission:     submission,
		Benchmarks:     collectBenchmarks(industry, questions, submission),
	}

	encoded, err := json.Marshal(job)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal persist job: %w", err)
	}
	if err := s.redisClient.LPush(ctx, config.WorkerKey.PersistResponsesQueue, encoded).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("enqueue persist job: %w", err)
	}

	return job.ResponseID, nil
}

// QuestionsFromPayload rebuilds the question list the state machine needs
// from a cached respondent payload.
func QuestionsFromPayload(payload *model.SurveyPayload) []model.Question {
	questions := make([]model.Question, 0, len(payload.Questions))
	for _, rq := range payload.Questions {
		questions = append(questions, model.Question{
			ID:         rq.ID,
			SurveyID:   payload.SurveyID,
			Text:       rq.Text,
			Type:       rq.Type,
			Options:    rq.Options,
			NAOption:   rq.NAOption,
			IsCustom:   rq.IsCustom,
			OrderIndex: rq.OrderIndex,
		})
	}
	return questions
}

// applyRequest feeds a submit request into a fresh session. Classification
// answers arrive flattened with option_id carrying the item id; demographic
// answers arrive as the dedicated gender/age_range fields.
func applyRequest(sess *session.Session, questions []model.Question, req *model.SubmitResponseRequest) error {
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	for _, in := range req.Answers {
		q, ok := byID[in.QuestionID]
		if !ok {
			return session.ErrUnknownQuestion
		}
		if q.Type == model.QuestionTypeClassification {
			if err := sess.AnswerItem(q.ID, in.OptionID, in.AnswerValue); err != nil {
				return err
			}
			continue
		}
		if err := sess.Answer(q.ID, in.AnswerValue, in.OptionID); err != nil {
			return err
		}
	}

	for _, in := range req.CustomAnswers {
		if _, ok := byID[in.QuestionID]; !ok {
			return session.ErrUnknownQuestion
		}
		if err := sess.Answer(in.QuestionID, in.AnswerValue, ""); err != nil {
			return err
		}
	}

	for i := range questions {
		q := &questions[i]
		switch {
		case q.Type == model.QuestionTypeGender && req.Gender != nil:
			if err := sess.Answer(q.ID, *req.Gender, ""); err != nil {
				return err
			}
		case q.Type == model.QuestionTypeAgeRange && req.AgeRange != nil:
			if err := sess.Answer(q.ID, *req.AgeRange, ""); err != nil {
				return err
			}
		}
	}

	return nil
}

// collectBenchmarks extracts the anonymous rating observations of a
// submission. Rating answers use their declared scale; classification item
// answers are always 5-point. Custom questions never feed benchmarks.
func collectBenchmarks(industry string, questions []model.Question, sub *session.Submission) []BenchmarkEvent {
	if industry == "" {
		return nil
	}

	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	var events []BenchmarkEvent
	for _, a := range sub.Standard {
		q, ok := byID[a.QuestionID]
		if !ok || a.Value == model.NAValue {
			continue
		}

		scale := 0
		switch q.Type {
		case model.QuestionTypeRating:
			opts, err := q.RatingOptions()
			if err != nil {
				continue
			}
			scale = opts.Scale
		case model.QuestionTypeClassification:
			scale = 5
		default:
			continue
		}

		v, err := strconv.Atoi(a.Value)
		if err != nil {
			continue
		}
		ev := BenchmarkEvent{Industry: industry, Scale: scale, Value: v}
		if ev.Valid() {
			events = append(events, ev)
		}
	}
	return events
}
