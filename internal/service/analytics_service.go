package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/repository"
)

// QuestionStat is one question's aggregate in the survey summary. Rating
// questions carry CSAT or NPS depending on their scale; classification
// questions carry one entry per evaluated item (ItemID set).
type QuestionStat struct {
	QuestionID uuid.UUID `json:"question_id"`
	ItemID     *string   `json:"item_id,omitempty"`
	Scale      int       `json:"scale,omitempty"`
	Count      int       `json:"count"`
	NACount    int       `json:"na_count"`
	Average    float64   `json:"average"`
	CSAT       *float64  `json:"csat,omitempty"`
	NPS        *float64  `json:"nps,omitempty"`
	Benchmark  *float64  `json:"industry_benchmark,omitempty"`
}

// SurveySummary is the console analytics view of one survey.
type SurveySummary struct {
	SurveyID       uuid.UUID                `json:"survey_id"`
	TotalResponses int                      `json:"total_responses"`
	ResponsesToday int                      `json:"responses_today"`
	Ratings        []QuestionStat           `json:"ratings"`
	Options        []repository.OptionCount `json:"options"`
	GenderSplit    map[string]int           `json:"gender_split"`
	AgeRangeSplit  map[string]int           `json:"age_range_split"`
}

// AnalyticsService assembles survey summaries from the SQL aggregates and
// the Redis benchmark hashes.
type AnalyticsService struct {
	analyticsRepo *repository.AnalyticsRepository
	responseRepo  *repository.ResponseRepository
	questionRepo  *repository.QuestionRepository
	companyRepo   *repository.CompanyRepository
	surveyService *SurveyService
	redisClient   *redis.Client
	logger        zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	responseRepo *repository.ResponseRepository,
	questionRepo *repository.QuestionRepository,
	companyRepo *repository.CompanyRepository,
	surveyService *SurveyService,
	redisClient *redis.Client,
	logger zerolog.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		responseRepo:  responseRepo,
		questionRepo:  questionRepo,
		companyRepo:   companyRepo,
		surveyService: surveyService,
		redisClient:   redisClient,
		logger:        logger.With().Str("service", "analytics").Logger(),
	}
}

// GetSurveySummary builds the full analytics view of an owned survey,
// overlaying each rating aggregate with its industry benchmark when one
// exists.
func (s *AnalyticsService) GetSurveySummary(ctx context.Context, surveyID uuid.UUID, companyID int) (*SurveySummary, error) {
	survey, err := s.surveyService.GetOwned(ctx, surveyID, companyID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	scaleOf := make(map[uuid.UUID]int, len(questions))
	for i := range questions {
		q := &questions[i]
		switch q.Type {
		case model.QuestionTypeRating:
			if opts, err := q.RatingOptions(); err == nil {
				scaleOf[q.ID] = opts.Scale
			}
		case model.QuestionTypeClassification:
			scaleOf[q.ID] = 5
		}
	}

	rawStats, err := s.analyticsRepo.RatingStats(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}

	industry := ""
	company, err := s.companyRepo.GetByID(ctx, survey.CompanyID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("company lookup failed, benchmark overlay skipped")
	} else {
		industry = company.Industry
	}

	ratings := make([]QuestionStat, 0, len(rawStats))
	for _, raw := range rawStats {
		scale := scaleOf[raw.QuestionID]
		stat := QuestionStat{
			QuestionID: raw.QuestionID,
			ItemID:     raw.OptionID,
			Scale:      scale,
			Count:      raw.Count,
			NACount:    raw.NACount,
			Average:    raw.Average,
		}

		switch scale {
		case 5:
			v := CSATScore(raw.Average)
			stat.CSAT = &v
		case 10:
			v := NPSScore(raw.Promoters, raw.Passives, raw.Detractors)
			stat.NPS = &v
		}

		if industry != "" && scale != 0 {
			if avg, ok := s.benchmarkAverage(ctx, industry, scale); ok {
				stat.Benchmark = &avg
			}
		}

		ratings = append(ratings, stat)
	}

	options, err := s.analyticsRepo.OptionCounts(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("option counts: %w", err)
	}

	genderSplit, err := s.analyticsRepo.DemographicSplit(ctx, surveyID, "gender")
	if err != nil {
		return nil, fmt.Errorf("gender split: %w", err)
	}
	ageSplit, err := s.analyticsRepo.DemographicSplit(ctx, surveyID, "age_range")
	if err != nil {
		return nil, fmt.Errorf("age range split: %w", err)
	}

	total, err := s.responseRepo.CountBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}
	today, err := s.responseRepo.CountSince(ctx, surveyID, startOfToday())
	if err != nil {
		return nil, fmt.Errorf("count responses today: %w", err)
	}

	return &SurveySummary{
		SurveyID:       surveyID,
		TotalResponses: total,
		ResponsesToday: today,
		Ratings:        ratings,
		Options:        options,
		GenderSplit:    genderSplit,
		AgeRangeSplit:  ageSplit,
	}, nil
}

// benchmarkAverage reads the industry aggregate hash maintained by the
// benchmark worker. Missing or empty hashes simply mean no overlay.
func (s *AnalyticsService) benchmarkAverage(ctx context.Context, industry string, scale int) (float64, bool) {
	fields, err := s.redisClient.HGetAll(ctx, config.CacheKey.BenchmarkKey(industry, scale)).Result()
	if err != nil || len(fields) == 0 {
		return 0, false
	}

	sum, err := strconv.ParseFloat(fields["sum"], 64)
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseFloat(fields["count"], 64)
	if err != nil || count == 0 {
		return 0, false
	}
	return sum / count, true
}

// RecentResponses lists the latest submissions of an owned survey, newest
// first. Limit is clamped to 100.
func (s *AnalyticsService) RecentResponses(ctx context.Context, surveyID uuid.UUID, companyID, limit int) ([]model.SurveyResponse, error) {
	if _, err := s.surveyService.GetOwned(ctx, surveyID, companyID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	responses, err := s.responseRepo.ListRecent(ctx, surveyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent responses: %w", err)
	}
	return responses, nil
}

// CSATScore maps a 1–5 average onto the 0–100 satisfaction scale.
func CSATScore(average float64) float64 {
	if average < 1 {
		return 0
	}
	return (average - 1) / 4 * 100
}

// NPSScore computes the net promoter score (-100..100) from the bucket
// counts of a 10-point question.
func NPSScore(promoters, passives, detractors int) float64 {
	total := promoters + passives + detractors
	if total == 0 {
		return 0
	}
	return float64(promoters-detractors) / float64(total) * 100
}

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
