package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sondea/sondea-backend/internal/model"
)

// ErrBadDemographicColumn guards DemographicSplit against arbitrary columns.
var ErrBadDemographicColumn = errors.New("demographic column must be gender or age_range")

// RatingStat aggregates numeric answers for one question (or one
// classification item, in which case OptionID carries the item id).
type RatingStat struct {
	QuestionID uuid.UUID `json:"question_id"`
	OptionID   *string   `json:"option_id,omitempty"`
	Count      int       `json:"count"`
	NACount    int       `json:"na_count"`
	Average    float64   `json:"average"`
	Promoters  int       `json:"promoters"`
	Passives   int       `json:"passives"`
	Detractors int       `json:"detractors"`
}

// OptionCount is the pick frequency of one choice.
type OptionCount struct {
	QuestionID uuid.UUID `json:"question_id"`
	OptionID   string    `json:"option_id"`
	Count      int       `json:"count"`
}

// AnalyticsRepository runs the SQL aggregations behind the console's
// survey summary.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// RatingStats aggregates RATING and CLASSIFICATION answers per question and
// per classification item. The NA sentinel is excluded from averages but
// counted separately.
func (r *AnalyticsRepository) RatingStats(ctx context.Context, surveyID uuid.UUID) ([]RatingStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ra.question_id,
		        CASE WHEN q.question_type = $2 THEN ra.option_id END AS item_id,
		        COUNT(*) FILTER (WHERE ra.answer_value ~ '^[0-9]+$') AS n,
		        COUNT(*) FILTER (WHERE ra.answer_value = 'NA') AS na_n,
		        COALESCE(AVG(ra.answer_value::numeric) FILTER (WHERE ra.answer_value ~ '^[0-9]+$'), 0) AS avg,
		        COUNT(*) FILTER (WHERE ra.answer_value ~ '^[0-9]+$' AND ra.answer_value::int >= 9) AS promoters,
		        COUNT(*) FILTER (WHERE ra.answer_value ~ '^[0-9]+$' AND ra.answer_value::int BETWEEN 7 AND 8) AS passives,
		        COUNT(*) FILTER (WHERE ra.answer_value ~ '^[0-9]+$' AND ra.answer_value::int <= 6) AS detractors
		 FROM response_answers ra
		 JOIN questions q ON q.id = ra.question_id
		 JOIN survey_responses sr ON sr.id = ra.response_id
		 WHERE sr.survey_id = $1 AND q.question_type IN ($3, $2)
		 GROUP BY ra.question_id, item_id
		 ORDER BY ra.question_id, item_id`,
		surveyID, model.QuestionTypeClassification, model.QuestionTypeRating,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []RatingStat
	for rows.Next() {
		var s RatingStat
		if err := rows.Scan(&s.QuestionID, &s.OptionID, &s.Count, &s.NACount,
			&s.Average, &s.Promoters, &s.Passives, &s.Detractors); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// OptionCounts aggregates choice-type answer frequencies.
func (r *AnalyticsRepository) OptionCounts(ctx context.Context, surveyID uuid.UUID) ([]OptionCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ra.question_id, ra.option_id, COUNT(*)
		 FROM response_answers ra
		 JOIN questions q ON q.id = ra.question_id
		 JOIN survey_responses sr ON sr.id = ra.response_id
		 WHERE sr.survey_id = $1
		   AND q.question_type IN ($2, $3)
		   AND ra.option_id IS NOT NULL
		 GROUP BY ra.question_id, ra.option_id
		 ORDER BY ra.question_id, COUNT(*) DESC`,
		surveyID, model.QuestionTypeMultipleChoice, model.QuestionTypeCheckbox,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []OptionCount
	for rows.Next() {
		var c OptionCount
		if err := rows.Scan(&c.QuestionID, &c.OptionID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// DemographicSplit counts responses by a demographic column. Column must be
// "gender" or "age_range"; anything else is rejected before reaching SQL.
func (r *AnalyticsRepository) DemographicSplit(ctx context.Context, surveyID uuid.UUID, column string) (map[string]int, error) {
	var query string
	switch column {
	case "gender":
		query = `SELECT gender, COUNT(*) FROM survey_responses
		         WHERE survey_id = $1 AND gender IS NOT NULL GROUP BY gender`
	case "age_range":
		query = `SELECT age_range, COUNT(*) FROM survey_responses
		         WHERE survey_id = $1 AND age_range IS NOT NULL GROUP BY age_range`
	default:
		return nil, ErrBadDemographicColumn
	}

	rows, err := r.pool.Query(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	split := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		split[key] = count
	}
	return split, rows.Err()
}
