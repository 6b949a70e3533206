package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/session"
)

// ResponseRepository handles survey response persistence.
type ResponseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

// Insert persists a response with its standard and custom answer rows in a
// single transaction. The three buckets land in three relations.
func (r *ResponseRepository) Insert(ctx context.Context, resp *model.SurveyResponse, sub *session.Submission) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if resp.ID == uuid.Nil {
		resp.ID = uuid.New()
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO survey_responses (id, survey_id, distribution_id, gender, age_range, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		resp.ID, resp.SurveyID, resp.DistributionID, sub.Gender, sub.AgeRange, resp.SubmittedAt,
	); err != nil {
		return err
	}

	for _, a := range sub.Standard {
		var optionID *string
		if a.OptionID != "" {
			optionID = &a.OptionID
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO response_answers (response_id, question_id, option_id, answer_value)
			 VALUES ($1, $2, $3, $4)`,
			resp.ID, a.QuestionID, optionID, a.Value,
		); err != nil {
			return err
		}
	}

	for _, a := range sub.Custom {
		if _, err := tx.Exec(ctx,
			`INSERT INTO response_custom_answers (response_id, question_id, answer_value)
			 VALUES ($1, $2, $3)`,
			resp.ID, a.QuestionID, a.Value,
		); err != nil {
			return err
		}
	}

	resp.Gender = sub.Gender
	resp.AgeRange = sub.AgeRange

	return tx.Commit(ctx)
}

// CountBySurvey returns the number of responses a survey has received.
func (r *ResponseRepository) CountBySurvey(ctx context.Context, surveyID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM survey_responses WHERE survey_id = $1`, surveyID,
	).Scan(&count)
	return count, err
}

// ListRecent retrieves the latest responses for a survey.
func (r *ResponseRepository) ListRecent(ctx context.Context, surveyID uuid.UUID, limit int) ([]model.SurveyResponse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, survey_id, distribution_id, gender, age_range, submitted_at
		 FROM survey_responses
		 WHERE survey_id = $1
		 ORDER BY submitted_at DESC
		 LIMIT $2`, surveyID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.SurveyResponse
	for rows.Next() {
		var resp model.SurveyResponse
		if err := rows.Scan(&resp.ID, &resp.SurveyID, &resp.DistributionID,
			&resp.Gender, &resp.AgeRange, &resp.SubmittedAt); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// CountSince returns responses submitted after a given time, for the
// console's activity widget.
func (r *ResponseRepository) CountSince(ctx context.Context, surveyID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM survey_responses
		 WHERE survey_id = $1 AND submitted_at >= $2`, surveyID, since,
	).Scan(&count)
	return count, err
}
