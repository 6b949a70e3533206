package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sondea/sondea-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListBySurvey retrieves all questions for a survey, ordered by order_index.
// The ORDER BY includes created_at so ties keep their insertion order.
func (r *QuestionRepository) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, survey_id, text, question_type, options, na_option,
		        is_custom, critical, order_index
		 FROM questions WHERE survey_id = $1
		 ORDER BY order_index, created_at`, surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.Text, &q.Type, &q.Options,
			&q.NAOption, &q.IsCustom, &q.Critical, &q.OrderIndex); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, survey_id, text, question_type, options, na_option,
		        is_custom, critical, order_index
		 FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.SurveyID, &q.Text, &q.Type, &q.Options,
		&q.NAOption, &q.IsCustom, &q.Critical, &q.OrderIndex)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (survey_id, text, question_type, options, na_option,
		                        is_custom, critical, order_index)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		q.SurveyID, q.Text, q.Type, q.Options, q.NAOption,
		q.IsCustom, q.Critical, q.OrderIndex,
	).Scan(&q.ID)
}

// Update modifies a question's editable fields.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET text = $1, options = $2, na_option = $3, critical = $4, order_index = $5
		 WHERE id = $6`,
		q.Text, q.Options, q.NAOption, q.Critical, q.OrderIndex, q.ID)
	return err
}

// Delete removes a question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

// CountCustom returns how many custom questions a survey already has.
func (r *QuestionRepository) CountCustom(ctx context.Context, surveyID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE survey_id = $1 AND is_custom`, surveyID,
	).Scan(&count)
	return count, err
}
