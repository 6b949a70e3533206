package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sondea/sondea-backend/internal/model"
)

// SurveyRepository handles survey data access.
type SurveyRepository struct {
	pool *pgxpool.Pool
}

// NewSurveyRepository creates a new SurveyRepository.
func NewSurveyRepository(pool *pgxpool.Pool) *SurveyRepository {
	return &SurveyRepository{pool: pool}
}

// Create inserts a new survey.
func (r *SurveyRepository) Create(ctx context.Context, s *model.Survey) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO surveys (company_id, title, description, thank_you_message,
		                      thank_you_image_url, show_company_logo, template_style, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		s.CompanyID, s.Title, s.Description, s.ThankYouMessage,
		s.ThankYouImageURL, s.ShowCompanyLogo, s.TemplateStyle, s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a survey by id.
func (r *SurveyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Survey, error) {
	s := &model.Survey{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, company_id, title, description, thank_you_message,
		        thank_you_image_url, show_company_logo, template_style, status,
		        created_at, updated_at
		 FROM surveys WHERE id = $1`, id,
	).Scan(&s.ID, &s.CompanyID, &s.Title, &s.Description, &s.ThankYouMessage,
		&s.ThankYouImageURL, &s.ShowCompanyLogo, &s.TemplateStyle, &s.Status,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByCompanyPaginated retrieves a company's surveys, newest first.
func (r *SurveyRepository) ListByCompanyPaginated(ctx context.Context, companyID, limit, offset int) ([]model.Survey, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM surveys WHERE company_id = $1`, companyID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, company_id, title, description, thank_you_message,
		        thank_you_image_url, show_company_logo, template_style, status,
		        created_at, updated_at
		 FROM surveys
		 WHERE company_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, companyID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var surveys []model.Survey
	for rows.Next() {
		var s model.Survey
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Title, &s.Description, &s.ThankYouMessage,
			&s.ThankYouImageURL, &s.ShowCompanyLogo, &s.TemplateStyle, &s.Status,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		surveys = append(surveys, s)
	}
	return surveys, total, rows.Err()
}

// ListActive retrieves all ACTIVE surveys, used for cache prewarm at boot.
func (r *SurveyRepository) ListActive(ctx context.Context) ([]model.Survey, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, company_id, title, description, thank_you_message,
		        thank_you_image_url, show_company_logo, template_style, status,
		        created_at, updated_at
		 FROM surveys WHERE status = $1`, model.SurveyStatusActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var surveys []model.Survey
	for rows.Next() {
		var s model.Survey
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Title, &s.Description, &s.ThankYouMessage,
			&s.ThankYouImageURL, &s.ShowCompanyLogo, &s.TemplateStyle, &s.Status,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}

// Update modifies a survey's editable fields.
func (r *SurveyRepository) Update(ctx context.Context, s *model.Survey) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE surveys
		 SET title = $1, description = $2, thank_you_message = $3,
		     thank_you_image_url = $4, show_company_logo = $5, template_style = $6,
		     updated_at = NOW()
		 WHERE id = $7`,
		s.Title, s.Description, s.ThankYouMessage,
		s.ThankYouImageURL, s.ShowCompanyLogo, s.TemplateStyle, s.ID)
	return err
}

// UpdateStatus changes a survey's lifecycle status.
func (r *SurveyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SurveyStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE surveys SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// Delete removes a draft survey and its questions.
func (r *SurveyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM surveys WHERE id = $1`, id)
	return err
}
