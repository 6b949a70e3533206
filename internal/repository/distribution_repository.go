package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sondea/sondea-backend/internal/model"
)

// DistributionRepository handles distribution endpoint data access.
type DistributionRepository struct {
	pool *pgxpool.Pool
}

// NewDistributionRepository creates a new DistributionRepository.
func NewDistributionRepository(pool *pgxpool.Pool) *DistributionRepository {
	return &DistributionRepository{pool: pool}
}

// Create inserts a new distribution endpoint.
func (r *DistributionRepository) Create(ctx context.Context, d *model.Distribution) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO distributions (survey_id, company_id, channel, label, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		d.SurveyID, d.CompanyID, d.Channel, d.Label, d.Active,
	).Scan(&d.ID, &d.CreatedAt)
}

// GetByID retrieves a distribution endpoint by id.
func (r *DistributionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Distribution, error) {
	d := &model.Distribution{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, survey_id, company_id, channel, label, active, created_at
		 FROM distributions WHERE id = $1`, id,
	).Scan(&d.ID, &d.SurveyID, &d.CompanyID, &d.Channel, &d.Label, &d.Active, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListBySurvey retrieves all distribution endpoints of a survey.
func (r *DistributionRepository) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]model.Distribution, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, survey_id, company_id, channel, label, active, created_at
		 FROM distributions WHERE survey_id = $1
		 ORDER BY created_at`, surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Distribution
	for rows.Next() {
		var d model.Distribution
		if err := rows.Scan(&d.ID, &d.SurveyID, &d.CompanyID, &d.Channel, &d.Label, &d.Active, &d.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// SetActive toggles a distribution endpoint on or off.
func (r *DistributionRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE distributions SET active = $1 WHERE id = $2`, active, id)
	return err
}

// Delete removes a distribution endpoint.
func (r *DistributionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM distributions WHERE id = $1`, id)
	return err
}
