package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sondea/sondea-backend/internal/model"
)

// CompanyRepository handles company and admin account data access.
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// CreateWithAdmin inserts a company and its first admin in one transaction.
func (r *CompanyRepository) CreateWithAdmin(ctx context.Context, company *model.Company, admin *model.CompanyAdmin) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO companies (name, industry, logo_url)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		company.Name, company.Industry, company.LogoURL,
	).Scan(&company.ID, &company.CreatedAt)
	if err != nil {
		return err
	}

	admin.CompanyID = company.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO company_admins (company_id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		admin.CompanyID, admin.Name, admin.Email, admin.PasswordHash,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a company by id.
func (r *CompanyRepository) GetByID(ctx context.Context, id int) (*model.Company, error) {
	c := &model.Company{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, industry, logo_url, created_at
		 FROM companies WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Industry, &c.LogoURL, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update modifies company settings.
func (r *CompanyRepository) Update(ctx context.Context, c *model.Company) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE companies SET name = $1, industry = $2, logo_url = $3
		 WHERE id = $4`,
		c.Name, c.Industry, c.LogoURL, c.ID)
	return err
}

// GetAdminByEmail retrieves an admin account by email for login.
func (r *CompanyRepository) GetAdminByEmail(ctx context.Context, email string) (*model.CompanyAdmin, error) {
	a := &model.CompanyAdmin{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, company_id, name, email, password_hash, created_at
		 FROM company_admins WHERE email = $1`, email,
	).Scan(&a.ID, &a.CompanyID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAdminByID retrieves an admin account by id.
func (r *CompanyRepository) GetAdminByID(ctx context.Context, id int) (*model.CompanyAdmin, error) {
	a := &model.CompanyAdmin{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, company_id, name, email, password_hash, created_at
		 FROM company_admins WHERE id = $1`, id,
	).Scan(&a.ID, &a.CompanyID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// EmailExists reports whether an admin email is already registered.
func (r *CompanyRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM company_admins WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

// IndustryOf returns the industry of the company owning a survey.
func (r *CompanyRepository) IndustryOf(ctx context.Context, surveyID string) (string, error) {
	var industry string
	err := r.pool.QueryRow(ctx,
		`SELECT c.industry FROM companies c
		 JOIN surveys s ON s.company_id = c.id
		 WHERE s.id = $1`, surveyID,
	).Scan(&industry)
	return industry, err
}
