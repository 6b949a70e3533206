package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/repository"
)

// ErrEmailTaken signals a registration attempt with an email that already
// has an admin account.
var ErrEmailTaken = errors.New("email already registered")

// CompanyService handles tenant registration, login and profile management.
type CompanyService struct {
	companyRepo *repository.CompanyRepository
	authService *AuthService
	logger      zerolog.Logger
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo *repository.CompanyRepository, authService *AuthService, logger zerolog.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		authService: authService,
		logger:      logger.With().Str("service", "company").Logger(),
	}
}

// Register creates a company together with its first admin account.
func (s *CompanyService) Register(ctx context.Context, req *model.RegisterCompanyRequest) (*model.Company, *model.CompanyAdmin, error) {
	taken, err := s.companyRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, nil, ErrEmailTaken
	}

	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	company := &model.Company{
		Name:     req.CompanyName,
		Industry: req.Industry,
	}
	admin := &model.CompanyAdmin{
		Name:         req.AdminName,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.companyRepo.CreateWithAdmin(ctx, company, admin); err != nil {
		return nil, nil, fmt.Errorf("create company: %w", err)
	}

	s.logger.Info().Int("company_id", company.ID).Str("industry", company.Industry).Msg("company registered")
	return company, admin, nil
}

// Login verifies admin credentials and issues a fresh JWT. A new login
// replaces any session the admin already holds.
func (s *CompanyService) Login(ctx context.Context, req *model.AdminLoginRequest) (string, *model.CompanyAdmin, error) {
	admin, err := s.companyRepo.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := s.authService.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.authService.GenerateAdminToken(ctx, admin.ID, admin.CompanyID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, admin, nil
}

// Logout invalidates the admin's active session.
func (s *CompanyService) Logout(ctx context.Context, adminID int) error {
	return s.authService.ResetAdminSession(ctx, adminID)
}

// GetProfile retrieves a company together with the requesting admin's
// account, for the console header.
func (s *CompanyService) GetProfile(ctx context.Context, companyID, adminID int) (*model.Company, *model.CompanyAdmin, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	admin, err := s.companyRepo.GetAdminByID(ctx, adminID)
	if err != nil {
		return nil, nil, err
	}
	return company, admin, nil
}

// UpdateProfile applies partial updates to a company's settings.
func (s *CompanyService) UpdateProfile(ctx context.Context, companyID int, req *model.UpdateCompanyRequest) (*model.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		company.Name = req.Name
	}
	if req.Industry != "" {
		company.Industry = req.Industry
	}
	if req.LogoURL != "" {
		company.LogoURL = req.LogoURL
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return company, nil
}
