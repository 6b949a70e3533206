package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/repository"
)

// ErrDistributionNotFound signals an unknown or foreign distribution id.
var ErrDistributionNotFound = errors.New("distribution not found")

// DistributionService handles distribution endpoint business logic.
type DistributionService struct {
	distributionRepo *repository.DistributionRepository
	surveyRepo       *repository.SurveyRepository
}

// NewDistributionService creates a new DistributionService.
func NewDistributionService(
	distributionRepo *repository.DistributionRepository,
	surveyRepo *repository.SurveyRepository,
) *DistributionService {
	return &DistributionService{
		distributionRepo: distributionRepo,
		surveyRepo:       surveyRepo,
	}
}

// Create adds a distribution endpoint to a survey the company owns.
// New endpoints start active.
func (s *DistributionService) Create(ctx context.Context, surveyID uuid.UUID, companyID int, req *model.CreateDistributionRequest) (*model.Distribution, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	if survey.CompanyID != companyID {
		return nil, ErrNotSurveyOwner
	}

	d := &model.Distribution{
		SurveyID:  surveyID,
		CompanyID: companyID,
		Channel:   model.DistributionChannel(req.Channel),
		Label:     req.Label,
		Active:    true,
	}
	if err := s.distributionRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create distribution: %w", err)
	}
	return d, nil
}

// ListBySurvey retrieves the distribution endpoints of an owned survey.
func (s *DistributionService) ListBySurvey(ctx context.Context, surveyID uuid.UUID, companyID int) ([]model.Distribution, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	if survey.CompanyID != companyID {
		return nil, ErrNotSurveyOwner
	}
	return s.distributionRepo.ListBySurvey(ctx, surveyID)
}

// SetActive toggles an owned distribution endpoint. Deactivating an endpoint
// closes its QR code without touching the survey itself.
func (s *DistributionService) SetActive(ctx context.Context, id uuid.UUID, companyID int, active bool) error {
	d, err := s.getOwned(ctx, id, companyID)
	if err != nil {
		return err
	}
	return s.distributionRepo.SetActive(ctx, d.ID, active)
}

// Delete removes an owned distribution endpoint.
func (s *DistributionService) Delete(ctx context.Context, id uuid.UUID, companyID int) error {
	d, err := s.getOwned(ctx, id, companyID)
	if err != nil {
		return err
	}
	return s.distributionRepo.Delete(ctx, d.ID)
}

func (s *DistributionService) getOwned(ctx context.Context, id uuid.UUID, companyID int) (*model.Distribution, error) {
	d, err := s.distributionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrDistributionNotFound
	}
	if d.CompanyID != companyID {
		return nil, ErrNotSurveyOwner
	}
	return d, nil
}
