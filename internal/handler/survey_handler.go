package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sondea/sondea-backend/internal/middleware"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/response"
	"github.com/sondea/sondea-backend/internal/service"
	"github.com/sondea/sondea-backend/internal/validator"
)

// SurveyHandler handles console survey CRUD and lifecycle endpoints.
type SurveyHandler struct {
	surveyService *service.SurveyService
}

// NewSurveyHandler creates a new SurveyHandler.
func NewSurveyHandler(surveyService *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// List godoc
// GET /api/v1/console/surveys?page=1&per_page=10
func (h *SurveyHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	surveys, pagination, err := h.surveyService.ListByCompany(c.Request.Context(), claims.CompanyID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"surveys": surveys}, pagination)
}

// Get godoc
// GET /api/v1/console/surveys/:id
func (h *SurveyHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	survey, err := h.surveyService.GetOwned(c.Request.Context(), surveyID, claims.CompanyID)
	if err != nil {
		failOwnership(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"survey": survey})
}

// Create godoc
// POST /api/v1/console/surveys
// New surveys always start as DRAFT.
func (h *SurveyHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateSurveyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	survey := &model.Survey{
		CompanyID:        claims.CompanyID,
		Title:            req.Title,
		Description:      req.Description,
		ThankYouMessage:  req.ThankYouMessage,
		ThankYouImageURL: req.ThankYouImageURL,
		TemplateStyle:    req.TemplateStyle,
	}
	if req.ShowCompanyLogo != nil {
		survey.ShowCompanyLogo = *req.ShowCompanyLogo
	}

	if err := h.surveyService.Create(c.Request.Context(), survey); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"survey": survey})
}

// Update godoc
// PUT /api/v1/console/surveys/:id
func (h *SurveyHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateSurveyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	survey, err := h.surveyService.GetOwned(c.Request.Context(), surveyID, claims.CompanyID)
	if err != nil {
		failOwnership(c, err)
		return
	}

	if req.Title != "" {
		survey.Title = req.Title
	}
	if req.Description != nil {
		survey.Description = *req.Description
	}
	if req.ThankYouMessage != nil {
		survey.ThankYouMessage = *req.ThankYouMessage
	}
	if req.ThankYouImageURL != nil {
		survey.ThankYouImageURL = *req.ThankYouImageURL
	}
	if req.ShowCompanyLogo != nil {
		survey.ShowCompanyLogo = *req.ShowCompanyLogo
	}
	if req.TemplateStyle != nil {
		survey.TemplateStyle = req.TemplateStyle
	}

	if err := h.surveyService.Update(c.Request.Context(), survey); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"survey": survey})
}

// Publish godoc
// POST /api/v1/console/surveys/:id/publish
// Activates a DRAFT survey after warming its respondent payload cache.
func (h *SurveyHandler) Publish(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.surveyService.Publish(c.Request.Context(), surveyID, claims.CompanyID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotSurveyOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotSurveyOwner)
		case errors.Is(err, service.ErrSurveyNotDraft):
			response.Fail(c, http.StatusConflict, response.ErrSurveyNotDraft)
		case errors.Is(err, service.ErrNoQuestions):
			response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Archive godoc
// POST /api/v1/console/surveys/:id/archive
// Archives an ACTIVE survey and drops its payload cache.
func (h *SurveyHandler) Archive(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.surveyService.Archive(c.Request.Context(), surveyID, claims.CompanyID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotSurveyOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotSurveyOwner)
		case errors.Is(err, service.ErrSurveyNotActive):
			response.Fail(c, http.StatusConflict, response.ErrSurveyNotActive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Delete godoc
// DELETE /api/v1/console/surveys/:id
// Only DRAFT surveys can be deleted.
func (h *SurveyHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.surveyService.Delete(c.Request.Context(), surveyID, claims.CompanyID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotSurveyOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotSurveyOwner)
		case errors.Is(err, service.ErrSurveyNotDraft):
			response.Fail(c, http.StatusConflict, response.ErrSurveyNotDraft)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// RefreshCache godoc
// POST /api/v1/console/surveys/:id/refresh-cache
// Rebuilds the Redis payload of an ACTIVE survey on demand.
func (h *SurveyHandler) RefreshCache(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.surveyService.RefreshCache(c.Request.Context(), surveyID, claims.CompanyID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotSurveyOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotSurveyOwner)
		case errors.Is(err, service.ErrSurveyNotActive):
			response.Fail(c, http.StatusConflict, response.ErrSurveyNotActive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// failOwnership maps a GetOwned error to the right status code.
func failOwnership(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotSurveyOwner) {
		response.Fail(c, http.StatusForbidden, response.ErrNotSurveyOwner)
		return
	}
	response.Fail(c, http.StatusNotFound, response.ErrNotFound)
}
