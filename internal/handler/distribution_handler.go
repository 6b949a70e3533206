package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sondea/sondea-backend/internal/middleware"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/response"
	"github.com/sondea/sondea-backend/internal/service"
	"github.com/sondea/sondea-backend/internal/validator"
)

// DistributionHandler handles console distribution endpoint management.
type DistributionHandler struct {
	distributionService *service.DistributionService
}

// NewDistributionHandler creates a new DistributionHandler.
func NewDistributionHandler(distributionService *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{distributionService: distributionService}
}

// Create godoc
// POST /api/v1/console/surveys/:id/distributions
func (h *DistributionHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateDistributionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	dist, err := h.distributionService.Create(c.Request.Context(), surveyID, claims.CompanyID, &req)
	if err != nil {
		failDistribution(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"distribution": dist})
}

// List godoc
// GET /api/v1/console/surveys/:id/distributions
func (h *DistributionHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	list, err := h.distributionService.ListBySurvey(c.Request.Context(), surveyID, claims.CompanyID)
	if err != nil {
		failDistribution(c, err)
		return
	}
	if list == nil {
		list = []model.Distribution{}
	}

	response.Success(c, http.StatusOK, gin.H{"distributions": list})
}

// SetActive godoc
// PUT /api/v1/console/distributions/:id/active
// Toggles a distribution endpoint on or off.
func (h *DistributionHandler) SetActive(c *gin.Context) {
	claims := middleware.GetClaims(c)
	distID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.distributionService.SetActive(c.Request.Context(), distID, claims.CompanyID, *req.Active); err != nil {
		failDistribution(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Delete godoc
// DELETE /api/v1/console/distributions/:id
func (h *DistributionHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	distID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.distributionService.Delete(c.Request.Context(), distID, claims.CompanyID); err != nil {
		failDistribution(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func failDistribution(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDistributionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotSurveyOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotSurveyOwner)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
