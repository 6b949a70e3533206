package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sondea/sondea-backend/internal/middleware"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/response"
	"github.com/sondea/sondea-backend/internal/service"
)

// AnalyticsHandler handles console analytics endpoints.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetSummary godoc
// GET /api/v1/console/surveys/:id/analytics
// Returns the survey's aggregates with the industry benchmark overlay.
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	summary, err := h.analyticsService.GetSurveySummary(c.Request.Context(), surveyID, claims.CompanyID)
	if err != nil {
		failOwnership(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// ListRecentResponses godoc
// GET /api/v1/console/surveys/:id/responses?limit=20
// Returns the survey's most recent submissions for the dashboard feed.
func (h *AnalyticsHandler) ListRecentResponses(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	responses, err := h.analyticsService.RecentResponses(c.Request.Context(), surveyID, claims.CompanyID, limit)
	if err != nil {
		failOwnership(c, err)
		return
	}
	if responses == nil {
		responses = []model.SurveyResponse{}
	}

	response.Success(c, http.StatusOK, gin.H{"responses": responses})
}
