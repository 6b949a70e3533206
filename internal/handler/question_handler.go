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

// QuestionHandler handles console question endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
	surveyService   *service.SurveyService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService, surveyService *service.SurveyService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, surveyService: surveyService}
}

// List godoc
// GET /api/v1/console/surveys/:id/questions
func (h *QuestionHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.surveyService.GetOwned(c.Request.Context(), surveyID, claims.CompanyID); err != nil {
		failOwnership(c, err)
		return
	}

	questions, err := h.questionService.ListBySurvey(c.Request.Context(), surveyID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Create godoc
// POST /api/v1/console/surveys/:id/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	survey, err := h.surveyService.GetOwned(c.Request.Context(), surveyID, claims.CompanyID)
	if err != nil {
		failOwnership(c, err)
		return
	}

	question := &model.Question{
		SurveyID:   surveyID,
		Text:       req.Text,
		Type:       model.QuestionType(req.Type),
		Options:    req.Options,
		NAOption:   req.NAOption,
		IsCustom:   req.IsCustom,
		Critical:   req.Critical,
		OrderIndex: req.OrderIndex,
	}
	service.NormalizeOptions(question)

	if err := h.questionService.Create(c.Request.Context(), question); err != nil {
		failQuestion(c, err)
		return
	}

	h.rewarmIfActive(c, survey)
	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Update godoc
// PUT /api/v1/console/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), questionID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	survey, err := h.surveyService.GetOwned(c.Request.Context(), question.SurveyID, claims.CompanyID)
	if err != nil {
		failOwnership(c, err)
		return
	}

	if req.Text != "" {
		question.Text = req.Text
	}
	if req.Options != nil {
		question.Options = req.Options
	}
	if req.NAOption != nil {
		question.NAOption = *req.NAOption
	}
	if req.Critical != nil {
		question.Critical = *req.Critical
	}
	if req.OrderIndex != nil {
		question.OrderIndex = *req.OrderIndex
	}

	if err := h.questionService.Update(c.Request.Context(), question); err != nil {
		failQuestion(c, err)
		return
	}

	h.rewarmIfActive(c, survey)
	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Delete godoc
// DELETE /api/v1/console/questions/:id
// Critical questions are protected and cannot be deleted.
func (h *QuestionHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), questionID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	survey, err := h.surveyService.GetOwned(c.Request.Context(), question.SurveyID, claims.CompanyID)
	if err != nil {
		failOwnership(c, err)
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), questionID); err != nil {
		failQuestion(c, err)
		return
	}

	h.rewarmIfActive(c, survey)
	response.Success(c, http.StatusOK, gin.H{})
}

// rewarmIfActive refreshes the respondent payload cache after a question
// change on a live survey.
func (h *QuestionHandler) rewarmIfActive(c *gin.Context, survey *model.Survey) {
	if survey.Status != model.SurveyStatusActive {
		return
	}
	if err := h.surveyService.WarmSurveyCache(c.Request.Context(), survey); err != nil {
		_ = c.Error(err)
	}
}

func failQuestion(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCustomQuestionCap):
		response.Fail(c, http.StatusConflict, response.ErrCustomQuestionCap)
	case errors.Is(err, service.ErrCriticalQuestion):
		response.Fail(c, http.StatusConflict, response.ErrCriticalQuestion)
	case errors.Is(err, service.ErrBadOptions):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
