package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/response"
	"github.com/sondea/sondea-backend/internal/service"
	"github.com/sondea/sondea-backend/internal/session"
	"github.com/sondea/sondea-backend/internal/validator"
)

// RespondentHandler serves the public survey surface: payload fetch, direct
// submission and server-hosted answering sessions. None of these endpoints
// require authentication.
type RespondentHandler struct {
	respondentService *service.RespondentService
	sessionStore      *service.SessionStore
}

// NewRespondentHandler creates a new RespondentHandler.
func NewRespondentHandler(respondentService *service.RespondentService, sessionStore *service.SessionStore) *RespondentHandler {
	return &RespondentHandler{
		respondentService: respondentService,
		sessionStore:      sessionStore,
	}
}

// FetchSurvey godoc
// GET /api/v1/respondent/surveys/:distribution_id
// Resolves a QR/link distribution id to the survey payload.
func (h *RespondentHandler) FetchSurvey(c *gin.Context) {
	distID, err := uuid.Parse(c.Param("distribution_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payload, err := h.respondentService.FetchSurvey(c.Request.Context(), distID)
	if err != nil {
		failRespondent(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"survey": payload})
}

// Submit godoc
// POST /api/v1/respondent/surveys/:distribution_id/submit
// Accepts a complete response in one request. The payload is revalidated
// server-side and queued; persistence is asynchronous.
func (h *RespondentHandler) Submit(c *gin.Context) {
	distID, err := uuid.Parse(c.Param("distribution_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitResponseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	responseID, err := h.respondentService.SubmitResponse(c.Request.Context(), distID, &req)
	if err != nil {
		failRespondent(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"response_id": responseID})
}

// CreateSession godoc
// POST /api/v1/respondent/surveys/:distribution_id/sessions
// Opens a server-hosted answering session and returns its token plus the
// first question.
func (h *RespondentHandler) CreateSession(c *gin.Context) {
	distID, err := uuid.Parse(c.Param("distribution_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.sessionStore.Create(c.Request.Context(), distID)
	if err != nil {
		failRespondent(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": state})
}

// sessionAnswerRequest is the hosted-session answer payload. A non-empty
// item_id routes the value to that classification item.
type sessionAnswerRequest struct {
	QuestionID  uuid.UUID `json:"question_id" binding:"required"`
	AnswerValue string    `json:"answer_value" binding:"required"`
	OptionID    string    `json:"option_id" binding:"omitempty,max=64"`
	ItemID      string    `json:"item_id" binding:"omitempty,max=64"`
}

// AnswerSession godoc
// PUT /api/v1/respondent/sessions/:token/answers
func (h *RespondentHandler) AnswerSession(c *gin.Context) {
	var req sessionAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionStore.Answer(c.Request.Context(), c.Param("token"), req.QuestionID, req.AnswerValue, req.OptionID, req.ItemID)
	if err != nil {
		failRespondent(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// AdvanceSession godoc
// POST /api/v1/respondent/sessions/:token/advance
// Moves to the next question, or into SUBMITTING on the last one.
func (h *RespondentHandler) AdvanceSession(c *gin.Context) {
	state, err := h.sessionStore.Advance(c.Request.Context(), c.Param("token"))
	if err != nil {
		failRespondent(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// SubmitSession godoc
// POST /api/v1/respondent/sessions/:token/submit
// Finalizes a SUBMITTING session. On queue failure the session reverts so
// the respondent can retry with answers intact.
func (h *RespondentHandler) SubmitSession(c *gin.Context) {
	state, err := h.sessionStore.Submit(c.Request.Context(), c.Param("token"))
	if err != nil {
		failRespondent(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"session": state})
}

// failRespondent maps respondent-surface errors to the envelope codes.
func failRespondent(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDistributionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrSurveyInactive):
		response.Fail(c, http.StatusGone, response.ErrSurveyInactive)
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrIncompleteResponse):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrIncompleteResponse)
	case errors.Is(err, session.ErrAnswerRequired):
		response.Fail(c, http.StatusConflict, response.ErrAnswerRequired)
	case errors.Is(err, session.ErrSessionClosed), errors.Is(err, session.ErrSubmitInFlight):
		response.Fail(c, http.StatusConflict, response.ErrSessionClosed)
	case errors.Is(err, session.ErrNotSubmitting):
		response.Fail(c, http.StatusConflict, response.ErrActionForbidden)
	case errors.Is(err, session.ErrNoQuestions), errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
	case errors.Is(err, session.ErrUnknownQuestion),
		errors.Is(err, session.ErrUnknownItem),
		errors.Is(err, session.ErrItemAnswerNeeded),
		errors.Is(err, session.ErrScalarAnswer),
		errors.Is(err, session.ErrEmptyValue):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	default:
		response.Fail(c, http.StatusServiceUnavailable, response.ErrTransient)
	}
}
