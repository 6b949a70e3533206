package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sondea/sondea-backend/internal/response"
	"github.com/sondea/sondea-backend/internal/service"
	"github.com/sondea/sondea-backend/internal/session"
)

func respondentFailure(t *testing.T, err error) (int, response.ErrCode) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	failRespondent(c, err)

	var body struct {
		Error *response.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return rec.Code, body.Error.Code
}

func TestFailRespondentMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   response.ErrCode
	}{
		{"unknown distribution", service.ErrDistributionNotFound, http.StatusNotFound, response.ErrNotFound},
		{"inactive survey", service.ErrSurveyInactive, http.StatusGone, response.ErrSurveyInactive},
		{"empty survey from payload build", service.ErrNoQuestions, http.StatusConflict, response.ErrNoQuestions},
		{"empty survey from session", session.ErrNoQuestions, http.StatusConflict, response.ErrNoQuestions},
		{"unanswered question", session.ErrAnswerRequired, http.StatusConflict, response.ErrAnswerRequired},
		{"closed session", session.ErrSessionClosed, http.StatusConflict, response.ErrSessionClosed},
		{"unexpected error", errors.New("redis down"), http.StatusServiceUnavailable, response.ErrTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := respondentFailure(t, tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, code)
		})
	}
}
