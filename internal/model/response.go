package model

import (
	"time"

	"github.com/google/uuid"
)

// SurveyResponse is one completed respondent submission.
type SurveyResponse struct {
	ID             uuid.UUID `json:"id"`
	SurveyID       uuid.UUID `json:"survey_id"`
	DistributionID uuid.UUID `json:"distribution_id"`
	Gender         *string   `json:"gender,omitempty"`
	AgeRange       *string   `json:"age_range,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// ResponseAnswer is a standard answer row. Classification sub-answers are
// stored one row per evaluated item with option_id carrying the item id.
type ResponseAnswer struct {
	ResponseID uuid.UUID `json:"response_id"`
	QuestionID uuid.UUID `json:"question_id"`
	OptionID   *string   `json:"option_id,omitempty"`
	Value      string    `json:"answer_value"`
}

// ResponseCustomAnswer is an answer to a company-authored custom question,
// persisted through its own relation.
type ResponseCustomAnswer struct {
	ResponseID uuid.UUID `json:"response_id"`
	QuestionID uuid.UUID `json:"question_id"`
	Value      string    `json:"answer_value"`
}

// ─── Submit contract ────────────────────────────────────────────────

// AnswerInput is one standard answer in a submit request.
type AnswerInput struct {
	QuestionID  uuid.UUID `json:"question_id" binding:"required"`
	AnswerValue string    `json:"answer_value" binding:"required"`
	OptionID    string    `json:"option_id" binding:"omitempty,max=64"`
}

// CustomAnswerInput is one custom-question answer in a submit request.
type CustomAnswerInput struct {
	QuestionID  uuid.UUID `json:"question_id" binding:"required"`
	AnswerValue string    `json:"answer_value" binding:"required"`
}

// SubmitResponseRequest is the wire payload for submitting a finished
// response to a distribution endpoint.
type SubmitResponseRequest struct {
	Answers       []AnswerInput       `json:"answers" binding:"dive"`
	CustomAnswers []CustomAnswerInput `json:"custom_answers" binding:"dive"`
	Gender        *string             `json:"gender" binding:"omitempty,max=40"`
	AgeRange      *string             `json:"age_range" binding:"omitempty,max=40"`
}
