package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question kinds. Each kind carries a
// type-dependent options payload; decode it through the typed accessors below
// instead of inspecting the raw JSON.
type QuestionType string

const (
	QuestionTypeRating         QuestionType = "RATING"
	QuestionTypeText           QuestionType = "TEXT"
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeCheckbox       QuestionType = "CHECKBOX"
	QuestionTypeGender         QuestionType = "GENDER"
	QuestionTypeAgeRange       QuestionType = "AGE_RANGE"
	QuestionTypeClassification QuestionType = "CLASSIFICATION"
)

// AllQuestionTypes lists every valid question type, for validation.
var AllQuestionTypes = []QuestionType{
	QuestionTypeRating,
	QuestionTypeText,
	QuestionTypeMultipleChoice,
	QuestionTypeCheckbox,
	QuestionTypeGender,
	QuestionTypeAgeRange,
	QuestionTypeClassification,
}

// NAValue is the reserved sentinel for "not applicable" answers. It is only
// a valid answer when the question has na_option enabled, and must never
// collide with a real response value.
const NAValue = "NA"

// Question represents a single survey question.
type Question struct {
	ID         uuid.UUID       `json:"id"`
	SurveyID   uuid.UUID       `json:"survey_id"`
	Text       string          `json:"text"`
	Type       QuestionType    `json:"question_type"`
	Options    json.RawMessage `json:"options"`
	NAOption   bool            `json:"na_option"`
	IsCustom   bool            `json:"is_custom"`
	Critical   bool            `json:"critical"`
	OrderIndex int             `json:"order_index"`
}

// IsDemographic reports whether the question's answer is extracted as a
// discrete respondent attribute instead of a generic answer row.
func (q *Question) IsDemographic() bool {
	return q.Type == QuestionTypeGender || q.Type == QuestionTypeAgeRange
}

// ─── Typed option payloads ──────────────────────────────────────────

// Choice is a selectable option for choice-like question types.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ChoiceOptions is the options payload for MULTIPLE_CHOICE, CHECKBOX,
// GENDER and AGE_RANGE questions.
type ChoiceOptions struct {
	Choices []Choice `json:"choices"`
}

// RatingLabel maps a rating value to its qualitative label (5-point scales).
type RatingLabel struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

// RatingOptions is the options payload for RATING questions. Scale is 5
// (icon/label pairs) or 10 (plain integers).
type RatingOptions struct {
	Scale  int           `json:"scale"`
	Labels []RatingLabel `json:"labels,omitempty"`
}

// ClassificationItem is one independently scored item inside a
// CLASSIFICATION question. Items are always rated 1–5 (or NA).
type ClassificationItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ClassificationOptions is the options payload for CLASSIFICATION questions.
type ClassificationOptions struct {
	ItemsToEvaluate []ClassificationItem `json:"items_to_evaluate"`
}

// ─── Typed accessors ────────────────────────────────────────────────

// ChoiceOptions decodes the options payload of a choice-like question.
func (q *Question) ChoiceOptions() (*ChoiceOptions, error) {
	switch q.Type {
	case QuestionTypeMultipleChoice, QuestionTypeCheckbox, QuestionTypeGender, QuestionTypeAgeRange:
	default:
		return nil, fmt.Errorf("question type %s has no choices", q.Type)
	}
	var opts ChoiceOptions
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, fmt.Errorf("decode choice options: %w", err)
	}
	return &opts, nil
}

// RatingOptions decodes the options payload of a RATING question.
func (q *Question) RatingOptions() (*RatingOptions, error) {
	if q.Type != QuestionTypeRating {
		return nil, fmt.Errorf("question type %s is not a rating", q.Type)
	}
	var opts RatingOptions
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, fmt.Errorf("decode rating options: %w", err)
	}
	return &opts, nil
}

// ClassificationItems decodes the evaluated items of a CLASSIFICATION
// question, in their declared order.
func (q *Question) ClassificationItems() ([]ClassificationItem, error) {
	if q.Type != QuestionTypeClassification {
		return nil, fmt.Errorf("question type %s is not a classification", q.Type)
	}
	var opts ClassificationOptions
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, fmt.Errorf("decode classification options: %w", err)
	}
	return opts.ItemsToEvaluate, nil
}

// ─── Request payloads ───────────────────────────────────────────────

// CreateQuestionRequest is the payload for adding a question to a survey.
type CreateQuestionRequest struct {
	Text       string          `json:"text" binding:"required,min=1,max=2000"`
	Type       string          `json:"question_type" binding:"required,oneof=RATING TEXT MULTIPLE_CHOICE CHECKBOX GENDER AGE_RANGE CLASSIFICATION"`
	Options    json.RawMessage `json:"options" binding:"omitempty"`
	NAOption   bool            `json:"na_option"`
	IsCustom   bool            `json:"is_custom"`
	Critical   bool            `json:"critical"`
	OrderIndex int             `json:"order_index" binding:"min=0"`
}

// UpdateQuestionRequest is the payload for updating an existing question.
type UpdateQuestionRequest struct {
	Text       string          `json:"text" binding:"omitempty,min=1,max=2000"`
	Options    json.RawMessage `json:"options" binding:"omitempty"`
	NAOption   *bool           `json:"na_option" binding:"omitempty"`
	Critical   *bool           `json:"critical" binding:"omitempty"`
	OrderIndex *int            `json:"order_index" binding:"omitempty,min=0"`
}
