package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SurveyStatus enumerates the possible states of a survey.
type SurveyStatus string

const (
	SurveyStatusDraft    SurveyStatus = "DRAFT"
	SurveyStatusActive   SurveyStatus = "ACTIVE"
	SurveyStatusArchived SurveyStatus = "ARCHIVED"
)

// Survey represents a survey template owned by a company.
type Survey struct {
	ID               uuid.UUID       `json:"id"`
	CompanyID        int             `json:"company_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ThankYouMessage  string          `json:"thank_you_message"`
	ThankYouImageURL string          `json:"thank_you_image_url"`
	ShowCompanyLogo  bool            `json:"show_company_logo"`
	TemplateStyle    json.RawMessage `json:"survey_template_style"`
	Status           SurveyStatus    `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CreateSurveyRequest is the payload for creating a new survey.
type CreateSurveyRequest struct {
	Title            string          `json:"title" binding:"required,min=3,max=255"`
	Description      string          `json:"description" binding:"omitempty,max=2000"`
	ThankYouMessage  string          `json:"thank_you_message" binding:"omitempty,max=500"`
	ThankYouImageURL string          `json:"thank_you_image_url" binding:"omitempty,max=500"`
	ShowCompanyLogo  *bool           `json:"show_company_logo" binding:"omitempty"`
	TemplateStyle    json.RawMessage `json:"survey_template_style" binding:"omitempty"`
}

// UpdateSurveyRequest is the payload for updating an existing survey.
type UpdateSurveyRequest struct {
	Title            string          `json:"title" binding:"omitempty,min=3,max=255"`
	Description      *string         `json:"description" binding:"omitempty,max=2000"`
	ThankYouMessage  *string         `json:"thank_you_message" binding:"omitempty,max=500"`
	ThankYouImageURL *string         `json:"thank_you_image_url" binding:"omitempty,max=500"`
	ShowCompanyLogo  *bool           `json:"show_company_logo" binding:"omitempty"`
	TemplateStyle    json.RawMessage `json:"survey_template_style" binding:"omitempty"`
}

// SurveyPayload is the Redis-cached payload served to respondents.
// It carries only presentation fields and the public view of each question.
type SurveyPayload struct {
	SurveyID         uuid.UUID            `json:"survey_id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	ThankYouMessage  string               `json:"thank_you_message"`
	ThankYouImageURL string               `json:"thank_you_image_url"`
	ShowCompanyLogo  bool                 `json:"show_company_logo"`
	LogoURL          string               `json:"logo_url"`
	TemplateStyle    json.RawMessage      `json:"survey_template_style"`
	Questions        []RespondentQuestion `json:"questions"`
}

// RespondentQuestion is the public view of a question sent to respondents.
// Internal flags (critical) are stripped.
type RespondentQuestion struct {
	ID         uuid.UUID       `json:"id"`
	Text       string          `json:"text"`
	Type       QuestionType    `json:"question_type"`
	Options    json.RawMessage `json:"options"`
	NAOption   bool            `json:"na_option"`
	IsCustom   bool            `json:"is_custom"`
	OrderIndex int             `json:"order_index"`
}
