package model

import (
	"time"

	"github.com/google/uuid"
)

// DistributionChannel enumerates how a survey reaches respondents.
type DistributionChannel string

const (
	DistributionChannelLocation DistributionChannel = "LOCATION"
	DistributionChannelOnline   DistributionChannel = "ONLINE"
)

// Distribution is a (survey, location-or-channel) endpoint. Its ID is the
// opaque identifier embedded in the QR code or link handed to respondents.
type Distribution struct {
	ID        uuid.UUID           `json:"id"`
	SurveyID  uuid.UUID           `json:"survey_id"`
	CompanyID int                 `json:"company_id"`
	Channel   DistributionChannel `json:"channel"`
	Label     string              `json:"label"`
	Active    bool                `json:"active"`
	CreatedAt time.Time           `json:"created_at"`
}

// CreateDistributionRequest is the payload for creating a distribution
// endpoint under a survey.
type CreateDistributionRequest struct {
	Channel string `json:"channel" binding:"required,oneof=LOCATION ONLINE"`
	Label   string `json:"label" binding:"required,min=1,max=120"`
}
