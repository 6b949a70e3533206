package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AdminSessionKey returns the cache key for a company admin's login session
func (r *CacheKeyStruct) AdminSessionKey(adminID int) string {
	return fmt.Sprintf("login:%d", adminID)
}

// SurveyPayloadKey returns the cache key for a survey's respondent payload
func (r *CacheKeyStruct) SurveyPayloadKey(surveyID string) string {
	return fmt.Sprintf("survey:%s:payload", surveyID)
}

// RespondentSessionKey returns the cache key for a hosted respondent session
func (r *CacheKeyStruct) RespondentSessionKey(token string) string {
	return fmt.Sprintf("respondent:session:%s", token)
}

// BenchmarkKey returns the cache key for an industry's rating aggregates
// on a given scale (5 or 10 point).
func (r *CacheKeyStruct) BenchmarkKey(industry string, scale int) string {
	return fmt.Sprintf("benchmark:%s:scale:%d", industry, scale)
}

// SurveyLiveChannel returns the Redis PubSub channel name for a survey's
// live response feed
func (r *CacheKeyStruct) SurveyLiveChannel(surveyID string) string {
	return fmt.Sprintf("survey:%s:responses", surveyID)
}

var CacheKey = NewCacheKeyStruct()
