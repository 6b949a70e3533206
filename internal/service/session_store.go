package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/session"
)

// ErrSessionNotFound signals an unknown or expired hosted session token.
var ErrSessionNotFound = errors.New("session not found or expired")

// PayloadSource resolves a distribution id to its survey payload.
type PayloadSource interface {
	FetchSurvey(ctx context.Context, distributionID uuid.UUID) (*model.SurveyPayload, error)
}

// SubmissionSink accepts a validated submission for asynchronous persistence.
type SubmissionSink interface {
	EnqueueSubmission(ctx context.Context, distributionID, surveyID uuid.UUID, questions []model.Question, submission *session.Submission) (uuid.UUID, error)
}

// storedSession is the Redis-parked form of a hosted session. Questions are
// not stored; they are re-hydrated from the cached survey payload so the
// blob stays small.
type storedSession struct {
	DistributionID uuid.UUID        `json:"distribution_id"`
	SurveyID       uuid.UUID        `json:"survey_id"`
	Snapshot       session.Snapshot `json:"snapshot"`
}

// SessionState is the hosted session view returned to the client after
// every mutation.
type SessionState struct {
	Token          string                    `json:"token"`
	State          session.State             `json:"state"`
	Step           int                       `json:"step"`
	TotalQuestions int                       `json:"total_questions"`
	Question       *model.RespondentQuestion `json:"question,omitempty"`
	ResponseID     *uuid.UUID                `json:"response_id,omitempty"`
}

// SessionStore hosts respondent sessions server-side. Each mutation loads
// the snapshot, replays it through the state machine, applies the change
// and parks the result back with a refreshed TTL.
type SessionStore struct {
	payloads    PayloadSource
	submissions SubmissionSink
	redisClient *redis.Client
	ttl         time.Duration
	logger      zerolog.Logger
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(
	payloads PayloadSource,
	submissions SubmissionSink,
	redisClient *redis.Client,
	cfg *config.Config,
	logger zerolog.Logger,
) *SessionStore {
	return &SessionStore{
		payloads:    payloads,
		submissions: submissions,
		redisClient: redisClient,
		ttl:         cfg.RespondentSessionTTL,
		logger:      logger.With().Str("service", "session_store").Logger(),
	}
}

// Create opens a hosted session against a distribution endpoint and returns
// its token plus the first question.
func (s *SessionStore) Create(ctx context.Context, distributionID uuid.UUID) (*SessionState, error) {
	payload, err := s.payloads.FetchSurvey(ctx, distributionID)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(QuestionsFromPayload(payload))
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	stored := &storedSession{
		DistributionID: distributionID,
		SurveyID:       payload.SurveyID,
		Snapshot:       sess.Snapshot(),
	}
	if err := s.save(ctx, token, stored); err != nil {
		return nil, err
	}

	return s.view(token, sess, nil), nil
}

// Answer records a scalar or classification item answer on a hosted session.
// A non-empty itemID routes the value to that classification item.
func (s *SessionStore) Answer(ctx context.Context, token string, questionID uuid.UUID, value, optionID, itemID string) (*SessionState, error) {
	stored, sess, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	if itemID != "" {
		err = sess.AnswerItem(questionID, itemID, value)
	} else {
		err = sess.Answer(questionID, value, optionID)
	}
	if err != nil {
		return nil, err
	}

	stored.Snapshot = sess.Snapshot()
	if err := s.save(ctx, token, stored); err != nil {
		return nil, err
	}
	return s.view(token, sess, nil), nil
}

// Advance moves a hosted session to the next question, or into SUBMITTING
// on the last one.
func (s *SessionStore) Advance(ctx context.Context, token string) (*SessionState, error) {
	stored, sess, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := sess.Advance(); err != nil {
		return nil, err
	}

	stored.Snapshot = sess.Snapshot()
	if err := s.save(ctx, token, stored); err != nil {
		return nil, err
	}
	return s.view(token, sess, nil), nil
}

// Submit finalizes a SUBMITTING hosted session. On queue failure the session
// reverts to IN_PROGRESS with its answers intact so the respondent retries.
func (s *SessionStore) Submit(ctx context.Context, token string) (*SessionState, error) {
	stored, sess, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	submission, err := sess.BuildSubmission()
	if err != nil {
		return nil, err
	}

	responseID, err := s.submissions.EnqueueSubmission(ctx, stored.DistributionID, stored.SurveyID, sess.Questions(), submission)
	if err != nil {
		_ = sess.FailSubmit()
		stored.Snapshot = sess.Snapshot()
		if saveErr := s.save(ctx, token, stored); saveErr != nil {
			s.logger.Error().Err(saveErr).Msg("failed to park session after submit failure")
		}
		return nil, err
	}

	_ = sess.CompleteSubmit()
	stored.Snapshot = sess.Snapshot()
	if err := s.save(ctx, token, stored); err != nil {
		s.logger.Warn().Err(err).Msg("failed to park thanked session")
	}
	return s.view(token, sess, &responseID), nil
}

func (s *SessionStore) load(ctx context.Context, token string) (*storedSession, *session.Session, error) {
	raw, err := s.redisClient.Get(ctx, config.CacheKey.RespondentSessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("load session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, nil, fmt.Errorf("decode session: %w", err)
	}

	payload, err := s.payloads.FetchSurvey(ctx, stored.DistributionID)
	if err != nil {
		return nil, nil, err
	}

	sess, err := session.Restore(QuestionsFromPayload(payload), stored.Snapshot)
	if err != nil {
		return nil, nil, err
	}
	return &stored, sess, nil
}

func (s *SessionStore) save(ctx context.Context, token string, stored *storedSession) error {
	encoded, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.redisClient.Set(ctx, config.CacheKey.RespondentSessionKey(token), encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("park session: %w", err)
	}
	return nil
}

func (s *SessionStore) view(token string, sess *session.Session, responseID *uuid.UUID) *SessionState {
	state := &SessionState{
		Token:          token,
		State:          sess.State(),
		Step:           sess.Step(),
		TotalQuestions: len(sess.Questions()),
		ResponseID:     responseID,
	}
	if sess.State() == session.StateInProgress {
		q := sess.Current()
		state.Question = &model.RespondentQuestion{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type,
			Options:    q.Options,
			NAOption:   q.NAOption,
			IsCustom:   q.IsCustom,
			OrderIndex: q.OrderIndex,
		}
	}
	return state
}
