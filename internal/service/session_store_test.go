package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/session"
)

type stubPayloadSource struct {
	payload *model.SurveyPayload
}

func (s *stubPayloadSource) FetchSurvey(_ context.Context, _ uuid.UUID) (*model.SurveyPayload, error) {
	return s.payload, nil
}

type stubSubmissionSink struct {
	submissions []*session.Submission
	err         error
}

func (s *stubSubmissionSink) EnqueueSubmission(_ context.Context, _, _ uuid.UUID, _ []model.Question, sub *session.Submission) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	s.submissions = append(s.submissions, sub)
	return uuid.New(), nil
}

func testPayload(t *testing.T) *model.SurveyPayload {
	t.Helper()
	return &model.SurveyPayload{
		SurveyID: uuid.New(),
		Title:    "Satisfacción en tienda",
		Questions: []model.RespondentQuestion{
			{
				ID:         uuid.New(),
				Text:       "¿Cómo calificarías tu visita?",
				Type:       model.QuestionTypeRating,
				Options:    json.RawMessage(`{"scale":5}`),
				OrderIndex: 0,
			},
			{
				ID:         uuid.New(),
				Text:       "¿Algún comentario?",
				Type:       model.QuestionTypeText,
				Options:    json.RawMessage(`{}`),
				OrderIndex: 1,
			},
		},
	}
}

func newTestStore(t *testing.T, payload *model.SurveyPayload, sink *stubSubmissionSink) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{RespondentSessionTTL: 30 * time.Minute}
	store := NewSessionStore(&stubPayloadSource{payload: payload}, sink, client, cfg, zerolog.Nop())
	return store, mr
}

func TestHostedSessionFullFlow(t *testing.T) {
	payload := testPayload(t)
	sink := &stubSubmissionSink{}
	store, _ := newTestStore(t, payload, sink)
	ctx := context.Background()
	distID := uuid.New()

	state, err := store.Create(ctx, distID)
	require.NoError(t, err)
	assert.Equal(t, session.StateInProgress, state.State)
	assert.Equal(t, 0, state.Step)
	assert.Equal(t, 2, state.TotalQuestions)
	require.NotNil(t, state.Question)
	assert.Equal(t, payload.Questions[0].ID, state.Question.ID)

	state, err = store.Answer(ctx, state.Token, payload.Questions[0].ID, "4", "", "")
	require.NoError(t, err)

	state, err = store.Advance(ctx, state.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Step)

	// The text question is optional, so advancing without an answer works
	// and the last step flips the session into SUBMITTING.
	state, err = store.Advance(ctx, state.Token)
	require.NoError(t, err)
	assert.Equal(t, session.StateSubmitting, state.State)
	assert.Nil(t, state.Question)

	state, err = store.Submit(ctx, state.Token)
	require.NoError(t, err)
	assert.Equal(t, session.StateThanked, state.State)
	require.NotNil(t, state.ResponseID)

	require.Len(t, sink.submissions, 1)
	require.Len(t, sink.submissions[0].Standard, 1)
	assert.Equal(t, "4", sink.submissions[0].Standard[0].Value)
}

func TestHostedSessionAdvanceBlocksUnanswered(t *testing.T) {
	payload := testPayload(t)
	store, _ := newTestStore(t, payload, &stubSubmissionSink{})
	ctx := context.Background()

	state, err := store.Create(ctx, uuid.New())
	require.NoError(t, err)

	_, err = store.Advance(ctx, state.Token)
	assert.ErrorIs(t, err, session.ErrAnswerRequired)
}

func TestHostedSessionUnknownToken(t *testing.T) {
	store, _ := newTestStore(t, testPayload(t), &stubSubmissionSink{})

	_, err := store.Advance(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHostedSessionExpires(t *testing.T) {
	payload := testPayload(t)
	store, mr := newTestStore(t, payload, &stubSubmissionSink{})
	ctx := context.Background()

	state, err := store.Create(ctx, uuid.New())
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	_, err = store.Answer(ctx, state.Token, payload.Questions[0].ID, "5", "", "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHostedSessionSubmitFailureKeepsAnswers(t *testing.T) {
	payload := testPayload(t)
	sink := &stubSubmissionSink{err: errors.New("queue unavailable")}
	store, _ := newTestStore(t, payload, sink)
	ctx := context.Background()

	state, err := store.Create(ctx, uuid.New())
	require.NoError(t, err)
	token := state.Token

	_, err = store.Answer(ctx, token, payload.Questions[0].ID, "5", "", "")
	require.NoError(t, err)
	_, err = store.Advance(ctx, token)
	require.NoError(t, err)
	state, err = store.Advance(ctx, token)
	require.NoError(t, err)
	require.Equal(t, session.StateSubmitting, state.State)

	_, err = store.Submit(ctx, token)
	require.Error(t, err)

	// Session reverted to IN_PROGRESS with the rating intact; a retry after
	// the queue recovers succeeds.
	sink.err = nil
	state, err = store.Advance(ctx, token)
	require.NoError(t, err)
	require.Equal(t, session.StateSubmitting, state.State)

	state, err = store.Submit(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session.StateThanked, state.State)
	require.Len(t, sink.submissions, 1)
	assert.Equal(t, "5", sink.submissions[0].Standard[0].Value)
}
