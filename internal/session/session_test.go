package session

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sondea/sondea-backend/internal/model"
)

func ratingQuestion(order int, naOption bool) model.Question {
	return model.Question{
		ID:         uuid.New(),
		Text:       "¿Cómo calificarías la atención?",
		Type:       model.QuestionTypeRating,
		Options:    json.RawMessage(`{"scale":5}`),
		NAOption:   naOption,
		OrderIndex: order,
	}
}

func textQuestion(order int) model.Question {
	return model.Question{
		ID:         uuid.New(),
		Text:       "¿Algún comentario adicional?",
		Type:       model.QuestionTypeText,
		OrderIndex: order,
	}
}

func genderQuestion(order int) model.Question {
	return model.Question{
		ID:         uuid.New(),
		Text:       "¿Con qué género te identificas?",
		Type:       model.QuestionTypeGender,
		Options:    json.RawMessage(`{"choices":[{"id":"f","text":"Femenino"},{"id":"m","text":"Masculino"}]}`),
		OrderIndex: order,
	}
}

func customTextQuestion(order int) model.Question {
	q := textQuestion(order)
	q.IsCustom = true
	return q
}

func classificationQuestion(order int, naOption bool, itemIDs ...string) model.Question {
	items := make([]model.ClassificationItem, len(itemIDs))
	for i, id := range itemIDs {
		items[i] = model.ClassificationItem{ID: id, Text: "Aspecto " + id}
	}
	raw, _ := json.Marshal(model.ClassificationOptions{ItemsToEvaluate: items})
	return model.Question{
		ID:         uuid.New(),
		Text:       "Evalúa los siguientes aspectos",
		Type:       model.QuestionTypeClassification,
		Options:    raw,
		NAOption:   naOption,
		OrderIndex: order,
	}
}

func TestNewRequiresQuestions(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestNewOrdersByOrderIndexStable(t *testing.T) {
	a := ratingQuestion(2, false)
	b := textQuestion(0)
	c := genderQuestion(2) // Same order_index as a; must stay after it.

	s, err := New([]model.Question{a, c, b})
	require.NoError(t, err)

	got := s.Questions()
	require.Len(t, got, 3)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
	assert.Equal(t, c.ID, got[2].ID)
	assert.Equal(t, StateInProgress, s.State())
	assert.Equal(t, 0, s.Step())
}

func TestQuestionsReturnsCopy(t *testing.T) {
	a := ratingQuestion(0, false)
	b := textQuestion(1)

	s, err := New([]model.Question{a, b})
	require.NoError(t, err)

	got := s.Questions()
	got[0], got[1] = got[1], got[0]
	got[0].ID = uuid.New()

	assert.Equal(t, a.ID, s.Current().ID)
	fresh := s.Questions()
	assert.Equal(t, a.ID, fresh[0].ID)
	assert.Equal(t, b.ID, fresh[1].ID)
}

func TestAnswerOverwriteIsIdempotent(t *testing.T) {
	q := ratingQuestion(0, false)
	s, err := New([]model.Question{q})
	require.NoError(t, err)

	require.NoError(t, s.Answer(q.ID, "3", "3"))
	require.NoError(t, s.Answer(q.ID, "5", "5"))

	_, err = s.Advance()
	require.NoError(t, err)

	sub, err := s.BuildSubmission()
	require.NoError(t, err)
	require.Len(t, sub.Standard, 1)
	assert.Equal(t, "5", sub.Standard[0].Value)
}

func TestAnswerItemOverwriteLeavesSiblingsAlone(t *testing.T) {
	q := classificationQuestion(0, false, "a", "b", "c")
	s, err := New([]model.Question{q})
	require.NoError(t, err)

	require.NoError(t, s.AnswerItem(q.ID, "a", "3"))
	require.NoError(t, s.AnswerItem(q.ID, "b", "4"))
	require.NoError(t, s.AnswerItem(q.ID, "c", "2"))
	require.NoError(t, s.AnswerItem(q.ID, "b", "1"))

	_, err = s.Advance()
	require.NoError(t, err)

	sub, err := s.BuildSubmission()
	require.NoError(t, err)
	require.Len(t, sub.Standard, 3)
	assert.Equal(t, "3", sub.Standard[0].Value)
	assert.Equal(t, "1", sub.Standard[1].Value)
	assert.Equal(t, "2", sub.Standard[2].Value)
}

func TestAdvanceGuardBlocksUnanswered(t *testing.T) {
	q1 := ratingQuestion(0, false)
	q2 := textQuestion(1)
	s, err := New([]model.Question{q1, q2})
	require.NoError(t, err)

	before := s.Snapshot()

	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrAnswerRequired)
	assert.Equal(t, 0, s.Step())
	assert.Equal(t, before, s.Snapshot())

	require.NoError(t, s.Answer(q1.ID, "4", "4"))
	submitting, err := s.Advance()
	require.NoError(t, err)
	assert.False(t, submitting)
	assert.Equal(t, 1, s.Step())
}

func TestTextQuestionIsAlwaysAnswered(t *testing.T) {
	q1 := textQuestion(0)
	q2 := ratingQuestion(1, false)
	s, err := New([]model.Question{q1, q2})
	require.NoError(t, err)

	submitting, err := s.Advance()
	require.NoError(t, err)
	assert.False(t, submitting)
	assert.Equal(t, 1, s.Step())
}

func TestNASentinel(t *testing.T) {
	t.Run("accepted when na_option is on", func(t *testing.T) {
		q := ratingQuestion(0, true)
		s, err := New([]model.Question{q})
		require.NoError(t, err)

		require.NoError(t, s.Answer(q.ID, model.NAValue, ""))
		ok, err := s.IsAnswered(q.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ordinary string when na_option is off", func(t *testing.T) {
		// Without na_option, "NA" gets no special treatment: it is just a
		// non-empty value like any other.
		q := ratingQuestion(0, false)
		s, err := New([]model.Question{q})
		require.NoError(t, err)

		require.NoError(t, s.Answer(q.ID, model.NAValue, ""))
		ok, err := s.IsAnswered(q.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("classification rejects NA when not permitted", func(t *testing.T) {
		q := classificationQuestion(0, false, "a", "b")
		s, err := New([]model.Question{q})
		require.NoError(t, err)

		require.NoError(t, s.AnswerItem(q.ID, "a", "5"))
		require.NoError(t, s.AnswerItem(q.ID, "b", model.NAValue))

		ok, err := s.IsAnswered(q.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Advance()
		assert.ErrorIs(t, err, ErrAnswerRequired)
	})
}

func TestClassificationCompleteness(t *testing.T) {
	q := classificationQuestion(0, true, "a", "b", "c")
	s, err := New([]model.Question{q})
	require.NoError(t, err)

	require.NoError(t, s.AnswerItem(q.ID, "a", "3"))
	require.NoError(t, s.AnswerItem(q.ID, "b", "4"))

	// N-1 of N items answered does not satisfy the invariant.
	ok, err := s.IsAnswered(q.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrAnswerRequired)

	require.NoError(t, s.AnswerItem(q.ID, "c", model.NAValue))
	ok, err = s.IsAnswered(q.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAnswerRejectsWrongShape(t *testing.T) {
	rating := ratingQuestion(0, false)
	classif := classificationQuestion(1, false, "a")
	s, err := New([]model.Question{rating, classif})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Answer(classif.ID, "3", ""), ErrItemAnswerNeeded)
	assert.ErrorIs(t, s.AnswerItem(rating.ID, "a", "3"), ErrScalarAnswer)
	assert.ErrorIs(t, s.AnswerItem(classif.ID, "zz", "3"), ErrUnknownItem)
	assert.ErrorIs(t, s.Answer(uuid.New(), "3", ""), ErrUnknownQuestion)
	assert.ErrorIs(t, s.Answer(rating.ID, "", ""), ErrEmptyValue)
}

// Mirrors the canonical partition example: one standard rating, one gender,
// one custom text, one classification with three items. The standard bucket
// gets 1 + 3 entries, the custom bucket 1, gender is extracted, age_range
// stays null.
func TestSubmissionPartition(t *testing.T) {
	q1 := ratingQuestion(0, false)
	q2 := genderQuestion(1)
	q3 := customTextQuestion(2)
	q4 := classificationQuestion(3, true, "a", "b", "c")

	s, err := New([]model.Question{q1, q2, q3, q4})
	require.NoError(t, err)

	require.NoError(t, s.Answer(q1.ID, "4", "4"))
	require.NoError(t, s.Answer(q2.ID, "femenino", "f"))
	require.NoError(t, s.Answer(q3.ID, "ok", ""))
	require.NoError(t, s.AnswerItem(q4.ID, "a", "3"))
	require.NoError(t, s.AnswerItem(q4.ID, "b", "4"))
	require.NoError(t, s.AnswerItem(q4.ID, "c", model.NAValue))

	for i := 0; i < 3; i++ {
		submitting, err := s.Advance()
		require.NoError(t, err)
		assert.False(t, submitting)
	}
	submitting, err := s.Advance()
	require.NoError(t, err)
	assert.True(t, submitting)
	assert.Equal(t, StateSubmitting, s.State())

	sub, err := s.BuildSubmission()
	require.NoError(t, err)

	require.Len(t, sub.Standard, 4)
	assert.Equal(t, q1.ID, sub.Standard[0].QuestionID)
	assert.Equal(t, "4", sub.Standard[0].Value)

	// Classification expands to one entry per item, option_id = item id.
	assert.Equal(t, q4.ID, sub.Standard[1].QuestionID)
	assert.Equal(t, "a", sub.Standard[1].OptionID)
	assert.Equal(t, "3", sub.Standard[1].Value)
	assert.Equal(t, "b", sub.Standard[2].OptionID)
	assert.Equal(t, "4", sub.Standard[2].Value)
	assert.Equal(t, "c", sub.Standard[3].OptionID)
	assert.Equal(t, model.NAValue, sub.Standard[3].Value)

	require.Len(t, sub.Custom, 1)
	assert.Equal(t, q3.ID, sub.Custom[0].QuestionID)
	assert.Equal(t, "ok", sub.Custom[0].Value)

	require.NotNil(t, sub.Gender)
	assert.Equal(t, "femenino", *sub.Gender)
	assert.Nil(t, sub.AgeRange)
}

func TestTerminalStateIsImmutable(t *testing.T) {
	q := ratingQuestion(0, false)
	s, err := New([]model.Question{q})
	require.NoError(t, err)

	require.NoError(t, s.Answer(q.ID, "5", "5"))
	_, err = s.Advance()
	require.NoError(t, err)
	require.NoError(t, s.CompleteSubmit())
	assert.Equal(t, StateThanked, s.State())

	assert.ErrorIs(t, s.Answer(q.ID, "1", "1"), ErrSessionClosed)
	assert.ErrorIs(t, s.AnswerItem(q.ID, "a", "1"), ErrSessionClosed)
	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, s.CompleteSubmit(), ErrNotSubmitting)
}

func TestSubmittingBlocksReentry(t *testing.T) {
	q := ratingQuestion(0, false)
	s, err := New([]model.Question{q})
	require.NoError(t, err)

	require.NoError(t, s.Answer(q.ID, "5", "5"))
	_, err = s.Advance()
	require.NoError(t, err)

	assert.ErrorIs(t, s.Answer(q.ID, "1", "1"), ErrSubmitInFlight)
	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrSubmitInFlight)
}

func TestFailSubmitPreservesState(t *testing.T) {
	q1 := ratingQuestion(0, false)
	q2 := classificationQuestion(1, false, "a", "b")
	s, err := New([]model.Question{q1, q2})
	require.NoError(t, err)

	require.NoError(t, s.Answer(q1.ID, "2", "2"))
	_, err = s.Advance()
	require.NoError(t, err)
	require.NoError(t, s.AnswerItem(q2.ID, "a", "5"))
	require.NoError(t, s.AnswerItem(q2.ID, "b", "4"))

	_, err = s.Advance()
	require.NoError(t, err)

	before := s.Snapshot()
	require.NoError(t, s.FailSubmit())

	assert.Equal(t, StateInProgress, s.State())
	assert.Equal(t, 1, s.Step())

	after := s.Snapshot()
	assert.Equal(t, before.Answers, after.Answers)
	assert.Equal(t, before.Step, after.Step)

	// Retrying lands back in SUBMITTING with the same payload.
	submitting, err := s.Advance()
	require.NoError(t, err)
	assert.True(t, submitting)
	sub, err := s.BuildSubmission()
	require.NoError(t, err)
	assert.Len(t, sub.Standard, 3)
}

func TestBuildSubmissionOnlyWhileSubmitting(t *testing.T) {
	q := ratingQuestion(0, false)
	s, err := New([]model.Question{q})
	require.NoError(t, err)

	_, err = s.BuildSubmission()
	assert.ErrorIs(t, err, ErrNotSubmitting)
}

func TestSnapshotRoundTrip(t *testing.T) {
	q1 := ratingQuestion(0, true)
	q2 := classificationQuestion(1, true, "a", "b")
	questions := []model.Question{q1, q2}

	s, err := New(questions)
	require.NoError(t, err)
	require.NoError(t, s.Answer(q1.ID, model.NAValue, ""))
	_, err = s.Advance()
	require.NoError(t, err)
	require.NoError(t, s.AnswerItem(q2.ID, "a", "1"))

	raw, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))

	restored, err := Restore(questions, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Step())
	assert.Equal(t, StateInProgress, restored.State())

	ok, err := restored.IsAnswered(q1.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = restored.IsAnswered(q2.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
