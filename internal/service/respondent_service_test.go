package service

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/session"
)

func benchmarkQuestions(t *testing.T) (nps, csat, class model.Question) {
	t.Helper()
	nps = model.Question{
		ID:      uuid.New(),
		Text:    "¿Qué tan probable es que nos recomiendes?",
		Type:    model.QuestionTypeRating,
		Options: json.RawMessage(`{"scale":10}`),
	}
	csat = model.Question{
		ID:      uuid.New(),
		Text:    "¿Cómo calificarías tu visita?",
		Type:    model.QuestionTypeRating,
		Options: json.RawMessage(`{"scale":5}`),
	}
	class = model.Question{
		ID:       uuid.New(),
		Text:     "Evalúa los siguientes aspectos",
		Type:     model.QuestionTypeClassification,
		Options:  json.RawMessage(`{"items_to_evaluate":[{"id":"servicio","text":"Servicio"}]}`),
		NAOption: true,
	}
	return nps, csat, class
}

func TestCollectBenchmarksKeepsZeroOnTenPointScale(t *testing.T) {
	nps, _, _ := benchmarkQuestions(t)

	sub := &session.Submission{
		Standard: []session.StandardAnswer{
			{QuestionID: nps.ID, Value: "0"},
		},
	}

	events := collectBenchmarks("restaurantes", []model.Question{nps}, sub)
	require.Len(t, events, 1)
	assert.Equal(t, 10, events[0].Scale)
	assert.Equal(t, 0, events[0].Value)
	assert.Equal(t, "restaurantes", events[0].Industry)
}

func TestCollectBenchmarksBounds(t *testing.T) {
	nps, csat, class := benchmarkQuestions(t)
	questions := []model.Question{nps, csat, class}

	sub := &session.Submission{
		Standard: []session.StandardAnswer{
			{QuestionID: csat.ID, Value: "0"},                         // below the 5-point floor
			{QuestionID: csat.ID, Value: "5"},                         // valid
			{QuestionID: nps.ID, Value: "11"},                         // above the 10-point ceiling
			{QuestionID: class.ID, OptionID: "servicio", Value: "NA"}, // NA never feeds benchmarks
			{QuestionID: class.ID, OptionID: "servicio", Value: "3"},  // valid, always 5-point
		},
	}

	events := collectBenchmarks("hoteles", questions, sub)
	require.Len(t, events, 2)
	assert.Equal(t, BenchmarkEvent{Industry: "hoteles", Scale: 5, Value: 5}, events[0])
	assert.Equal(t, BenchmarkEvent{Industry: "hoteles", Scale: 5, Value: 3}, events[1])
}

func TestCollectBenchmarksWithoutIndustry(t *testing.T) {
	nps, _, _ := benchmarkQuestions(t)
	sub := &session.Submission{
		Standard: []session.StandardAnswer{{QuestionID: nps.ID, Value: "8"}},
	}

	assert.Nil(t, collectBenchmarks("", []model.Question{nps}, sub))
}

func TestBenchmarkEventValid(t *testing.T) {
	cases := []struct {
		name  string
		event BenchmarkEvent
		want  bool
	}{
		{"zero on ten-point", BenchmarkEvent{Industry: "restaurantes", Scale: 10, Value: 0}, true},
		{"ten on ten-point", BenchmarkEvent{Industry: "restaurantes", Scale: 10, Value: 10}, true},
		{"eleven on ten-point", BenchmarkEvent{Industry: "restaurantes", Scale: 10, Value: 11}, false},
		{"zero on five-point", BenchmarkEvent{Industry: "restaurantes", Scale: 5, Value: 0}, false},
		{"one on five-point", BenchmarkEvent{Industry: "restaurantes", Scale: 5, Value: 1}, true},
		{"missing industry", BenchmarkEvent{Scale: 10, Value: 5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.event.Valid())
		})
	}
}
