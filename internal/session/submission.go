package session

import (
	"github.com/google/uuid"
	"github.com/sondea/sondea-backend/internal/model"
)

// StandardAnswer is one entry of the standard answer bucket. Classification
// sub-answers are flattened to one entry per evaluated item, with OptionID
// carrying the item id so each item is benchmarked independently downstream.
type StandardAnswer struct {
	QuestionID uuid.UUID `json:"question_id"`
	OptionID   string    `json:"option_id,omitempty"`
	Value      string    `json:"answer_value"`
}

// CustomAnswer is one entry of the custom answer bucket.
type CustomAnswer struct {
	QuestionID uuid.UUID `json:"question_id"`
	Value      string    `json:"answer_value"`
}

// Submission is the three-way partition of a finished answer set. The split
// exists because the backend persists demographic, custom and standard
// answers through different relations.
type Submission struct {
	Standard []StandardAnswer `json:"answers"`
	Custom   []CustomAnswer   `json:"custom_answers"`
	Gender   *string          `json:"gender"`
	AgeRange *string          `json:"age_range"`
}

// BuildSubmission partitions the accumulated answers. Only valid while the
// session is SUBMITTING; entries follow question order, classification items
// their declared order.
func (s *Session) BuildSubmission() (*Submission, error) {
	if s.state != StateSubmitting {
		return nil, ErrNotSubmitting
	}

	sub := &Submission{
		Standard: make([]StandardAnswer, 0, len(s.questions)),
		Custom:   make([]CustomAnswer, 0, 3),
	}

	for i := range s.questions {
		q := &s.questions[i]
		a := s.answers[q.ID]
		if a == nil {
			continue // TEXT questions may legitimately stay blank
		}

		switch {
		case q.Type == model.QuestionTypeGender:
			v := a.Value
			sub.Gender = &v

		case q.Type == model.QuestionTypeAgeRange:
			v := a.Value
			sub.AgeRange = &v

		case q.IsCustom:
			sub.Custom = append(sub.Custom, CustomAnswer{
				QuestionID: q.ID,
				Value:      a.Value,
			})

		case q.Type == model.QuestionTypeClassification:
			items, err := q.ClassificationItems()
			if err != nil {
				return nil, err
			}
			for _, it := range items {
				v, ok := a.Items[it.ID]
				if !ok {
					continue
				}
				sub.Standard = append(sub.Standard, StandardAnswer{
					QuestionID: q.ID,
					OptionID:   it.ID,
					Value:      v,
				})
			}

		default:
			sub.Standard = append(sub.Standard, StandardAnswer{
				QuestionID: q.ID,
				OptionID:   a.OptionID,
				Value:      a.Value,
			})
		}
	}

	return sub, nil
}

// Snapshot is the serializable form of a session, used to park hosted
// sessions in Redis between requests.
type Snapshot struct {
	Step    int               `json:"step"`
	State   State             `json:"state"`
	Answers map[string]Answer `json:"answers"`
}

// Snapshot captures the mutable session state. The question list is not
// included; Restore re-hydrates it from the survey payload.
func (s *Session) Snapshot() Snapshot {
	answers := make(map[string]Answer, len(s.answers))
	for id, a := range s.answers {
		cp := Answer{Value: a.Value, OptionID: a.OptionID}
		if a.Items != nil {
			cp.Items = make(map[string]string, len(a.Items))
			for k, v := range a.Items {
				cp.Items[k] = v
			}
		}
		answers[id.String()] = cp
	}
	return Snapshot{Step: s.step, State: s.state, Answers: answers}
}

// Restore rebuilds a session from a snapshot and the survey's questions.
func Restore(questions []model.Question, snap Snapshot) (*Session, error) {
	s, err := New(questions)
	if err != nil {
		return nil, err
	}

	if snap.Step >= 0 && snap.Step < len(s.questions) {
		s.step = snap.Step
	}
	if snap.State != "" {
		s.state = snap.State
	}

	for idStr, a := range snap.Answers {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		cp := Answer{Value: a.Value, OptionID: a.OptionID}
		if a.Items != nil {
			cp.Items = make(map[string]string, len(a.Items))
			for k, v := range a.Items {
				cp.Items[k] = v
			}
		}
		s.answers[id] = &cp
	}

	return s, nil
}
