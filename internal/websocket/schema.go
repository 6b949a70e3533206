package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError            Event = "error"
	EventPong             Event = "pong"
	EventResponseReceived Event = "response_received"
)

// ResponseReceivedEvent announces a persisted submission on a survey's live
// channel. It carries counts only; the console fetches details through the
// analytics endpoints.
type ResponseReceivedEvent struct {
	Event          Event     `json:"event"`
	ResponseID     string    `json:"response_id"`
	SurveyID       string    `json:"survey_id"`
	DistributionID string    `json:"distribution_id"`
	AnswerCount    int       `json:"answer_count"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
