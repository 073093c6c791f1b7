package domain

import "time"

// CallOutcome classifies how a call ended
type CallOutcome string

const (
	CallSuccess   CallOutcome = "success"
	CallPartial   CallOutcome = "partial"
	CallFailure   CallOutcome = "failure"
	CallAbandoned CallOutcome = "abandoned"
)

// CallMetrics is the per-conversation summary, 1:1 with Conversation.
// QualityScore is an optional operator rating from 1 to 5.
// CompletionRate is the fraction of scripted objectives reached, in [0,1].
type CallMetrics struct {
	ConversationID    string      `json:"conversation_id"`
	Outcome           CallOutcome `json:"outcome"`
	QualityScore      *int        `json:"quality_score,omitempty"`
	CompletionRate    float64     `json:"completion_rate"`
	TurnCount         int         `json:"turn_count"`
	FunctionCallCount int         `json:"function_call_count"`
	ErrorCount        int         `json:"error_count"`
	DurationSeconds   int         `json:"duration_seconds"`
	CreatedAt         time.Time   `json:"created_at"`
}
