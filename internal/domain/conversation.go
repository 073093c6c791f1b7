package domain

import "time"

// Direction indicates who initiated the call
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Provider identifies the AI backend that drove the conversation
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// TurnRole identifies the speaker of a conversation turn
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
	RoleSystem    TurnRole = "system"
)

// ContentType identifies what a turn carries
type ContentType string

const (
	ContentText           ContentType = "text"
	ContentAudio          ContentType = "audio"
	ContentFunctionCall   ContentType = "function_call"
	ContentFunctionResult ContentType = "function_result"
)

// FunctionCallStatus tracks the lifecycle of one tool invocation
type FunctionCallStatus string

const (
	FunctionCallPending FunctionCallStatus = "pending"
	FunctionCallSuccess FunctionCallStatus = "success"
	FunctionCallError   FunctionCallStatus = "error"
)

// Conversation represents one voice call. PatientID is empty until the
// caller has been identified. Metadata is free-form and stored as JSON;
// a malformed stored blob degrades to nil on read rather than failing
// the whole query.
type Conversation struct {
	ID          string         `json:"id"`
	PatientID   string         `json:"patient_id,omitempty"`
	PhoneNumber string         `json:"phone_number"`
	Direction   Direction      `json:"direction"`
	Provider    Provider       `json:"provider"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     *time.Time     `json:"ended_at,omitempty"`
	Outcome     string         `json:"outcome,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ConversationTurn is one utterance or tool event within a conversation.
// Audio holds raw bytes; adapters are responsible for base64 transport
// encoding so callers always see the raw buffer.
type ConversationTurn struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	TurnNumber     int         `json:"turn_number"`
	Role           TurnRole    `json:"role"`
	ContentType    ContentType `json:"content_type"`
	Text           string      `json:"text,omitempty"`
	Audio          []byte      `json:"audio,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// FunctionCallLog records one tool invocation made by the agent.
type FunctionCallLog struct {
	ID             string             `json:"id"`
	ConversationID string             `json:"conversation_id"`
	FunctionName   string             `json:"function_name"`
	Arguments      map[string]any     `json:"arguments,omitempty"`
	Result         map[string]any     `json:"result,omitempty"`
	Status         FunctionCallStatus `json:"status"`
	StartedAt      time.Time          `json:"started_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	DurationMs     int                `json:"duration_ms,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// ConversationUpdate is a sparse update; only non-nil fields are written.
type ConversationUpdate struct {
	PatientID *string         `json:"patient_id,omitempty"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Outcome   *string         `json:"outcome,omitempty"`
	Metadata  *map[string]any `json:"metadata,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u ConversationUpdate) IsEmpty() bool {
	return u.PatientID == nil && u.EndedAt == nil && u.Outcome == nil && u.Metadata == nil
}

// FunctionCallUpdate completes or fails a pending function call.
type FunctionCallUpdate struct {
	Result      *map[string]any     `json:"result,omitempty"`
	Status      *FunctionCallStatus `json:"status,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	DurationMs  *int                `json:"duration_ms,omitempty"`
	Error       *string             `json:"error,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u FunctionCallUpdate) IsEmpty() bool {
	return u.Result == nil && u.Status == nil && u.CompletedAt == nil &&
		u.DurationMs == nil && u.Error == nil
}
