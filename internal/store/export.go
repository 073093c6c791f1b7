package store

import (
	"time"

	"voicedesk/internal/domain"
)

// ExportVersion is the current operational export document format.
// Import accepts documents up to and including this version.
const ExportVersion = 1

// ExportDocument is the whole-database snapshot of the operational
// tables. Demo configurations travel separately via the aggregate
// service's own export format.
type ExportDocument struct {
	Version             int                           `json:"version"`
	ExportedAt          time.Time                     `json:"exported_at"`
	Patients            []domain.Patient              `json:"patients"`
	Children            []domain.Child                `json:"children"`
	Appointments        []domain.Appointment          `json:"appointments"`
	AppointmentChildren []domain.AppointmentChildLink `json:"appointment_children"`
	Conversations       []domain.Conversation         `json:"conversations"`
	ConversationTurns   []domain.ConversationTurn     `json:"conversation_turns"`
	FunctionCalls       []domain.FunctionCallLog      `json:"function_calls"`
	AuditTrail          []domain.AuditRecord          `json:"audit_trail"`
}

// Validate checks the document before any write occurs.
func (d *ExportDocument) Validate() error {
	if d == nil {
		return &ValidationError{Message: "nil export document"}
	}
	if d.Version <= 0 {
		return &ValidationError{Message: "export document missing version"}
	}
	if d.Version > ExportVersion {
		return &ValidationError{Message: "unsupported export version"}
	}
	return nil
}
