package domain

import "time"

// AppointmentType represents the kind of visit being booked
type AppointmentType string

const (
	AppointmentExam            AppointmentType = "exam"
	AppointmentCleaning        AppointmentType = "cleaning"
	AppointmentExamAndCleaning AppointmentType = "exam_and_cleaning"
	AppointmentEmergency       AppointmentType = "emergency"
)

// AppointmentStatus represents the booking lifecycle state
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no-show"
)

// Appointment represents a booked visit. BookingID is the unique,
// human-readable reference quoted back to the caller.
type Appointment struct {
	ID                 string            `json:"id"`
	BookingID          string            `json:"booking_id"`
	PatientID          string            `json:"patient_id"`
	Time               time.Time         `json:"time"`
	Type               AppointmentType   `json:"type"`
	Status             AppointmentStatus `json:"status"`
	Location           string            `json:"location,omitempty"`
	ConfirmationSent   bool              `json:"confirmation_sent"`
	ConfirmationMethod string            `json:"confirmation_method,omitempty"` // e.g. "sms", "voice"
	ConfirmedAt        *time.Time        `json:"confirmed_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	// ChildIDs holds the linked children (appointment_children join
	// table); populated on reads, written via the link operations.
	ChildIDs []string `json:"child_ids,omitempty"`
}

// AppointmentUpdate is a sparse update; only non-nil fields are written.
type AppointmentUpdate struct {
	Time               *time.Time         `json:"time,omitempty"`
	Type               *AppointmentType   `json:"type,omitempty"`
	Status             *AppointmentStatus `json:"status,omitempty"`
	Location           *string            `json:"location,omitempty"`
	ConfirmationSent   *bool              `json:"confirmation_sent,omitempty"`
	ConfirmationMethod *string            `json:"confirmation_method,omitempty"`
	ConfirmedAt        *time.Time         `json:"confirmed_at,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u AppointmentUpdate) IsEmpty() bool {
	return u.Time == nil && u.Type == nil && u.Status == nil && u.Location == nil &&
		u.ConfirmationSent == nil && u.ConfirmationMethod == nil && u.ConfirmedAt == nil
}

// AppointmentChildLink is one row of the appointment_children join table.
type AppointmentChildLink struct {
	AppointmentID string `json:"appointment_id"`
	ChildID       string `json:"child_id"`
}
