package remote

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

// GetPatient retrieves a patient with children attached.
func (s *Store) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	var p domain.Patient
	found, err := s.getOne(ctx, "/api/patients/"+url.PathEscape(id), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// GetPatientByPhone retrieves a patient by phone number.
func (s *Store) GetPatientByPhone(ctx context.Context, phone string) (*domain.Patient, error) {
	var p domain.Patient
	found, err := s.getOne(ctx, "/api/patients/by-phone?phone="+url.QueryEscape(phone), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// ListPatients returns patients matching the filter.
func (s *Store) ListPatients(ctx context.Context, filter store.PatientFilter) ([]domain.Patient, error) {
	query := map[string]string{}
	if filter.Language != "" {
		query["language"] = filter.Language
	}
	if filter.Search != "" {
		query["search"] = filter.Search
	}
	var out struct {
		Patients []domain.Patient `json:"patients"`
	}
	if err := s.getList(ctx, "/api/patients", query, &out); err != nil {
		return nil, err
	}
	return out.Patients, nil
}

// CreatePatient inserts a patient and returns the generated id.
func (s *Store) CreatePatient(ctx context.Context, p *domain.Patient) (string, error) {
	id, err := s.create(ctx, "/api/patients", p)
	if err == nil && p.ID == "" {
		p.ID = id
	}
	return id, err
}

// UpdatePatient applies a sparse update.
func (s *Store) UpdatePatient(ctx context.Context, id string, u domain.PatientUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return s.send(ctx, http.MethodPatch, "/api/patients/"+url.PathEscape(id), u)
}

// DeletePatient removes a patient; the remote service cascades.
func (s *Store) DeletePatient(ctx context.Context, id string) error {
	return s.send(ctx, http.MethodDelete, "/api/patients/"+url.PathEscape(id), nil)
}

// GetChild retrieves a child by id.
func (s *Store) GetChild(ctx context.Context, id string) (*domain.Child, error) {
	var c domain.Child
	found, err := s.getOne(ctx, "/api/children/"+url.PathEscape(id), &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

// ListChildren returns a patient's children.
func (s *Store) ListChildren(ctx context.Context, patientID string) ([]domain.Child, error) {
	var out struct {
		Children []domain.Child `json:"children"`
	}
	if err := s.getList(ctx, "/api/patients/"+url.PathEscape(patientID)+"/children", nil, &out); err != nil {
		return nil, err
	}
	return out.Children, nil
}

// CreateChild inserts a child and returns the generated id.
func (s *Store) CreateChild(ctx context.Context, c *domain.Child) (string, error) {
	id, err := s.create(ctx, "/api/children", c)
	if err == nil && c.ID == "" {
		c.ID = id
	}
	return id, err
}

// UpdateChild applies a sparse update.
func (s *Store) UpdateChild(ctx context.Context, id string, u domain.ChildUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return s.send(ctx, http.MethodPatch, "/api/children/"+url.PathEscape(id), u)
}

// DeleteChild removes a child.
func (s *Store) DeleteChild(ctx context.Context, id string) error {
	return s.send(ctx, http.MethodDelete, "/api/children/"+url.PathEscape(id), nil)
}

// GetAppointment retrieves an appointment with child links attached.
func (s *Store) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	var a domain.Appointment
	found, err := s.getOne(ctx, "/api/appointments/"+url.PathEscape(id), &a)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

// GetAppointmentByBookingID retrieves an appointment by its human-facing
// booking reference.
func (s *Store) GetAppointmentByBookingID(ctx context.Context, bookingID string) (*domain.Appointment, error) {
	var a domain.Appointment
	found, err := s.getOne(ctx, "/api/appointments/by-booking?booking_id="+url.QueryEscape(bookingID), &a)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

// ListAppointments returns appointments matching the filter.
func (s *Store) ListAppointments(ctx context.Context, filter store.AppointmentFilter) ([]domain.Appointment, error) {
	query := map[string]string{}
	if filter.PatientID != "" {
		query["patient_id"] = filter.PatientID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	if filter.From != nil {
		query["from"] = filter.From.Format(time.RFC3339)
	}
	if filter.To != nil {
		query["to"] = filter.To.Format(time.RFC3339)
	}
	var out struct {
		Appointments []domain.Appointment `json:"appointments"`
	}
	if err := s.getList(ctx, "/api/appointments", query, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

// CreateAppointment inserts an appointment and returns the generated id.
func (s *Store) CreateAppointment(ctx context.Context, a *domain.Appointment) (string, error) {
	id, err := s.create(ctx, "/api/appointments", a)
	if err == nil && a.ID == "" {
		a.ID = id
	}
	return id, err
}

// UpdateAppointment applies a sparse update.
func (s *Store) UpdateAppointment(ctx context.Context, id string, u domain.AppointmentUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return s.send(ctx, http.MethodPatch, "/api/appointments/"+url.PathEscape(id), u)
}

// DeleteAppointment removes an appointment and its child links.
func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	return s.send(ctx, http.MethodDelete, "/api/appointments/"+url.PathEscape(id), nil)
}

// LinkAppointmentChild associates a child with an appointment.
func (s *Store) LinkAppointmentChild(ctx context.Context, appointmentID, childID string) error {
	return s.send(ctx, http.MethodPut,
		"/api/appointments/"+url.PathEscape(appointmentID)+"/children/"+url.PathEscape(childID), nil)
}

// UnlinkAppointmentChild removes a child association.
func (s *Store) UnlinkAppointmentChild(ctx context.Context, appointmentID, childID string) error {
	return s.send(ctx, http.MethodDelete,
		"/api/appointments/"+url.PathEscape(appointmentID)+"/children/"+url.PathEscape(childID), nil)
}

// ListAppointmentChildren returns the child ids linked to an appointment.
func (s *Store) ListAppointmentChildren(ctx context.Context, appointmentID string) ([]string, error) {
	var out struct {
		ChildIDs []string `json:"child_ids"`
	}
	if err := s.getList(ctx, "/api/appointments/"+url.PathEscape(appointmentID)+"/children", nil, &out); err != nil {
		return nil, err
	}
	return out.ChildIDs, nil
}
