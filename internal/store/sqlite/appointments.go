package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

const appointmentColumns = `id, booking_id, patient_id, time, type, status, location,
	confirmation_sent, confirmation_method, confirmed_at, created_at, updated_at`

func (s *Store) scanAppointment(ctx context.Context, row *sql.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	var location, method sql.NullString
	var confirmedAt sql.NullTime
	var sent int
	err := row.Scan(&a.ID, &a.BookingID, &a.PatientID, &a.Time, &a.Type, &a.Status,
		&location, &sent, &method, &confirmedAt, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan appointment: %w", err)
	}
	a.Location = nullToString(location)
	a.ConfirmationSent = sent != 0
	a.ConfirmationMethod = nullToString(method)
	a.ConfirmedAt = nullToTimePtr(confirmedAt)

	a.ChildIDs, err = s.ListAppointmentChildren(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAppointment retrieves an appointment by id, with child links.
func (s *Store) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.scanAppointment(ctx, s.q().QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id))
}

// GetAppointmentByBookingID retrieves an appointment by its unique booking reference.
func (s *Store) GetAppointmentByBookingID(ctx context.Context, bookingID string) (*domain.Appointment, error) {
	return s.scanAppointment(ctx, s.q().QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE booking_id = ?`, bookingID))
}

// ListAppointments returns appointments matching the filter, without child links.
func (s *Store) ListAppointments(ctx context.Context, filter store.AppointmentFilter) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	var conds []string
	var args []any
	if filter.PatientID != "" {
		conds = append(conds, `patient_id = ?`)
		args = append(args, filter.PatientID)
	}
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		conds = append(conds, `type = ?`)
		args = append(args, string(filter.Type))
	}
	if filter.From != nil {
		conds = append(conds, `time >= ?`)
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conds = append(conds, `time < ?`)
		args = append(args, *filter.To)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY time`

	rows, err := s.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		var location, method sql.NullString
		var confirmedAt sql.NullTime
		var sent int
		if err := rows.Scan(&a.ID, &a.BookingID, &a.PatientID, &a.Time, &a.Type, &a.Status,
			&location, &sent, &method, &confirmedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.Location = nullToString(location)
		a.ConfirmationSent = sent != 0
		a.ConfirmationMethod = nullToString(method)
		a.ConfirmedAt = nullToTimePtr(confirmedAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateAppointment inserts an appointment and returns the generated
// id. Child links are separate writes; callers creating both bracket
// them in a transaction.
func (s *Store) CreateAppointment(ctx context.Context, a *domain.Appointment) (string, error) {
	id := ensureID(&a.ID)
	now := nowUTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = domain.AppointmentPending
	}

	_, err := s.q().ExecContext(ctx,
		`INSERT INTO appointments (`+appointmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.BookingID, a.PatientID, a.Time, string(a.Type), string(a.Status),
		stringToNull(a.Location), boolToInt(a.ConfirmationSent), stringToNull(a.ConfirmationMethod),
		timePtrToNull(a.ConfirmedAt), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return "", wrapWriteErr("appointment", "create", err)
	}
	s.markDirty()
	return id, nil
}

// UpdateAppointment applies a sparse update to an appointment.
func (s *Store) UpdateAppointment(ctx context.Context, id string, u domain.AppointmentUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	var sets []string
	var args []any
	if u.Time != nil {
		sets = append(sets, `time = ?`)
		args = append(args, *u.Time)
	}
	if u.Type != nil {
		sets = append(sets, `type = ?`)
		args = append(args, string(*u.Type))
	}
	if u.Status != nil {
		sets = append(sets, `status = ?`)
		args = append(args, string(*u.Status))
	}
	if u.Location != nil {
		sets = append(sets, `location = ?`)
		args = append(args, stringToNull(*u.Location))
	}
	if u.ConfirmationSent != nil {
		sets = append(sets, `confirmation_sent = ?`)
		args = append(args, boolToInt(*u.ConfirmationSent))
	}
	if u.ConfirmationMethod != nil {
		sets = append(sets, `confirmation_method = ?`)
		args = append(args, stringToNull(*u.ConfirmationMethod))
	}
	if u.ConfirmedAt != nil {
		sets = append(sets, `confirmed_at = ?`)
		args = append(args, *u.ConfirmedAt)
	}
	sets = append(sets, `updated_at = ?`)
	args = append(args, nowUTC(), id)

	res, err := s.q().ExecContext(ctx,
		`UPDATE appointments SET `+strings.Join(sets, `, `)+` WHERE id = ?`, args...)
	if err != nil {
		return wrapWriteErr("appointment", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &store.ValidationError{Message: "appointment " + id + " does not exist"}
	}
	s.markDirty()
	return nil
}

// DeleteAppointment removes an appointment and its child links.
func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	if _, err := s.q().ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id); err != nil {
		return wrapWriteErr("appointment", "delete", err)
	}
	s.markDirty()
	return nil
}

// LinkAppointmentChild attaches a child to an appointment. Linking the
// same pair twice is a no-op.
func (s *Store) LinkAppointmentChild(ctx context.Context, appointmentID, childID string) error {
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO appointment_children (appointment_id, child_id) VALUES (?, ?)
		 ON CONFLICT(appointment_id, child_id) DO NOTHING`,
		appointmentID, childID)
	if err != nil {
		return wrapWriteErr("appointment_child", "link", err)
	}
	s.markDirty()
	return nil
}

// UnlinkAppointmentChild detaches a child from an appointment.
func (s *Store) UnlinkAppointmentChild(ctx context.Context, appointmentID, childID string) error {
	_, err := s.q().ExecContext(ctx,
		`DELETE FROM appointment_children WHERE appointment_id = ? AND child_id = ?`,
		appointmentID, childID)
	if err != nil {
		return wrapWriteErr("appointment_child", "unlink", err)
	}
	s.markDirty()
	return nil
}

// ListAppointmentChildren returns the child ids linked to an appointment.
func (s *Store) ListAppointmentChildren(ctx context.Context, appointmentID string) ([]string, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT child_id FROM appointment_children WHERE appointment_id = ? ORDER BY child_id`, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("list appointment children: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan appointment child: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
