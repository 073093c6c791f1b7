package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

const patientColumns = `id, phone, parent_name, address, preferred_language, notes, created_at, updated_at`

func (s *Store) scanPatient(row *sql.Row) (*domain.Patient, error) {
	var p domain.Patient
	var address, language, notes sql.NullString
	err := row.Scan(&p.ID, &p.Phone, &p.ParentName, &address, &language, &notes, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan patient: %w", err)
	}
	p.Address = nullToString(address)
	p.PreferredLanguage = nullToString(language)
	p.Notes = nullToString(notes)
	return &p, nil
}

// GetPatient retrieves a patient by id, with children attached.
func (s *Store) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := s.scanPatient(s.q().QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = ?`, id))
	if err != nil || p == nil {
		return p, err
	}
	p.Children, err = s.ListChildren(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPatientByPhone retrieves a patient by the unique phone number.
func (s *Store) GetPatientByPhone(ctx context.Context, phone string) (*domain.Patient, error) {
	p, err := s.scanPatient(s.q().QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE phone = ?`, phone))
	if err != nil || p == nil {
		return p, err
	}
	p.Children, err = s.ListChildren(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPatients returns patients matching the filter, without children.
func (s *Store) ListPatients(ctx context.Context, filter store.PatientFilter) ([]domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	var conds []string
	var args []any
	if filter.Language != "" {
		conds = append(conds, `preferred_language = ?`)
		args = append(args, filter.Language)
	}
	if filter.Search != "" {
		conds = append(conds, `parent_name LIKE ?`)
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY created_at`

	rows, err := s.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []domain.Patient
	for rows.Next() {
		var p domain.Patient
		var address, language, notes sql.NullString
		if err := rows.Scan(&p.ID, &p.Phone, &p.ParentName, &address, &language, &notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		p.Address = nullToString(address)
		p.PreferredLanguage = nullToString(language)
		p.Notes = nullToString(notes)
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreatePatient inserts a patient and returns the generated id.
func (s *Store) CreatePatient(ctx context.Context, p *domain.Patient) (string, error) {
	id := ensureID(&p.ID)
	now := nowUTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.q().ExecContext(ctx,
		`INSERT INTO patients (`+patientColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Phone, p.ParentName, stringToNull(p.Address), stringToNull(p.PreferredLanguage),
		stringToNull(p.Notes), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return "", wrapWriteErr("patient", "create", err)
	}
	s.markDirty()
	return id, nil
}

// UpdatePatient applies a sparse update. An empty update is a no-op; a
// missing target id is a validation error.
func (s *Store) UpdatePatient(ctx context.Context, id string, u domain.PatientUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	var sets []string
	var args []any
	if u.Phone != nil {
		sets = append(sets, `phone = ?`)
		args = append(args, *u.Phone)
	}
	if u.ParentName != nil {
		sets = append(sets, `parent_name = ?`)
		args = append(args, *u.ParentName)
	}
	if u.Address != nil {
		sets = append(sets, `address = ?`)
		args = append(args, stringToNull(*u.Address))
	}
	if u.PreferredLanguage != nil {
		sets = append(sets, `preferred_language = ?`)
		args = append(args, stringToNull(*u.PreferredLanguage))
	}
	if u.Notes != nil {
		sets = append(sets, `notes = ?`)
		args = append(args, stringToNull(*u.Notes))
	}
	sets = append(sets, `updated_at = ?`)
	args = append(args, nowUTC(), id)

	res, err := s.q().ExecContext(ctx,
		`UPDATE patients SET `+strings.Join(sets, `, `)+` WHERE id = ?`, args...)
	if err != nil {
		return wrapWriteErr("patient", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &store.ValidationError{Message: "patient " + id + " does not exist"}
	}
	s.markDirty()
	return nil
}

// DeletePatient removes a patient; children, appointments, and child
// links go with it via CASCADE.
func (s *Store) DeletePatient(ctx context.Context, id string) error {
	if _, err := s.q().ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id); err != nil {
		return wrapWriteErr("patient", "delete", err)
	}
	s.markDirty()
	return nil
}

const childColumns = `id, patient_id, name, age, medicaid_id, date_of_birth, special_needs, created_at`

// GetChild retrieves a single child by id.
func (s *Store) GetChild(ctx context.Context, id string) (*domain.Child, error) {
	var c domain.Child
	var medicaid, dob, needs sql.NullString
	err := s.q().QueryRowContext(ctx,
		`SELECT `+childColumns+` FROM children WHERE id = ?`, id).
		Scan(&c.ID, &c.PatientID, &c.Name, &c.Age, &medicaid, &dob, &needs, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	c.MedicaidID = nullToString(medicaid)
	c.DateOfBirth = nullToString(dob)
	c.SpecialNeeds = nullToString(needs)
	return &c, nil
}

// ListChildren returns a patient's children ordered by creation.
func (s *Store) ListChildren(ctx context.Context, patientID string) ([]domain.Child, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT `+childColumns+` FROM children WHERE patient_id = ? ORDER BY created_at`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var out []domain.Child
	for rows.Next() {
		var c domain.Child
		var medicaid, dob, needs sql.NullString
		if err := rows.Scan(&c.ID, &c.PatientID, &c.Name, &c.Age, &medicaid, &dob, &needs, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		c.MedicaidID = nullToString(medicaid)
		c.DateOfBirth = nullToString(dob)
		c.SpecialNeeds = nullToString(needs)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateChild inserts a child and returns the generated id.
func (s *Store) CreateChild(ctx context.Context, c *domain.Child) (string, error) {
	id := ensureID(&c.ID)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = nowUTC()
	}
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO children (`+childColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.PatientID, c.Name, c.Age, stringToNull(c.MedicaidID),
		stringToNull(c.DateOfBirth), stringToNull(c.SpecialNeeds), c.CreatedAt)
	if err != nil {
		return "", wrapWriteErr("child", "create", err)
	}
	s.markDirty()
	return id, nil
}

// UpdateChild applies a sparse update to a child.
func (s *Store) UpdateChild(ctx context.Context, id string, u domain.ChildUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, `name = ?`)
		args = append(args, *u.Name)
	}
	if u.Age != nil {
		sets = append(sets, `age = ?`)
		args = append(args, *u.Age)
	}
	if u.MedicaidID != nil {
		sets = append(sets, `medicaid_id = ?`)
		args = append(args, stringToNull(*u.MedicaidID))
	}
	if u.DateOfBirth != nil {
		sets = append(sets, `date_of_birth = ?`)
		args = append(args, stringToNull(*u.DateOfBirth))
	}
	if u.SpecialNeeds != nil {
		sets = append(sets, `special_needs = ?`)
		args = append(args, stringToNull(*u.SpecialNeeds))
	}
	args = append(args, id)

	res, err := s.q().ExecContext(ctx,
		`UPDATE children SET `+strings.Join(sets, `, `)+` WHERE id = ?`, args...)
	if err != nil {
		return wrapWriteErr("child", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &store.ValidationError{Message: "child " + id + " does not exist"}
	}
	s.markDirty()
	return nil
}

// DeleteChild removes a child and its appointment links.
func (s *Store) DeleteChild(ctx context.Context, id string) error {
	if _, err := s.q().ExecContext(ctx, `DELETE FROM children WHERE id = ?`, id); err != nil {
		return wrapWriteErr("child", "delete", err)
	}
	s.markDirty()
	return nil
}
