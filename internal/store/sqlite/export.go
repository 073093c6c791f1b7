package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

// Export snapshots the operational tables into a versioned document.
func (s *Store) Export(ctx context.Context) (*store.ExportDocument, error) {
	doc := &store.ExportDocument{
		Version:    store.ExportVersion,
		ExportedAt: nowUTC(),
	}

	var err error
	if doc.Patients, err = s.ListPatients(ctx, store.PatientFilter{}); err != nil {
		return nil, err
	}
	if doc.Children, err = s.listAllChildren(ctx); err != nil {
		return nil, err
	}
	if doc.Appointments, err = s.ListAppointments(ctx, store.AppointmentFilter{}); err != nil {
		return nil, err
	}
	if doc.AppointmentChildren, err = s.listAllAppointmentChildren(ctx); err != nil {
		return nil, err
	}
	if doc.Conversations, err = s.ListConversations(ctx, store.ConversationFilter{}); err != nil {
		return nil, err
	}
	if doc.ConversationTurns, err = s.listAllTurns(ctx); err != nil {
		return nil, err
	}
	if doc.FunctionCalls, err = s.listAllFunctionCalls(ctx); err != nil {
		return nil, err
	}
	if doc.AuditTrail, err = s.ListAudit(ctx, store.AuditFilter{}); err != nil {
		return nil, err
	}
	return doc, nil
}

// Import replaces the operational tables with the document's contents.
// The whole replace runs in one transaction: any failure rolls back to
// the pre-call state.
func (s *Store) Import(ctx context.Context, doc *store.ExportDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	open := s.tx != nil
	s.mu.Unlock()
	if open {
		return fmt.Errorf("import: caller transaction already open")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import begin: %w", err)
	}
	defer tx.Rollback()

	// Clear in child-first order so foreign keys stay satisfied.
	clearOrder := []string{
		"audit_trail", "function_calls", "conversation_turns", "call_metrics",
		"skill_execution_logs", "conversations", "appointment_children",
		"appointments", "children", "patients",
	}
	for _, table := range clearOrder {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("import clear %s: %w", table, err)
		}
	}

	for i := range doc.Patients {
		p := &doc.Patients[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO patients (`+patientColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Phone, p.ParentName, stringToNull(p.Address), stringToNull(p.PreferredLanguage),
			stringToNull(p.Notes), p.CreatedAt, p.UpdatedAt); err != nil {
			return wrapWriteErr("patient", "import", err)
		}
	}
	for i := range doc.Children {
		c := &doc.Children[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO children (`+childColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.PatientID, c.Name, c.Age, stringToNull(c.MedicaidID),
			stringToNull(c.DateOfBirth), stringToNull(c.SpecialNeeds), c.CreatedAt); err != nil {
			return wrapWriteErr("child", "import", err)
		}
	}
	for i := range doc.Appointments {
		a := &doc.Appointments[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO appointments (`+appointmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.BookingID, a.PatientID, a.Time, string(a.Type), string(a.Status),
			stringToNull(a.Location), boolToInt(a.ConfirmationSent), stringToNull(a.ConfirmationMethod),
			timePtrToNull(a.ConfirmedAt), a.CreatedAt, a.UpdatedAt); err != nil {
			return wrapWriteErr("appointment", "import", err)
		}
	}
	for _, link := range doc.AppointmentChildren {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO appointment_children (appointment_id, child_id) VALUES (?, ?)`,
			link.AppointmentID, link.ChildID); err != nil {
			return wrapWriteErr("appointment_child", "import", err)
		}
	}
	for i := range doc.Conversations {
		c := &doc.Conversations[i]
		metadata, err := marshalToNull(c.Metadata)
		if err != nil {
			return fmt.Errorf("import conversation metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conversations (`+conversationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, stringToNull(c.PatientID), c.PhoneNumber, string(c.Direction), string(c.Provider),
			c.StartedAt, timePtrToNull(c.EndedAt), stringToNull(c.Outcome), metadata); err != nil {
			return wrapWriteErr("conversation", "import", err)
		}
	}
	for i := range doc.ConversationTurns {
		t := &doc.ConversationTurns[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conversation_turns (`+turnColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.ConversationID, t.TurnNumber, string(t.Role), string(t.ContentType),
			stringToNull(t.Text), t.Audio, t.CreatedAt); err != nil {
			return wrapWriteErr("conversation_turn", "import", err)
		}
	}
	for i := range doc.FunctionCalls {
		f := &doc.FunctionCalls[i]
		arguments, err := marshalToNull(f.Arguments)
		if err != nil {
			return fmt.Errorf("import function call arguments: %w", err)
		}
		result, err := marshalToNull(f.Result)
		if err != nil {
			return fmt.Errorf("import function call result: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO function_calls (`+functionCallColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.ConversationID, f.FunctionName, arguments, result, string(f.Status),
			f.StartedAt, timePtrToNull(f.CompletedAt), f.DurationMs, stringToNull(f.Error)); err != nil {
			return wrapWriteErr("function_call", "import", err)
		}
	}
	for i := range doc.AuditTrail {
		rec := &doc.AuditTrail[i]
		oldValue, err := marshalToNull(rec.OldValue)
		if err != nil {
			return fmt.Errorf("import audit old value: %w", err)
		}
		newValue, err := marshalToNull(rec.NewValue)
		if err != nil {
			return fmt.Errorf("import audit new value: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO audit_trail (`+auditColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.TableName, rec.RecordID, string(rec.Operation), oldValue, newValue,
			rec.Actor, stringToNull(rec.Reason), rec.CreatedAt); err != nil {
			return wrapWriteErr("audit_record", "import", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import commit: %w", err)
	}
	s.markDirty()
	return nil
}

func (s *Store) listAllChildren(ctx context.Context) ([]domain.Child, error) {
	rows, err := s.q().QueryContext(ctx, `SELECT `+childColumns+` FROM children ORDER BY created_at`)
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

func (s *Store) listAllAppointmentChildren(ctx context.Context) ([]domain.AppointmentChildLink, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT appointment_id, child_id FROM appointment_children ORDER BY appointment_id, child_id`)
	if err != nil {
		return nil, fmt.Errorf("list appointment children: %w", err)
	}
	defer rows.Close()

	var out []domain.AppointmentChildLink
	for rows.Next() {
		var link domain.AppointmentChildLink
		if err := rows.Scan(&link.AppointmentID, &link.ChildID); err != nil {
			return nil, fmt.Errorf("scan appointment child: %w", err)
		}
		out = append(out, link)
	}
	return out, rows.Err()
}

func (s *Store) listAllTurns(ctx context.Context) ([]domain.ConversationTurn, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT `+turnColumns+` FROM conversation_turns ORDER BY conversation_id, turn_number`)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var out []domain.ConversationTurn
	for rows.Next() {
		var t domain.ConversationTurn
		var text sql.NullString
		if err := rows.Scan(&t.ID, &t.ConversationID, &t.TurnNumber, &t.Role, &t.ContentType,
			&text, &t.Audio, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Text = nullToString(text)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) listAllFunctionCalls(ctx context.Context) ([]domain.FunctionCallLog, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT `+functionCallColumns+` FROM function_calls ORDER BY started_at`)
	if err != nil {
		return nil, fmt.Errorf("list function calls: %w", err)
	}
	defer rows.Close()

	var out []domain.FunctionCallLog
	for rows.Next() {
		var f domain.FunctionCallLog
		var arguments, result, errMsg sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&f.ID, &f.ConversationID, &f.FunctionName, &arguments, &result,
			&f.Status, &f.StartedAt, &completedAt, &f.DurationMs, &errMsg); err != nil {
			return nil, fmt.Errorf("scan function call: %w", err)
		}
		f.Arguments = s.decodeJSONMap(arguments, "function_calls", "arguments")
		f.Result = s.decodeJSONMap(result, "function_calls", "result")
		f.CompletedAt = nullToTimePtr(completedAt)
		f.Error = nullToString(errMsg)
		out = append(out, f)
	}
	return out, rows.Err()
}
