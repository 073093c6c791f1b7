package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

const conversationColumns = `id, patient_id, phone_number, direction, provider, started_at, ended_at, outcome, metadata`

func (s *Store) scanConversationRow(scan func(...any) error) (*domain.Conversation, error) {
	var c domain.Conversation
	var patientID, outcome, metadata sql.NullString
	var endedAt sql.NullTime
	err := scan(&c.ID, &patientID, &c.PhoneNumber, &c.Direction, &c.Provider,
		&c.StartedAt, &endedAt, &outcome, &metadata)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversation: %w", err)
	}
	c.PatientID = nullToString(patientID)
	c.EndedAt = nullToTimePtr(endedAt)
	c.Outcome = nullToString(outcome)
	c.Metadata = s.decodeJSONMap(metadata, "conversations", "metadata")
	return &c, nil
}

// GetConversation retrieves a conversation by id.
func (s *Store) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	row := s.q().QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id)
	return s.scanConversationRow(row.Scan)
}

// ListConversations returns conversations matching the filter, newest first.
func (s *Store) ListConversations(ctx context.Context, filter store.ConversationFilter) ([]domain.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations`
	var conds []string
	var args []any
	if filter.PatientID != "" {
		conds = append(conds, `patient_id = ?`)
		args = append(args, filter.PatientID)
	}
	if filter.PhoneNumber != "" {
		conds = append(conds, `phone_number = ?`)
		args = append(args, filter.PhoneNumber)
	}
	if filter.Direction != "" {
		conds = append(conds, `direction = ?`)
		args = append(args, string(filter.Direction))
	}
	if filter.Provider != "" {
		conds = append(conds, `provider = ?`)
		args = append(args, string(filter.Provider))
	}
	if filter.Active != nil {
		if *filter.Active {
			conds = append(conds, `ended_at IS NULL`)
		} else {
			conds = append(conds, `ended_at IS NOT NULL`)
		}
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY started_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := s.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []domain.Conversation
	for rows.Next() {
		c, err := s.scanConversationRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CreateConversation inserts a conversation and returns the generated id.
func (s *Store) CreateConversation(ctx context.Context, c *domain.Conversation) (string, error) {
	id := ensureID(&c.ID)
	if c.StartedAt.IsZero() {
		c.StartedAt = nowUTC()
	}
	metadata, err := marshalToNull(c.Metadata)
	if err != nil {
		return "", fmt.Errorf("marshal conversation metadata: %w", err)
	}

	_, err = s.q().ExecContext(ctx,
		`INSERT INTO conversations (`+conversationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, stringToNull(c.PatientID), c.PhoneNumber, string(c.Direction), string(c.Provider),
		c.StartedAt, timePtrToNull(c.EndedAt), stringToNull(c.Outcome), metadata)
	if err != nil {
		return "", wrapWriteErr("conversation", "create", err)
	}
	s.markDirty()
	return id, nil
}

// UpdateConversation applies a sparse update, typically closing the call.
func (s *Store) UpdateConversation(ctx context.Context, id string, u domain.ConversationUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	var sets []string
	var args []any
	if u.PatientID != nil {
		sets = append(sets, `patient_id = ?`)
		args = append(args, stringToNull(*u.PatientID))
	}
	if u.EndedAt != nil {
		sets = append(sets, `ended_at = ?`)
		args = append(args, *u.EndedAt)
	}
	if u.Outcome != nil {
		sets = append(sets, `outcome = ?`)
		args = append(args, stringToNull(*u.Outcome))
	}
	if u.Metadata != nil {
		metadata, err := marshalToNull(*u.Metadata)
		if err != nil {
			return fmt.Errorf("marshal conversation metadata: %w", err)
		}
		sets = append(sets, `metadata = ?`)
		args = append(args, metadata)
	}
	args = append(args, id)

	res, err := s.q().ExecContext(ctx,
		`UPDATE conversations SET `+strings.Join(sets, `, `)+` WHERE id = ?`, args...)
	if err != nil {
		return wrapWriteErr("conversation", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &store.ValidationError{Message: "conversation " + id + " does not exist"}
	}
	s.markDirty()
	return nil
}

// DeleteConversation removes a conversation with its turns, function
// calls, metrics, and skill logs.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	if _, err := s.q().ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return wrapWriteErr("conversation", "delete", err)
	}
	s.markDirty()
	return nil
}

const turnColumns = `id, conversation_id, turn_number, role, content_type, text, audio, created_at`

// CreateTurn appends one turn to a conversation. Turn numbers are
// unique per conversation; a duplicate is a constraint violation.
func (s *Store) CreateTurn(ctx context.Context, t *domain.ConversationTurn) (string, error) {
	id := ensureID(&t.ID)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = nowUTC()
	}
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO conversation_turns (`+turnColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.ConversationID, t.TurnNumber, string(t.Role), string(t.ContentType),
		stringToNull(t.Text), t.Audio, t.CreatedAt)
	if err != nil {
		return "", wrapWriteErr("conversation_turn", "create", err)
	}
	s.markDirty()
	return id, nil
}

// ListTurns returns a conversation's turns in order.
func (s *Store) ListTurns(ctx context.Context, conversationID string) ([]domain.ConversationTurn, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT `+turnColumns+` FROM conversation_turns WHERE conversation_id = ? ORDER BY turn_number`,
		conversationID)
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

const functionCallColumns = `id, conversation_id, function_name, arguments, result, status,
	started_at, completed_at, duration_ms, error`

// CreateFunctionCall records the start of a tool invocation.
func (s *Store) CreateFunctionCall(ctx context.Context, f *domain.FunctionCallLog) (string, error) {
	id := ensureID(&f.ID)
	if f.StartedAt.IsZero() {
		f.StartedAt = nowUTC()
	}
	if f.Status == "" {
		f.Status = domain.FunctionCallPending
	}
	arguments, err := marshalToNull(f.Arguments)
	if err != nil {
		return "", fmt.Errorf("marshal function call arguments: %w", err)
	}
	result, err := marshalToNull(f.Result)
	if err != nil {
		return "", fmt.Errorf("marshal function call result: %w", err)
	}

	_, err = s.q().ExecContext(ctx,
		`INSERT INTO function_calls (`+functionCallColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, f.ConversationID, f.FunctionName, arguments, result, string(f.Status),
		f.StartedAt, timePtrToNull(f.CompletedAt), f.DurationMs, stringToNull(f.Error))
	if err != nil {
		return "", wrapWriteErr("function_call", "create", err)
	}
	s.markDirty()
	return id, nil
}

// UpdateFunctionCall completes or fails a pending invocation.
func (s *Store) UpdateFunctionCall(ctx context.Context, id string, u domain.FunctionCallUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	var sets []string
	var args []any
	if u.Result != nil {
		result, err := marshalToNull(*u.Result)
		if err != nil {
			return fmt.Errorf("marshal function call result: %w", err)
		}
		sets = append(sets, `result = ?`)
		args = append(args, result)
	}
	if u.Status != nil {
		sets = append(sets, `status = ?`)
		args = append(args, string(*u.Status))
	}
	if u.CompletedAt != nil {
		sets = append(sets, `completed_at = ?`)
		args = append(args, *u.CompletedAt)
	}
	if u.DurationMs != nil {
		sets = append(sets, `duration_ms = ?`)
		args = append(args, *u.DurationMs)
	}
	if u.Error != nil {
		sets = append(sets, `error = ?`)
		args = append(args, stringToNull(*u.Error))
	}
	args = append(args, id)

	res, err := s.q().ExecContext(ctx,
		`UPDATE function_calls SET `+strings.Join(sets, `, `)+` WHERE id = ?`, args...)
	if err != nil {
		return wrapWriteErr("function_call", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &store.ValidationError{Message: "function call " + id + " does not exist"}
	}
	s.markDirty()
	return nil
}

// ListFunctionCalls returns a conversation's tool invocations in start order.
func (s *Store) ListFunctionCalls(ctx context.Context, conversationID string) ([]domain.FunctionCallLog, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT `+functionCallColumns+` FROM function_calls WHERE conversation_id = ? ORDER BY started_at`,
		conversationID)
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
