package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"voicedesk/internal/domain"
)

const callMetricsColumns = `conversation_id, outcome, quality_score, completion_rate,
	turn_count, function_call_count, error_count, duration_seconds, created_at`

// GetCallMetrics retrieves the metrics row for a conversation.
func (s *Store) GetCallMetrics(ctx context.Context, conversationID string) (*domain.CallMetrics, error) {
	var m domain.CallMetrics
	var score sql.NullInt64
	err := s.q().QueryRowContext(ctx,
		`SELECT `+callMetricsColumns+` FROM call_metrics WHERE conversation_id = ?`, conversationID).
		Scan(&m.ConversationID, &m.Outcome, &score, &m.CompletionRate,
			&m.TurnCount, &m.FunctionCallCount, &m.ErrorCount, &m.DurationSeconds, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get call metrics: %w", err)
	}
	m.QualityScore = nullToIntPtr(score)
	return &m, nil
}

// UpsertCallMetrics writes the 1:1 metrics row for a conversation,
// replacing an earlier summary if the call was re-scored.
func (s *Store) UpsertCallMetrics(ctx context.Context, m *domain.CallMetrics) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = nowUTC()
	}
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO call_metrics (`+callMetricsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(conversation_id) DO UPDATE SET
			outcome = excluded.outcome,
			quality_score = excluded.quality_score,
			completion_rate = excluded.completion_rate,
			turn_count = excluded.turn_count,
			function_call_count = excluded.function_call_count,
			error_count = excluded.error_count,
			duration_seconds = excluded.duration_seconds`,
		m.ConversationID, string(m.Outcome), intPtrToNull(m.QualityScore), m.CompletionRate,
		m.TurnCount, m.FunctionCallCount, m.ErrorCount, m.DurationSeconds, m.CreatedAt)
	if err != nil {
		return wrapWriteErr("call_metrics", "upsert", err)
	}
	s.markDirty()
	return nil
}
