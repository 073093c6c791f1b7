package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

const auditColumns = `id, table_name, record_id, operation, old_value, new_value, actor, reason, created_at`

// AppendAudit writes one audit trail entry. The trail is append-only;
// no update or delete operation exists for it.
func (s *Store) AppendAudit(ctx context.Context, rec *domain.AuditRecord) (string, error) {
	id := ensureID(&rec.ID)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = nowUTC()
	}
	oldValue, err := marshalToNull(rec.OldValue)
	if err != nil {
		return "", fmt.Errorf("marshal audit old value: %w", err)
	}
	newValue, err := marshalToNull(rec.NewValue)
	if err != nil {
		return "", fmt.Errorf("marshal audit new value: %w", err)
	}

	_, err = s.q().ExecContext(ctx,
		`INSERT INTO audit_trail (`+auditColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.TableName, rec.RecordID, string(rec.Operation), oldValue, newValue,
		rec.Actor, stringToNull(rec.Reason), rec.CreatedAt)
	if err != nil {
		return "", wrapWriteErr("audit_record", "append", err)
	}
	s.markDirty()
	return id, nil
}

// ListAudit returns audit entries matching the filter, newest first.
func (s *Store) ListAudit(ctx context.Context, filter store.AuditFilter) ([]domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_trail`
	var conds []string
	var args []any
	if filter.TableName != "" {
		conds = append(conds, `table_name = ?`)
		args = append(args, filter.TableName)
	}
	if filter.RecordID != "" {
		conds = append(conds, `record_id = ?`)
		args = append(args, filter.RecordID)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := s.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit trail: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var oldValue, newValue, reason sql.NullString
		if err := rows.Scan(&rec.ID, &rec.TableName, &rec.RecordID, &rec.Operation,
			&oldValue, &newValue, &rec.Actor, &reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.OldValue = s.decodeJSONMap(oldValue, "audit_trail", "old_value")
		rec.NewValue = s.decodeJSONMap(newValue, "audit_trail", "new_value")
		rec.Reason = nullToString(reason)
		out = append(out, rec)
	}
	return out, rows.Err()
}
