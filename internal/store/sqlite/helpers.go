package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voicedesk/internal/store"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullToTimePtr safely converts sql.NullTime to *time.Time
func nullToTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}

// timePtrToNull safely converts *time.Time to sql.NullTime
func timePtrToNull(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullToIntPtr converts sql.NullInt64 to *int
func nullToIntPtr(ni sql.NullInt64) *int {
	if ni.Valid {
		v := int(ni.Int64)
		return &v
	}
	return nil
}

// intPtrToNull converts *int to sql.NullInt64
func intPtrToNull(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// boolToInt encodes a bool as 0/1 for storage
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ============================================================================
// JSON Column Helpers
// ============================================================================

// marshalToNull marshals v to a nullable JSON string. Nil values and
// empty maps store as NULL rather than "{}"
func marshalToNull(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeJSONMap leniently parses a stored JSON object. A malformed
// legacy blob degrades to nil for that field instead of failing the
// whole read.
func (s *Store) decodeJSONMap(ns sql.NullString, table, column string) map[string]any {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(ns.String), &m); err != nil {
		s.logger.Debug("malformed JSON column, degrading to nil",
			zap.String("table", table), zap.String("column", column), zap.Error(err))
		return nil
	}
	return m
}

// decodeJSONStrings leniently parses a stored JSON string array.
func (s *Store) decodeJSONStrings(ns sql.NullString, table, column string) []string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		s.logger.Debug("malformed JSON column, degrading to nil",
			zap.String("table", table), zap.String("column", column), zap.Error(err))
		return nil
	}
	return out
}

// decodeJSONRecords leniently parses a stored JSON record array.
func (s *Store) decodeJSONRecords(ns sql.NullString, table, column string) []map[string]any {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var out []map[string]any
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		s.logger.Debug("malformed JSON column, degrading to nil",
			zap.String("table", table), zap.String("column", column), zap.Error(err))
		return nil
	}
	return out
}

// ============================================================================
// Error Mapping and ID Generation
// ============================================================================

// wrapWriteErr maps engine constraint failures to store.ConstraintError
// and wraps everything else with entity/operation context.
func wrapWriteErr(entity, op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "constraint failed") || strings.Contains(msg, "constraint violation") {
		return &store.ConstraintError{Entity: entity, Op: op, Message: msg}
	}
	return fmt.Errorf("%s %s: %w", op, entity, err)
}

// ensureID fills an empty id with a fresh UUID and returns it.
func ensureID(id *string) string {
	if *id == "" {
		*id = uuid.NewString()
	}
	return *id
}

// nowUTC returns the current time normalized for storage.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
