package domain

import "time"

// AuditOperation is the kind of change being recorded
type AuditOperation string

const (
	AuditInsert AuditOperation = "INSERT"
	AuditUpdate AuditOperation = "UPDATE"
	AuditDelete AuditOperation = "DELETE"
)

// AuditRecord is one append-only entry of the audit trail. Records are
// never mutated or deleted by normal flow. OldValue and NewValue are
// stored as JSON; a malformed stored blob degrades to nil on read.
type AuditRecord struct {
	ID        string         `json:"id"`
	TableName string         `json:"table_name"`
	RecordID  string         `json:"record_id"`
	Operation AuditOperation `json:"operation"`
	OldValue  map[string]any `json:"old_value,omitempty"`
	NewValue  map[string]any `json:"new_value,omitempty"`
	Actor     string         `json:"actor"`
	Reason    string         `json:"reason,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
