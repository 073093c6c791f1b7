package sqlite

import "fmt"

// schemaVersion is the additive version marker stored in user_version.
const schemaVersion = 1

// tableOrder lists every table parents-first. It drives migration,
// image restore, stats, and the clear phase of imports (reversed).
var tableOrder = []string{
	"patients",
	"children",
	"appointments",
	"appointment_children",
	"conversations",
	"conversation_turns",
	"function_calls",
	"call_metrics",
	"test_scenarios",
	"test_executions",
	"skill_execution_logs",
	"audit_trail",
	"demo_configs",
	"business_profiles",
	"agent_configs",
	"scenarios",
	"tool_configs",
	"sms_templates",
	"ui_labels",
	"mock_data_pools",
}

const schema = `
CREATE TABLE IF NOT EXISTS patients (
	id TEXT PRIMARY KEY,
	phone TEXT NOT NULL UNIQUE,
	parent_name TEXT NOT NULL,
	address TEXT,
	preferred_language TEXT,
	notes TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS children (
	id TEXT PRIMARY KEY,
	patient_id TEXT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	age INTEGER NOT NULL DEFAULT 0,
	medicaid_id TEXT,
	date_of_birth TEXT,
	special_needs TEXT,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS appointments (
	id TEXT PRIMARY KEY,
	booking_id TEXT NOT NULL UNIQUE,
	patient_id TEXT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
	time DATETIME NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	location TEXT,
	confirmation_sent INTEGER NOT NULL DEFAULT 0,
	confirmation_method TEXT,
	confirmed_at DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS appointment_children (
	appointment_id TEXT NOT NULL REFERENCES appointments(id) ON DELETE CASCADE,
	child_id TEXT NOT NULL REFERENCES children(id) ON DELETE CASCADE,
	PRIMARY KEY (appointment_id, child_id)
);

CREATE TABLE IF NOT EXISTS conversations (
	id TEXT PRIMARY KEY,
	patient_id TEXT REFERENCES patients(id) ON DELETE SET NULL,
	phone_number TEXT NOT NULL,
	direction TEXT NOT NULL,
	provider TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	ended_at DATETIME,
	outcome TEXT,
	metadata TEXT
);

CREATE TABLE IF NOT EXISTS conversation_turns (
	id TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	turn_number INTEGER NOT NULL,
	role TEXT NOT NULL,
	content_type TEXT NOT NULL,
	text TEXT,
	audio BLOB,
	created_at DATETIME NOT NULL,
	UNIQUE (conversation_id, turn_number)
);

CREATE TABLE IF NOT EXISTS function_calls (
	id TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	function_name TEXT NOT NULL,
	arguments TEXT,
	result TEXT,
	status TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	completed_at DATETIME,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	error TEXT
);

CREATE TABLE IF NOT EXISTS call_metrics (
	conversation_id TEXT PRIMARY KEY REFERENCES conversations(id) ON DELETE CASCADE,
	outcome TEXT NOT NULL,
	quality_score INTEGER,
	completion_rate REAL NOT NULL DEFAULT 0,
	turn_count INTEGER NOT NULL DEFAULT 0,
	function_call_count INTEGER NOT NULL DEFAULT 0,
	error_count INTEGER NOT NULL DEFAULT 0,
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS test_scenarios (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	status TEXT NOT NULL,
	description TEXT,
	expected_outcome TEXT,
	validation_rules TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS test_executions (
	id TEXT PRIMARY KEY,
	scenario_id TEXT NOT NULL REFERENCES test_scenarios(id) ON DELETE CASCADE,
	test_status TEXT NOT NULL,
	expected TEXT,
	actual TEXT,
	diff TEXT,
	executed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS skill_execution_logs (
	id TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	skill_name TEXT NOT NULL,
	step_number INTEGER NOT NULL,
	step_name TEXT NOT NULL,
	tool_used TEXT,
	status TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_trail (
	id TEXT PRIMARY KEY,
	table_name TEXT NOT NULL,
	record_id TEXT NOT NULL,
	operation TEXT NOT NULL,
	old_value TEXT,
	new_value TEXT,
	actor TEXT NOT NULL,
	reason TEXT,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS demo_configs (
	id TEXT PRIMARY KEY,
	slug TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	description TEXT,
	is_active INTEGER NOT NULL DEFAULT 0,
	is_default INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS business_profiles (
	config_id TEXT PRIMARY KEY REFERENCES demo_configs(id) ON DELETE CASCADE,
	business_name TEXT NOT NULL,
	business_type TEXT,
	address TEXT,
	phone TEXT,
	timezone TEXT,
	hours TEXT,
	services TEXT
);

CREATE TABLE IF NOT EXISTS agent_configs (
	config_id TEXT PRIMARY KEY REFERENCES demo_configs(id) ON DELETE CASCADE,
	agent_name TEXT NOT NULL,
	voice TEXT,
	language TEXT,
	greeting TEXT,
	system_prompt TEXT,
	temperature REAL NOT NULL DEFAULT 0,
	max_tokens INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS scenarios (
	config_id TEXT PRIMARY KEY REFERENCES demo_configs(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	description TEXT,
	caller_name TEXT,
	caller_phone TEXT,
	objective TEXT,
	context TEXT
);

CREATE TABLE IF NOT EXISTS tool_configs (
	config_id TEXT NOT NULL REFERENCES demo_configs(id) ON DELETE CASCADE,
	tool_name TEXT NOT NULL,
	type TEXT NOT NULL,
	enabled INTEGER NOT NULL DEFAULT 1,
	description TEXT,
	parameters TEXT,
	PRIMARY KEY (config_id, tool_name)
);

CREATE TABLE IF NOT EXISTS sms_templates (
	config_id TEXT NOT NULL REFERENCES demo_configs(id) ON DELETE CASCADE,
	template_type TEXT NOT NULL,
	template_name TEXT NOT NULL,
	body TEXT NOT NULL,
	variables TEXT,
	PRIMARY KEY (config_id, template_type, template_name)
);

CREATE TABLE IF NOT EXISTS ui_labels (
	config_id TEXT PRIMARY KEY REFERENCES demo_configs(id) ON DELETE CASCADE,
	header_badge TEXT,
	badge_text TEXT,
	call_button_text TEXT,
	end_call_text TEXT,
	status_idle_text TEXT
);

CREATE TABLE IF NOT EXISTS mock_data_pools (
	config_id TEXT NOT NULL REFERENCES demo_configs(id) ON DELETE CASCADE,
	pool_type TEXT NOT NULL,
	records TEXT NOT NULL,
	schema_json TEXT,
	PRIMARY KEY (config_id, pool_type)
);

CREATE INDEX IF NOT EXISTS idx_children_patient ON children(patient_id);
CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);
CREATE INDEX IF NOT EXISTS idx_appointments_time ON appointments(time);
CREATE INDEX IF NOT EXISTS idx_conversations_phone ON conversations(phone_number);
CREATE INDEX IF NOT EXISTS idx_turns_conversation ON conversation_turns(conversation_id);
CREATE INDEX IF NOT EXISTS idx_function_calls_conversation ON function_calls(conversation_id);
CREATE INDEX IF NOT EXISTS idx_audit_target ON audit_trail(table_name, record_id);
CREATE INDEX IF NOT EXISTS idx_skill_logs_conversation ON skill_execution_logs(conversation_id);
`

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	_, err := s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion))
	return err
}
