package store

import (
	"context"
	"time"

	"voicedesk/internal/domain"
)

// Store is the single data-access contract implemented by both backends.
//
// Point lookups return (nil, nil) when the row is absent — never an
// error. Creates return the generated id. Sparse updates write only the
// fields present in the update struct; an empty update is a no-op.
type Store interface {
	// Patients
	GetPatient(ctx context.Context, id string) (*domain.Patient, error)
	GetPatientByPhone(ctx context.Context, phone string) (*domain.Patient, error)
	ListPatients(ctx context.Context, filter PatientFilter) ([]domain.Patient, error)
	CreatePatient(ctx context.Context, p *domain.Patient) (string, error)
	UpdatePatient(ctx context.Context, id string, u domain.PatientUpdate) error
	// DeletePatient cascades to the patient's children and appointments.
	DeletePatient(ctx context.Context, id string) error

	// Children
	GetChild(ctx context.Context, id string) (*domain.Child, error)
	ListChildren(ctx context.Context, patientID string) ([]domain.Child, error)
	CreateChild(ctx context.Context, c *domain.Child) (string, error)
	UpdateChild(ctx context.Context, id string, u domain.ChildUpdate) error
	DeleteChild(ctx context.Context, id string) error

	// Appointments
	GetAppointment(ctx context.Context, id string) (*domain.Appointment, error)
	GetAppointmentByBookingID(ctx context.Context, bookingID string) (*domain.Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)
	CreateAppointment(ctx context.Context, a *domain.Appointment) (string, error)
	UpdateAppointment(ctx context.Context, id string, u domain.AppointmentUpdate) error
	DeleteAppointment(ctx context.Context, id string) error
	LinkAppointmentChild(ctx context.Context, appointmentID, childID string) error
	UnlinkAppointmentChild(ctx context.Context, appointmentID, childID string) error
	ListAppointmentChildren(ctx context.Context, appointmentID string) ([]string, error)

	// Conversations
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, filter ConversationFilter) ([]domain.Conversation, error)
	CreateConversation(ctx context.Context, c *domain.Conversation) (string, error)
	UpdateConversation(ctx context.Context, id string, u domain.ConversationUpdate) error
	DeleteConversation(ctx context.Context, id string) error
	CreateTurn(ctx context.Context, t *domain.ConversationTurn) (string, error)
	ListTurns(ctx context.Context, conversationID string) ([]domain.ConversationTurn, error)
	CreateFunctionCall(ctx context.Context, f *domain.FunctionCallLog) (string, error)
	UpdateFunctionCall(ctx context.Context, id string, u domain.FunctionCallUpdate) error
	ListFunctionCalls(ctx context.Context, conversationID string) ([]domain.FunctionCallLog, error)

	// Call metrics (1:1 with conversation, keyed by conversation id)
	GetCallMetrics(ctx context.Context, conversationID string) (*domain.CallMetrics, error)
	UpsertCallMetrics(ctx context.Context, m *domain.CallMetrics) error

	// Test scenarios and executions
	GetTestScenario(ctx context.Context, id string) (*domain.TestScenario, error)
	ListTestScenarios(ctx context.Context, filter TestScenarioFilter) ([]domain.TestScenario, error)
	CreateTestScenario(ctx context.Context, s *domain.TestScenario) (string, error)
	UpdateTestScenario(ctx context.Context, id string, u domain.TestScenarioUpdate) error
	DeleteTestScenario(ctx context.Context, id string) error
	CreateTestExecution(ctx context.Context, e *domain.TestExecution) (string, error)
	ListTestExecutions(ctx context.Context, scenarioID string) ([]domain.TestExecution, error)

	// Skill execution logs
	CreateSkillLog(ctx context.Context, l *domain.SkillExecutionLog) (string, error)
	ListSkillLogs(ctx context.Context, conversationID string) ([]domain.SkillExecutionLog, error)

	// Audit trail (append-only)
	AppendAudit(ctx context.Context, rec *domain.AuditRecord) (string, error)
	ListAudit(ctx context.Context, filter AuditFilter) ([]domain.AuditRecord, error)

	// Demo config headers
	GetDemoConfig(ctx context.Context, id string) (*domain.DemoConfig, error)
	GetDemoConfigBySlug(ctx context.Context, slug string) (*domain.DemoConfig, error)
	ListDemoConfigs(ctx context.Context) ([]domain.DemoConfig, error)
	CreateDemoConfig(ctx context.Context, c *domain.DemoConfig) (string, error)
	UpdateDemoConfig(ctx context.Context, id string, u domain.DemoConfigUpdate) error
	// DeleteDemoConfig cascades to every satellite row.
	DeleteDemoConfig(ctx context.Context, id string) error

	// Demo config satellites. The 1:1 satellites upsert by config id;
	// the 1:N satellites upsert by their natural key, replacing rather
	// than duplicating.
	GetBusinessProfile(ctx context.Context, configID string) (*domain.BusinessProfile, error)
	UpsertBusinessProfile(ctx context.Context, p *domain.BusinessProfile) error
	GetAgentConfig(ctx context.Context, configID string) (*domain.AgentConfig, error)
	UpsertAgentConfig(ctx context.Context, a *domain.AgentConfig) error
	GetScenario(ctx context.Context, configID string) (*domain.Scenario, error)
	UpsertScenario(ctx context.Context, s *domain.Scenario) error
	GetUILabels(ctx context.Context, configID string) (*domain.UILabels, error)
	UpsertUILabels(ctx context.Context, l *domain.UILabels) error
	ListToolConfigs(ctx context.Context, configID string) ([]domain.ToolConfig, error)
	UpsertToolConfig(ctx context.Context, t *domain.ToolConfig) error
	DeleteToolConfig(ctx context.Context, configID, toolName string) error
	ListSMSTemplates(ctx context.Context, configID string) ([]domain.SMSTemplate, error)
	UpsertSMSTemplate(ctx context.Context, t *domain.SMSTemplate) error
	DeleteSMSTemplate(ctx context.Context, configID, templateType, templateName string) error
	ListMockDataPools(ctx context.Context, configID string) ([]domain.MockDataPool, error)
	UpsertMockDataPool(ctx context.Context, p *domain.MockDataPool) error
	DeleteMockDataPool(ctx context.Context, configID, poolType string) error

	// Transaction control. The embedded backend serializes all calls on
	// one connection; the remote backend routes these to the service
	// that owns the database.
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// ExecuteRawQuery is an escape hatch for administrative
	// introspection only; business code goes through typed operations.
	ExecuteRawQuery(ctx context.Context, query string, args ...any) ([]map[string]any, error)

	// Stats returns row counts per major table.
	Stats(ctx context.Context) (map[string]int64, error)

	// Export snapshots the operational tables; Import replaces them
	// atomically, rolling back fully on any failure.
	Export(ctx context.Context) (*ExportDocument, error)
	Import(ctx context.Context, doc *ExportDocument) error

	// Close releases resources; the embedded backend flushes its
	// binary image one final time.
	Close() error
}

// PatientFilter narrows ListPatients. Zero-valued fields are not constraints.
type PatientFilter struct {
	Language string `json:"language,omitempty"`
	Search   string `json:"search,omitempty"` // matches parent name, substring
}

// AppointmentFilter narrows ListAppointments. Zero-valued fields are not constraints.
type AppointmentFilter struct {
	PatientID string                   `json:"patient_id,omitempty"`
	Status    domain.AppointmentStatus `json:"status,omitempty"`
	Type      domain.AppointmentType   `json:"type,omitempty"`
	From      *time.Time               `json:"from,omitempty"`
	To        *time.Time               `json:"to,omitempty"`
}

// ConversationFilter narrows ListConversations. Zero-valued fields are
// not constraints. Active selects calls with no end time yet.
type ConversationFilter struct {
	PatientID   string           `json:"patient_id,omitempty"`
	PhoneNumber string           `json:"phone_number,omitempty"`
	Direction   domain.Direction `json:"direction,omitempty"`
	Provider    domain.Provider  `json:"provider,omitempty"`
	Active      *bool            `json:"active,omitempty"`
	Limit       int              `json:"limit,omitempty"`
}

// TestScenarioFilter narrows ListTestScenarios. Zero-valued fields are not constraints.
type TestScenarioFilter struct {
	Category string                `json:"category,omitempty"`
	Status   domain.ScenarioStatus `json:"status,omitempty"`
}

// AuditFilter narrows ListAudit. Zero-valued fields are not constraints.
type AuditFilter struct {
	TableName string `json:"table_name,omitempty"`
	RecordID  string `json:"record_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}
