package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

// GetConversation retrieves a conversation by id.
func (s *Store) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	found, err := s.getOne(ctx, "/api/conversations/"+url.PathEscape(id), &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

// ListConversations returns conversations matching the filter.
func (s *Store) ListConversations(ctx context.Context, filter store.ConversationFilter) ([]domain.Conversation, error) {
	query := map[string]string{}
	if filter.PatientID != "" {
		query["patient_id"] = filter.PatientID
	}
	if filter.PhoneNumber != "" {
		query["phone_number"] = filter.PhoneNumber
	}
	if filter.Direction != "" {
		query["direction"] = string(filter.Direction)
	}
	if filter.Provider != "" {
		query["provider"] = string(filter.Provider)
	}
	if filter.Active != nil {
		query["active"] = strconv.FormatBool(*filter.Active)
	}
	if filter.Limit > 0 {
		query["limit"] = strconv.Itoa(filter.Limit)
	}
	var out struct {
		Conversations []domain.Conversation `json:"conversations"`
	}
	if err := s.getList(ctx, "/api/conversations", query, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

// CreateConversation inserts a conversation and returns the generated id.
func (s *Store) CreateConversation(ctx context.Context, c *domain.Conversation) (string, error) {
	id, err := s.create(ctx, "/api/conversations", c)
	if err == nil && c.ID == "" {
		c.ID = id
	}
	return id, err
}

// UpdateConversation applies a sparse update.
func (s *Store) UpdateConversation(ctx context.Context, id string, u domain.ConversationUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return s.send(ctx, http.MethodPatch, "/api/conversations/"+url.PathEscape(id), u)
}

// DeleteConversation removes a conversation and its dependent records.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	return s.send(ctx, http.MethodDelete, "/api/conversations/"+url.PathEscape(id), nil)
}

// CreateTurn appends a turn to a conversation. Audio crosses the wire
// base64-encoded by the standard JSON codec.
func (s *Store) CreateTurn(ctx context.Context, t *domain.ConversationTurn) (string, error) {
	id, err := s.create(ctx, "/api/turns", t)
	if err == nil && t.ID == "" {
		t.ID = id
	}
	return id, err
}

// ListTurns returns a conversation's turns in order.
func (s *Store) ListTurns(ctx context.Context, conversationID string) ([]domain.ConversationTurn, error) {
	var out struct {
		Turns []domain.ConversationTurn `json:"turns"`
	}
	if err := s.getList(ctx, "/api/conversations/"+url.PathEscape(conversationID)+"/turns", nil, &out); err != nil {
		return nil, err
	}
	return out.Turns, nil
}

// CreateFunctionCall records a tool invocation.
func (s *Store) CreateFunctionCall(ctx context.Context, f *domain.FunctionCallLog) (string, error) {
	id, err := s.create(ctx, "/api/function-calls", f)
	if err == nil && f.ID == "" {
		f.ID = id
	}
	return id, err
}

// UpdateFunctionCall applies a sparse update, typically on completion.
func (s *Store) UpdateFunctionCall(ctx context.Context, id string, u domain.FunctionCallUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return s.send(ctx, http.MethodPatch, "/api/function-calls/"+url.PathEscape(id), u)
}

// ListFunctionCalls returns a conversation's tool invocations in order.
func (s *Store) ListFunctionCalls(ctx context.Context, conversationID string) ([]domain.FunctionCallLog, error) {
	var out struct {
		FunctionCalls []domain.FunctionCallLog `json:"function_calls"`
	}
	if err := s.getList(ctx, "/api/conversations/"+url.PathEscape(conversationID)+"/function-calls", nil, &out); err != nil {
		return nil, err
	}
	return out.FunctionCalls, nil
}

// GetCallMetrics retrieves per-call metrics, nil when none recorded yet.
func (s *Store) GetCallMetrics(ctx context.Context, conversationID string) (*domain.CallMetrics, error) {
	var m domain.CallMetrics
	found, err := s.getOne(ctx, "/api/conversations/"+url.PathEscape(conversationID)+"/metrics", &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

// UpsertCallMetrics writes a conversation's metrics row.
func (s *Store) UpsertCallMetrics(ctx context.Context, m *domain.CallMetrics) error {
	return s.send(ctx, http.MethodPut,
		"/api/conversations/"+url.PathEscape(m.ConversationID)+"/metrics", m)
}

// CreateSkillLog records one step of a skill execution.
func (s *Store) CreateSkillLog(ctx context.Context, l *domain.SkillExecutionLog) (string, error) {
	id, err := s.create(ctx, "/api/skill-logs", l)
	if err == nil && l.ID == "" {
		l.ID = id
	}
	return id, err
}

// ListSkillLogs returns a conversation's skill steps in order.
func (s *Store) ListSkillLogs(ctx context.Context, conversationID string) ([]domain.SkillExecutionLog, error) {
	var out struct {
		SkillLogs []domain.SkillExecutionLog `json:"skill_logs"`
	}
	if err := s.getList(ctx, "/api/conversations/"+url.PathEscape(conversationID)+"/skill-logs", nil, &out); err != nil {
		return nil, err
	}
	return out.SkillLogs, nil
}

// GetTestScenario retrieves a scenario by id.
func (s *Store) GetTestScenario(ctx context.Context, id string) (*domain.TestScenario, error) {
	var sc domain.TestScenario
	found, err := s.getOne(ctx, "/api/test-scenarios/"+url.PathEscape(id), &sc)
	if err != nil || !found {
		return nil, err
	}
	return &sc, nil
}

// ListTestScenarios returns scenarios matching the filter.
func (s *Store) ListTestScenarios(ctx context.Context, filter store.TestScenarioFilter) ([]domain.TestScenario, error) {
	query := map[string]string{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	var out struct {
		TestScenarios []domain.TestScenario `json:"test_scenarios"`
	}
	if err := s.getList(ctx, "/api/test-scenarios", query, &out); err != nil {
		return nil, err
	}
	return out.TestScenarios, nil
}

// CreateTestScenario inserts a scenario and returns the generated id.
func (s *Store) CreateTestScenario(ctx context.Context, sc *domain.TestScenario) (string, error) {
	id, err := s.create(ctx, "/api/test-scenarios", sc)
	if err == nil && sc.ID == "" {
		sc.ID = id
	}
	return id, err
}

// UpdateTestScenario applies a sparse update.
func (s *Store) UpdateTestScenario(ctx context.Context, id string, u domain.TestScenarioUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return s.send(ctx, http.MethodPatch, "/api/test-scenarios/"+url.PathEscape(id), u)
}

// DeleteTestScenario removes a scenario and its executions.
func (s *Store) DeleteTestScenario(ctx context.Context, id string) error {
	return s.send(ctx, http.MethodDelete, "/api/test-scenarios/"+url.PathEscape(id), nil)
}

// CreateTestExecution records one run of a scenario.
func (s *Store) CreateTestExecution(ctx context.Context, e *domain.TestExecution) (string, error) {
	id, err := s.create(ctx, "/api/test-executions", e)
	if err == nil && e.ID == "" {
		e.ID = id
	}
	return id, err
}

// ListTestExecutions returns a scenario's runs, newest first.
func (s *Store) ListTestExecutions(ctx context.Context, scenarioID string) ([]domain.TestExecution, error) {
	var out struct {
		TestExecutions []domain.TestExecution `json:"test_executions"`
	}
	if err := s.getList(ctx, "/api/test-scenarios/"+url.PathEscape(scenarioID)+"/executions", nil, &out); err != nil {
		return nil, err
	}
	return out.TestExecutions, nil
}

// AppendAudit writes one audit trail entry.
func (s *Store) AppendAudit(ctx context.Context, rec *domain.AuditRecord) (string, error) {
	id, err := s.create(ctx, "/api/audit", rec)
	if err == nil && rec.ID == "" {
		rec.ID = id
	}
	return id, err
}

// ListAudit returns audit entries matching the filter, newest first.
func (s *Store) ListAudit(ctx context.Context, filter store.AuditFilter) ([]domain.AuditRecord, error) {
	query := map[string]string{}
	if filter.TableName != "" {
		query["table_name"] = filter.TableName
	}
	if filter.RecordID != "" {
		query["record_id"] = filter.RecordID
	}
	if filter.Limit > 0 {
		query["limit"] = strconv.Itoa(filter.Limit)
	}
	var out struct {
		AuditRecords []domain.AuditRecord `json:"audit_records"`
	}
	if err := s.getList(ctx, "/api/audit", query, &out); err != nil {
		return nil, err
	}
	return out.AuditRecords, nil
}
