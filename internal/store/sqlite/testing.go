package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

const scenarioColumns = `id, name, category, status, description, expected_outcome, validation_rules, created_at, updated_at`

// GetTestScenario retrieves a scenario by id.
func (s *Store) GetTestScenario(ctx context.Context, id string) (*domain.TestScenario, error) {
	var sc domain.TestScenario
	var description, expected, rules sql.NullString
	err := s.q().QueryRowContext(ctx,
		`SELECT `+scenarioColumns+` FROM test_scenarios WHERE id = ?`, id).
		Scan(&sc.ID, &sc.Name, &sc.Category, &sc.Status, &description, &expected, &rules,
			&sc.CreatedAt, &sc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get test scenario: %w", err)
	}
	sc.Description = nullToString(description)
	sc.ExpectedOutcome = nullToString(expected)
	sc.ValidationRules = s.decodeJSONMap(rules, "test_scenarios", "validation_rules")
	return &sc, nil
}

// ListTestScenarios returns scenarios matching the filter.
func (s *Store) ListTestScenarios(ctx context.Context, filter store.TestScenarioFilter) ([]domain.TestScenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM test_scenarios`
	var conds []string
	var args []any
	if filter.Category != "" {
		conds = append(conds, `category = ?`)
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, string(filter.Status))
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY created_at`

	rows, err := s.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list test scenarios: %w", err)
	}
	defer rows.Close()

	var out []domain.TestScenario
	for rows.Next() {
		var sc domain.TestScenario
		var description, expected, rules sql.NullString
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Category, &sc.Status, &description, &expected,
			&rules, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan test scenario: %w", err)
		}
		sc.Description = nullToString(description)
		sc.ExpectedOutcome = nullToString(expected)
		sc.ValidationRules = s.decodeJSONMap(rules, "test_scenarios", "validation_rules")
		out = append(out, sc)
	}
	return out, rows.Err()
}

// CreateTestScenario inserts a scenario and returns the generated id.
func (s *Store) CreateTestScenario(ctx context.Context, sc *domain.TestScenario) (string, error) {
	id := ensureID(&sc.ID)
	now := nowUTC()
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = now
	}
	sc.UpdatedAt = now
	if sc.Status == "" {
		sc.Status = domain.ScenarioDraft
	}
	rules, err := marshalToNull(sc.ValidationRules)
	if err != nil {
		return "", fmt.Errorf("marshal validation rules: %w", err)
	}

	_, err = s.q().ExecContext(ctx,
		`INSERT INTO test_scenarios (`+scenarioColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sc.Name, sc.Category, string(sc.Status), stringToNull(sc.Description),
		stringToNull(sc.ExpectedOutcome), rules, sc.CreatedAt, sc.UpdatedAt)
	if err != nil {
		return "", wrapWriteErr("test_scenario", "create", err)
	}
	s.markDirty()
	return id, nil
}

// UpdateTestScenario applies a sparse update to a scenario.
func (s *Store) UpdateTestScenario(ctx context.Context, id string, u domain.TestScenarioUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, `name = ?`)
		args = append(args, *u.Name)
	}
	if u.Category != nil {
		sets = append(sets, `category = ?`)
		args = append(args, *u.Category)
	}
	if u.Status != nil {
		sets = append(sets, `status = ?`)
		args = append(args, string(*u.Status))
	}
	if u.Description != nil {
		sets = append(sets, `description = ?`)
		args = append(args, stringToNull(*u.Description))
	}
	if u.ExpectedOutcome != nil {
		sets = append(sets, `expected_outcome = ?`)
		args = append(args, stringToNull(*u.ExpectedOutcome))
	}
	if u.ValidationRules != nil {
		rules, err := marshalToNull(*u.ValidationRules)
		if err != nil {
			return fmt.Errorf("marshal validation rules: %w", err)
		}
		sets = append(sets, `validation_rules = ?`)
		args = append(args, rules)
	}
	sets = append(sets, `updated_at = ?`)
	args = append(args, nowUTC(), id)

	res, err := s.q().ExecContext(ctx,
		`UPDATE test_scenarios SET `+strings.Join(sets, `, `)+` WHERE id = ?`, args...)
	if err != nil {
		return wrapWriteErr("test_scenario", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &store.ValidationError{Message: "test scenario " + id + " does not exist"}
	}
	s.markDirty()
	return nil
}

// DeleteTestScenario removes a scenario and its executions.
func (s *Store) DeleteTestScenario(ctx context.Context, id string) error {
	if _, err := s.q().ExecContext(ctx, `DELETE FROM test_scenarios WHERE id = ?`, id); err != nil {
		return wrapWriteErr("test_scenario", "delete", err)
	}
	s.markDirty()
	return nil
}

const executionColumns = `id, scenario_id, test_status, expected, actual, diff, executed_at`

// CreateTestExecution records one run of a scenario.
func (s *Store) CreateTestExecution(ctx context.Context, e *domain.TestExecution) (string, error) {
	id := ensureID(&e.ID)
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = nowUTC()
	}
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO test_executions (`+executionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, e.ScenarioID, string(e.TestStatus), stringToNull(e.Expected),
		stringToNull(e.Actual), stringToNull(e.Diff), e.ExecutedAt)
	if err != nil {
		return "", wrapWriteErr("test_execution", "create", err)
	}
	s.markDirty()
	return id, nil
}

// ListTestExecutions returns a scenario's runs, newest first.
func (s *Store) ListTestExecutions(ctx context.Context, scenarioID string) ([]domain.TestExecution, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT `+executionColumns+` FROM test_executions WHERE scenario_id = ? ORDER BY executed_at DESC`,
		scenarioID)
	if err != nil {
		return nil, fmt.Errorf("list test executions: %w", err)
	}
	defer rows.Close()

	var out []domain.TestExecution
	for rows.Next() {
		var e domain.TestExecution
		var expected, actual, diff sql.NullString
		if err := rows.Scan(&e.ID, &e.ScenarioID, &e.TestStatus, &expected, &actual, &diff, &e.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scan test execution: %w", err)
		}
		e.Expected = nullToString(expected)
		e.Actual = nullToString(actual)
		e.Diff = nullToString(diff)
		out = append(out, e)
	}
	return out, rows.Err()
}

const skillLogColumns = `id, conversation_id, skill_name, step_number, step_name, tool_used, status, created_at`

// CreateSkillLog records one step of a skill execution.
func (s *Store) CreateSkillLog(ctx context.Context, l *domain.SkillExecutionLog) (string, error) {
	id := ensureID(&l.ID)
	if l.CreatedAt.IsZero() {
		l.CreatedAt = nowUTC()
	}
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO skill_execution_logs (`+skillLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, l.ConversationID, l.SkillName, l.StepNumber, l.StepName,
		stringToNull(l.ToolUsed), string(l.Status), l.CreatedAt)
	if err != nil {
		return "", wrapWriteErr("skill_execution_log", "create", err)
	}
	s.markDirty()
	return id, nil
}

// ListSkillLogs returns a conversation's skill steps in order.
func (s *Store) ListSkillLogs(ctx context.Context, conversationID string) ([]domain.SkillExecutionLog, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT `+skillLogColumns+` FROM skill_execution_logs WHERE conversation_id = ? ORDER BY step_number`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("list skill logs: %w", err)
	}
	defer rows.Close()

	var out []domain.SkillExecutionLog
	for rows.Next() {
		var l domain.SkillExecutionLog
		var toolUsed sql.NullString
		if err := rows.Scan(&l.ID, &l.ConversationID, &l.SkillName, &l.StepNumber, &l.StepName,
			&toolUsed, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan skill log: %w", err)
		}
		l.ToolUsed = nullToString(toolUsed)
		out = append(out, l)
	}
	return out, rows.Err()
}
