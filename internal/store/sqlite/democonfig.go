package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

const demoConfigColumns = `id, slug, name, description, is_active, is_default, created_at, updated_at`

func scanDemoConfig(scan func(...any) error) (*domain.DemoConfig, error) {
	var c domain.DemoConfig
	var description sql.NullString
	var active, dflt int
	err := scan(&c.ID, &c.Slug, &c.Name, &description, &active, &dflt, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan demo config: %w", err)
	}
	c.Description = nullToString(description)
	c.IsActive = active != 0
	c.IsDefault = dflt != 0
	return &c, nil
}

// GetDemoConfig retrieves a config header by id.
func (s *Store) GetDemoConfig(ctx context.Context, id string) (*domain.DemoConfig, error) {
	row := s.q().QueryRowContext(ctx,
		`SELECT `+demoConfigColumns+` FROM demo_configs WHERE id = ?`, id)
	return scanDemoConfig(row.Scan)
}

// GetDemoConfigBySlug retrieves a config header by its unique slug.
func (s *Store) GetDemoConfigBySlug(ctx context.Context, slug string) (*domain.DemoConfig, error) {
	row := s.q().QueryRowContext(ctx,
		`SELECT `+demoConfigColumns+` FROM demo_configs WHERE slug = ?`, slug)
	return scanDemoConfig(row.Scan)
}

// ListDemoConfigs returns every config header, default first.
func (s *Store) ListDemoConfigs(ctx context.Context) ([]domain.DemoConfig, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT `+demoConfigColumns+` FROM demo_configs ORDER BY is_default DESC, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list demo configs: %w", err)
	}
	defer rows.Close()

	var out []domain.DemoConfig
	for rows.Next() {
		c, err := scanDemoConfig(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CreateDemoConfig inserts a config header and returns the generated
// id. Slug uniqueness is enforced by the engine.
func (s *Store) CreateDemoConfig(ctx context.Context, c *domain.DemoConfig) (string, error) {
	id := ensureID(&c.ID)
	now := nowUTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := s.q().ExecContext(ctx,
		`INSERT INTO demo_configs (`+demoConfigColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.Slug, c.Name, stringToNull(c.Description),
		boolToInt(c.IsActive), boolToInt(c.IsDefault), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return "", wrapWriteErr("demo_config", "create", err)
	}
	s.markDirty()
	return id, nil
}

// UpdateDemoConfig applies a sparse update to a config header.
func (s *Store) UpdateDemoConfig(ctx context.Context, id string, u domain.DemoConfigUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	var sets []string
	var args []any
	if u.Slug != nil {
		sets = append(sets, `slug = ?`)
		args = append(args, *u.Slug)
	}
	if u.Name != nil {
		sets = append(sets, `name = ?`)
		args = append(args, *u.Name)
	}
	if u.Description != nil {
		sets = append(sets, `description = ?`)
		args = append(args, stringToNull(*u.Description))
	}
	if u.IsActive != nil {
		sets = append(sets, `is_active = ?`)
		args = append(args, boolToInt(*u.IsActive))
	}
	if u.IsDefault != nil {
		sets = append(sets, `is_default = ?`)
		args = append(args, boolToInt(*u.IsDefault))
	}
	sets = append(sets, `updated_at = ?`)
	args = append(args, nowUTC(), id)

	res, err := s.q().ExecContext(ctx,
		`UPDATE demo_configs SET `+strings.Join(sets, `, `)+` WHERE id = ?`, args...)
	if err != nil {
		return wrapWriteErr("demo_config", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &store.ValidationError{Message: "demo config " + id + " does not exist"}
	}
	s.markDirty()
	return nil
}

// DeleteDemoConfig removes a header; every satellite row goes with it
// via CASCADE. The default-config guard lives in the aggregate service.
func (s *Store) DeleteDemoConfig(ctx context.Context, id string) error {
	if _, err := s.q().ExecContext(ctx, `DELETE FROM demo_configs WHERE id = ?`, id); err != nil {
		return wrapWriteErr("demo_config", "delete", err)
	}
	s.markDirty()
	return nil
}

// ============================================================================
// 1:1 Satellites
// ============================================================================

// GetBusinessProfile retrieves the business profile for a config.
func (s *Store) GetBusinessProfile(ctx context.Context, configID string) (*domain.BusinessProfile, error) {
	var p domain.BusinessProfile
	var businessType, address, phone, timezone, hours, services sql.NullString
	err := s.q().QueryRowContext(ctx,
		`SELECT config_id, business_name, business_type, address, phone, timezone, hours, services
		 FROM business_profiles WHERE config_id = ?`, configID).
		Scan(&p.ConfigID, &p.BusinessName, &businessType, &address, &phone, &timezone, &hours, &services)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get business profile: %w", err)
	}
	p.BusinessType = nullToString(businessType)
	p.Address = nullToString(address)
	p.Phone = nullToString(phone)
	p.Timezone = nullToString(timezone)
	p.Hours = s.decodeJSONMap(hours, "business_profiles", "hours")
	p.Services = s.decodeJSONStrings(services, "business_profiles", "services")
	return &p, nil
}

// UpsertBusinessProfile writes the 1:1 business profile row.
func (s *Store) UpsertBusinessProfile(ctx context.Context, p *domain.BusinessProfile) error {
	hours, err := marshalToNull(p.Hours)
	if err != nil {
		return fmt.Errorf("marshal business hours: %w", err)
	}
	var services sql.NullString
	if len(p.Services) > 0 {
		services, err = marshalToNull(p.Services)
		if err != nil {
			return fmt.Errorf("marshal business services: %w", err)
		}
	}

	_, err = s.q().ExecContext(ctx,
		`INSERT INTO business_profiles (config_id, business_name, business_type, address, phone, timezone, hours, services)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(config_id) DO UPDATE SET
			business_name = excluded.business_name,
			business_type = excluded.business_type,
			address = excluded.address,
			phone = excluded.phone,
			timezone = excluded.timezone,
			hours = excluded.hours,
			services = excluded.services`,
		p.ConfigID, p.BusinessName, stringToNull(p.BusinessType), stringToNull(p.Address),
		stringToNull(p.Phone), stringToNull(p.Timezone), hours, services)
	if err != nil {
		return wrapWriteErr("business_profile", "upsert", err)
	}
	s.markDirty()
	return nil
}

// GetAgentConfig retrieves the agent parameters for a config.
func (s *Store) GetAgentConfig(ctx context.Context, configID string) (*domain.AgentConfig, error) {
	var a domain.AgentConfig
	var voice, language, greeting, prompt sql.NullString
	err := s.q().QueryRowContext(ctx,
		`SELECT config_id, agent_name, voice, language, greeting, system_prompt, temperature, max_tokens
		 FROM agent_configs WHERE config_id = ?`, configID).
		Scan(&a.ConfigID, &a.AgentName, &voice, &language, &greeting, &prompt, &a.Temperature, &a.MaxTokens)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get agent config: %w", err)
	}
	a.Voice = nullToString(voice)
	a.Language = nullToString(language)
	a.Greeting = nullToString(greeting)
	a.SystemPrompt = nullToString(prompt)
	return &a, nil
}

// UpsertAgentConfig writes the 1:1 agent config row.
func (s *Store) UpsertAgentConfig(ctx context.Context, a *domain.AgentConfig) error {
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO agent_configs (config_id, agent_name, voice, language, greeting, system_prompt, temperature, max_tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(config_id) DO UPDATE SET
			agent_name = excluded.agent_name,
			voice = excluded.voice,
			language = excluded.language,
			greeting = excluded.greeting,
			system_prompt = excluded.system_prompt,
			temperature = excluded.temperature,
			max_tokens = excluded.max_tokens`,
		a.ConfigID, a.AgentName, stringToNull(a.Voice), stringToNull(a.Language),
		stringToNull(a.Greeting), stringToNull(a.SystemPrompt), a.Temperature, a.MaxTokens)
	if err != nil {
		return wrapWriteErr("agent_config", "upsert", err)
	}
	s.markDirty()
	return nil
}

// GetScenario retrieves the scripted scenario for a config.
func (s *Store) GetScenario(ctx context.Context, configID string) (*domain.Scenario, error) {
	var sc domain.Scenario
	var description, callerName, callerPhone, objective, context_ sql.NullString
	err := s.q().QueryRowContext(ctx,
		`SELECT config_id, title, description, caller_name, caller_phone, objective, context
		 FROM scenarios WHERE config_id = ?`, configID).
		Scan(&sc.ConfigID, &sc.Title, &description, &callerName, &callerPhone, &objective, &context_)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scenario: %w", err)
	}
	sc.Description = nullToString(description)
	sc.CallerName = nullToString(callerName)
	sc.CallerPhone = nullToString(callerPhone)
	sc.Objective = nullToString(objective)
	sc.Context = nullToString(context_)
	return &sc, nil
}

// UpsertScenario writes the 1:1 scenario row.
func (s *Store) UpsertScenario(ctx context.Context, sc *domain.Scenario) error {
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO scenarios (config_id, title, description, caller_name, caller_phone, objective, context)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(config_id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			caller_name = excluded.caller_name,
			caller_phone = excluded.caller_phone,
			objective = excluded.objective,
			context = excluded.context`,
		sc.ConfigID, sc.Title, stringToNull(sc.Description), stringToNull(sc.CallerName),
		stringToNull(sc.CallerPhone), stringToNull(sc.Objective), stringToNull(sc.Context))
	if err != nil {
		return wrapWriteErr("scenario", "upsert", err)
	}
	s.markDirty()
	return nil
}

// GetUILabels retrieves the UI copy for a config.
func (s *Store) GetUILabels(ctx context.Context, configID string) (*domain.UILabels, error) {
	var l domain.UILabels
	var headerBadge, badgeText, callButton, endCall, statusIdle sql.NullString
	err := s.q().QueryRowContext(ctx,
		`SELECT config_id, header_badge, badge_text, call_button_text, end_call_text, status_idle_text
		 FROM ui_labels WHERE config_id = ?`, configID).
		Scan(&l.ConfigID, &headerBadge, &badgeText, &callButton, &endCall, &statusIdle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ui labels: %w", err)
	}
	l.HeaderBadge = nullToString(headerBadge)
	l.BadgeText = nullToString(badgeText)
	l.CallButtonText = nullToString(callButton)
	l.EndCallText = nullToString(endCall)
	l.StatusIdleText = nullToString(statusIdle)
	return &l, nil
}

// UpsertUILabels writes the 1:1 UI labels row.
func (s *Store) UpsertUILabels(ctx context.Context, l *domain.UILabels) error {
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO ui_labels (config_id, header_badge, badge_text, call_button_text, end_call_text, status_idle_text)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(config_id) DO UPDATE SET
			header_badge = excluded.header_badge,
			badge_text = excluded.badge_text,
			call_button_text = excluded.call_button_text,
			end_call_text = excluded.end_call_text,
			status_idle_text = excluded.status_idle_text`,
		l.ConfigID, stringToNull(l.HeaderBadge), stringToNull(l.BadgeText),
		stringToNull(l.CallButtonText), stringToNull(l.EndCallText), stringToNull(l.StatusIdleText))
	if err != nil {
		return wrapWriteErr("ui_labels", "upsert", err)
	}
	s.markDirty()
	return nil
}

// ============================================================================
// 1:N Satellites (natural-key upserts)
// ============================================================================

// ListToolConfigs returns a config's tools ordered by name.
func (s *Store) ListToolConfigs(ctx context.Context, configID string) ([]domain.ToolConfig, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT config_id, tool_name, type, enabled, description, parameters
		 FROM tool_configs WHERE config_id = ? ORDER BY tool_name`, configID)
	if err != nil {
		return nil, fmt.Errorf("list tool configs: %w", err)
	}
	defer rows.Close()

	var out []domain.ToolConfig
	for rows.Next() {
		var t domain.ToolConfig
		var description, parameters sql.NullString
		var enabled int
		if err := rows.Scan(&t.ConfigID, &t.ToolName, &t.Type, &enabled, &description, &parameters); err != nil {
			return nil, fmt.Errorf("scan tool config: %w", err)
		}
		t.Enabled = enabled != 0
		t.Description = nullToString(description)
		t.Parameters = s.decodeJSONMap(parameters, "tool_configs", "parameters")
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertToolConfig writes a tool row by its natural key (config id +
// tool name); a duplicate key replaces rather than duplicates.
func (s *Store) UpsertToolConfig(ctx context.Context, t *domain.ToolConfig) error {
	parameters, err := marshalToNull(t.Parameters)
	if err != nil {
		return fmt.Errorf("marshal tool parameters: %w", err)
	}
	_, err = s.q().ExecContext(ctx,
		`INSERT INTO tool_configs (config_id, tool_name, type, enabled, description, parameters)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(config_id, tool_name) DO UPDATE SET
			type = excluded.type,
			enabled = excluded.enabled,
			description = excluded.description,
			parameters = excluded.parameters`,
		t.ConfigID, t.ToolName, string(t.Type), boolToInt(t.Enabled),
		stringToNull(t.Description), parameters)
	if err != nil {
		return wrapWriteErr("tool_config", "upsert", err)
	}
	s.markDirty()
	return nil
}

// DeleteToolConfig removes one tool row by natural key.
func (s *Store) DeleteToolConfig(ctx context.Context, configID, toolName string) error {
	_, err := s.q().ExecContext(ctx,
		`DELETE FROM tool_configs WHERE config_id = ? AND tool_name = ?`, configID, toolName)
	if err != nil {
		return wrapWriteErr("tool_config", "delete", err)
	}
	s.markDirty()
	return nil
}

// ListSMSTemplates returns a config's SMS templates.
func (s *Store) ListSMSTemplates(ctx context.Context, configID string) ([]domain.SMSTemplate, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT config_id, template_type, template_name, body, variables
		 FROM sms_templates WHERE config_id = ? ORDER BY template_type, template_name`, configID)
	if err != nil {
		return nil, fmt.Errorf("list sms templates: %w", err)
	}
	defer rows.Close()

	var out []domain.SMSTemplate
	for rows.Next() {
		var t domain.SMSTemplate
		var variables sql.NullString
		if err := rows.Scan(&t.ConfigID, &t.TemplateType, &t.TemplateName, &t.Body, &variables); err != nil {
			return nil, fmt.Errorf("scan sms template: %w", err)
		}
		t.Variables = s.decodeJSONStrings(variables, "sms_templates", "variables")
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertSMSTemplate writes a template row by its natural key (config id
// + template type + template name).
func (s *Store) UpsertSMSTemplate(ctx context.Context, t *domain.SMSTemplate) error {
	var variables sql.NullString
	if len(t.Variables) > 0 {
		var err error
		variables, err = marshalToNull(t.Variables)
		if err != nil {
			return fmt.Errorf("marshal template variables: %w", err)
		}
	}
	_, err := s.q().ExecContext(ctx,
		`INSERT INTO sms_templates (config_id, template_type, template_name, body, variables)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(config_id, template_type, template_name) DO UPDATE SET
			body = excluded.body,
			variables = excluded.variables`,
		t.ConfigID, t.TemplateType, t.TemplateName, t.Body, variables)
	if err != nil {
		return wrapWriteErr("sms_template", "upsert", err)
	}
	s.markDirty()
	return nil
}

// DeleteSMSTemplate removes one template row by natural key.
func (s *Store) DeleteSMSTemplate(ctx context.Context, configID, templateType, templateName string) error {
	_, err := s.q().ExecContext(ctx,
		`DELETE FROM sms_templates WHERE config_id = ? AND template_type = ? AND template_name = ?`,
		configID, templateType, templateName)
	if err != nil {
		return wrapWriteErr("sms_template", "delete", err)
	}
	s.markDirty()
	return nil
}

// ListMockDataPools returns a config's mock data pools.
func (s *Store) ListMockDataPools(ctx context.Context, configID string) ([]domain.MockDataPool, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT config_id, pool_type, records, schema_json
		 FROM mock_data_pools WHERE config_id = ? ORDER BY pool_type`, configID)
	if err != nil {
		return nil, fmt.Errorf("list mock data pools: %w", err)
	}
	defer rows.Close()

	var out []domain.MockDataPool
	for rows.Next() {
		var p domain.MockDataPool
		var records string
		var schema sql.NullString
		if err := rows.Scan(&p.ConfigID, &p.PoolType, &records, &schema); err != nil {
			return nil, fmt.Errorf("scan mock data pool: %w", err)
		}
		p.Records = s.decodeJSONRecords(sql.NullString{String: records, Valid: true}, "mock_data_pools", "records")
		p.Schema = s.decodeJSONMap(schema, "mock_data_pools", "schema_json")
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertMockDataPool writes a pool row by its natural key (config id +
// pool type). Records always stores a JSON array, never NULL.
func (s *Store) UpsertMockDataPool(ctx context.Context, p *domain.MockDataPool) error {
	records := p.Records
	if records == nil {
		records = []map[string]any{}
	}
	recordsJSON, err := marshalToNull(records)
	if err != nil {
		return fmt.Errorf("marshal pool records: %w", err)
	}
	schema, err := marshalToNull(p.Schema)
	if err != nil {
		return fmt.Errorf("marshal pool schema: %w", err)
	}

	_, err = s.q().ExecContext(ctx,
		`INSERT INTO mock_data_pools (config_id, pool_type, records, schema_json)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(config_id, pool_type) DO UPDATE SET
			records = excluded.records,
			schema_json = excluded.schema_json`,
		p.ConfigID, p.PoolType, recordsJSON.String, schema)
	if err != nil {
		return wrapWriteErr("mock_data_pool", "upsert", err)
	}
	s.markDirty()
	return nil
}

// DeleteMockDataPool removes one pool row by natural key.
func (s *Store) DeleteMockDataPool(ctx context.Context, configID, poolType string) error {
	_, err := s.q().ExecContext(ctx,
		`DELETE FROM mock_data_pools WHERE config_id = ? AND pool_type = ?`, configID, poolType)
	if err != nil {
		return wrapWriteErr("mock_data_pool", "delete", err)
	}
	s.markDirty()
	return nil
}
