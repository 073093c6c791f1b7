package remote

import (
	"context"
	"net/http"
	"net/url"

	"voicedesk/internal/domain"
)

// GetDemoConfig retrieves a config header by id.
func (s *Store) GetDemoConfig(ctx context.Context, id string) (*domain.DemoConfig, error) {
	var c domain.DemoConfig
	found, err := s.getOne(ctx, "/api/demo-configs/"+url.PathEscape(id), &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

// GetDemoConfigBySlug retrieves a config header by its URL slug.
func (s *Store) GetDemoConfigBySlug(ctx context.Context, slug string) (*domain.DemoConfig, error) {
	var c domain.DemoConfig
	found, err := s.getOne(ctx, "/api/demo-configs/by-slug?slug="+url.QueryEscape(slug), &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

// ListDemoConfigs returns all config headers, default first.
func (s *Store) ListDemoConfigs(ctx context.Context) ([]domain.DemoConfig, error) {
	var out struct {
		DemoConfigs []domain.DemoConfig `json:"demo_configs"`
	}
	if err := s.getList(ctx, "/api/demo-configs", nil, &out); err != nil {
		return nil, err
	}
	return out.DemoConfigs, nil
}

// CreateDemoConfig inserts a config header and returns the generated id.
func (s *Store) CreateDemoConfig(ctx context.Context, c *domain.DemoConfig) (string, error) {
	id, err := s.create(ctx, "/api/demo-configs", c)
	if err == nil && c.ID == "" {
		c.ID = id
	}
	return id, err
}

// UpdateDemoConfig applies a sparse update to a config header.
func (s *Store) UpdateDemoConfig(ctx context.Context, id string, u domain.DemoConfigUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return s.send(ctx, http.MethodPatch, "/api/demo-configs/"+url.PathEscape(id), u)
}

// DeleteDemoConfig removes a config header; the remote service cascades
// to every satellite row.
func (s *Store) DeleteDemoConfig(ctx context.Context, id string) error {
	return s.send(ctx, http.MethodDelete, "/api/demo-configs/"+url.PathEscape(id), nil)
}

// GetBusinessProfile retrieves a config's business profile.
func (s *Store) GetBusinessProfile(ctx context.Context, configID string) (*domain.BusinessProfile, error) {
	var p domain.BusinessProfile
	found, err := s.getOne(ctx, "/api/demo-configs/"+url.PathEscape(configID)+"/business-profile", &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// UpsertBusinessProfile writes a config's business profile.
func (s *Store) UpsertBusinessProfile(ctx context.Context, p *domain.BusinessProfile) error {
	return s.send(ctx, http.MethodPut,
		"/api/demo-configs/"+url.PathEscape(p.ConfigID)+"/business-profile", p)
}

// GetAgentConfig retrieves a config's agent settings.
func (s *Store) GetAgentConfig(ctx context.Context, configID string) (*domain.AgentConfig, error) {
	var a domain.AgentConfig
	found, err := s.getOne(ctx, "/api/demo-configs/"+url.PathEscape(configID)+"/agent-config", &a)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

// UpsertAgentConfig writes a config's agent settings.
func (s *Store) UpsertAgentConfig(ctx context.Context, a *domain.AgentConfig) error {
	return s.send(ctx, http.MethodPut,
		"/api/demo-configs/"+url.PathEscape(a.ConfigID)+"/agent-config", a)
}

// GetScenario retrieves a config's scenario narrative.
func (s *Store) GetScenario(ctx context.Context, configID string) (*domain.Scenario, error) {
	var sc domain.Scenario
	found, err := s.getOne(ctx, "/api/demo-configs/"+url.PathEscape(configID)+"/scenario", &sc)
	if err != nil || !found {
		return nil, err
	}
	return &sc, nil
}

// UpsertScenario writes a config's scenario narrative.
func (s *Store) UpsertScenario(ctx context.Context, sc *domain.Scenario) error {
	return s.send(ctx, http.MethodPut,
		"/api/demo-configs/"+url.PathEscape(sc.ConfigID)+"/scenario", sc)
}

// GetUILabels retrieves a config's UI label set.
func (s *Store) GetUILabels(ctx context.Context, configID string) (*domain.UILabels, error) {
	var l domain.UILabels
	found, err := s.getOne(ctx, "/api/demo-configs/"+url.PathEscape(configID)+"/ui-labels", &l)
	if err != nil || !found {
		return nil, err
	}
	return &l, nil
}

// UpsertUILabels writes a config's UI label set.
func (s *Store) UpsertUILabels(ctx context.Context, l *domain.UILabels) error {
	return s.send(ctx, http.MethodPut,
		"/api/demo-configs/"+url.PathEscape(l.ConfigID)+"/ui-labels", l)
}

// ListToolConfigs returns a config's tool rows.
func (s *Store) ListToolConfigs(ctx context.Context, configID string) ([]domain.ToolConfig, error) {
	var out struct {
		ToolConfigs []domain.ToolConfig `json:"tool_configs"`
	}
	if err := s.getList(ctx, "/api/demo-configs/"+url.PathEscape(configID)+"/tools", nil, &out); err != nil {
		return nil, err
	}
	return out.ToolConfigs, nil
}

// UpsertToolConfig writes one tool row keyed by (config, tool name).
func (s *Store) UpsertToolConfig(ctx context.Context, t *domain.ToolConfig) error {
	return s.send(ctx, http.MethodPut,
		"/api/demo-configs/"+url.PathEscape(t.ConfigID)+"/tools", t)
}

// DeleteToolConfig removes one tool row.
func (s *Store) DeleteToolConfig(ctx context.Context, configID, toolName string) error {
	return s.send(ctx, http.MethodDelete,
		"/api/demo-configs/"+url.PathEscape(configID)+"/tools/"+url.PathEscape(toolName), nil)
}

// ListSMSTemplates returns a config's SMS templates.
func (s *Store) ListSMSTemplates(ctx context.Context, configID string) ([]domain.SMSTemplate, error) {
	var out struct {
		SMSTemplates []domain.SMSTemplate `json:"sms_templates"`
	}
	if err := s.getList(ctx, "/api/demo-configs/"+url.PathEscape(configID)+"/sms-templates", nil, &out); err != nil {
		return nil, err
	}
	return out.SMSTemplates, nil
}

// UpsertSMSTemplate writes one template keyed by (config, type, name).
func (s *Store) UpsertSMSTemplate(ctx context.Context, t *domain.SMSTemplate) error {
	return s.send(ctx, http.MethodPut,
		"/api/demo-configs/"+url.PathEscape(t.ConfigID)+"/sms-templates", t)
}

// DeleteSMSTemplate removes one template row.
func (s *Store) DeleteSMSTemplate(ctx context.Context, configID, templateType, templateName string) error {
	return s.send(ctx, http.MethodDelete,
		"/api/demo-configs/"+url.PathEscape(configID)+"/sms-templates/"+
			url.PathEscape(templateType)+"/"+url.PathEscape(templateName), nil)
}

// ListMockDataPools returns a config's mock data pools.
func (s *Store) ListMockDataPools(ctx context.Context, configID string) ([]domain.MockDataPool, error) {
	var out struct {
		MockDataPools []domain.MockDataPool `json:"mock_data_pools"`
	}
	if err := s.getList(ctx, "/api/demo-configs/"+url.PathEscape(configID)+"/mock-data", nil, &out); err != nil {
		return nil, err
	}
	return out.MockDataPools, nil
}

// UpsertMockDataPool writes one pool keyed by (config, pool type).
func (s *Store) UpsertMockDataPool(ctx context.Context, p *domain.MockDataPool) error {
	return s.send(ctx, http.MethodPut,
		"/api/demo-configs/"+url.PathEscape(p.ConfigID)+"/mock-data", p)
}

// DeleteMockDataPool removes one pool row.
func (s *Store) DeleteMockDataPool(ctx context.Context, configID, poolType string) error {
	return s.send(ctx, http.MethodDelete,
		"/api/demo-configs/"+url.PathEscape(configID)+"/mock-data/"+url.PathEscape(poolType), nil)
}
