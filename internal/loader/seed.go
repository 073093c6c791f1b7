// Package loader reads a YAML seed file describing the default demo
// config aggregate and applies it to the store. The seed guarantees a
// default config exists on first boot; re-applying refreshes the
// satellites without touching operator-created configs.
package loader

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"voicedesk/internal/domain"
	"voicedesk/internal/service"
)

// SeedFile is the YAML schema for the default aggregate.
type SeedFile struct {
	Config struct {
		Slug        string `yaml:"slug"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"config"`
	BusinessProfile *struct {
		BusinessName string         `yaml:"business_name"`
		BusinessType string         `yaml:"business_type"`
		Address      string         `yaml:"address"`
		Phone        string         `yaml:"phone"`
		Timezone     string         `yaml:"timezone"`
		Hours        map[string]any `yaml:"hours"`
		Services     []string       `yaml:"services"`
	} `yaml:"business_profile"`
	AgentConfig *struct {
		AgentName    string  `yaml:"agent_name"`
		Voice        string  `yaml:"voice"`
		Language     string  `yaml:"language"`
		Greeting     string  `yaml:"greeting"`
		SystemPrompt string  `yaml:"system_prompt"`
		Temperature  float64 `yaml:"temperature"`
		MaxTokens    int     `yaml:"max_tokens"`
	} `yaml:"agent_config"`
	Scenario *struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		CallerName  string `yaml:"caller_name"`
		CallerPhone string `yaml:"caller_phone"`
		Objective   string `yaml:"objective"`
		Context     string `yaml:"context"`
	} `yaml:"scenario"`
	UILabels *struct {
		HeaderBadge    string `yaml:"header_badge"`
		BadgeText      string `yaml:"badge_text"`
		CallButtonText string `yaml:"call_button_text"`
		EndCallText    string `yaml:"end_call_text"`
		StatusIdleText string `yaml:"status_idle_text"`
	} `yaml:"ui_labels"`
	Tools []struct {
		ToolName    string         `yaml:"tool_name"`
		Type        string         `yaml:"type"`
		Enabled     bool           `yaml:"enabled"`
		Description string         `yaml:"description"`
		Parameters  map[string]any `yaml:"parameters"`
	} `yaml:"tools"`
	SMSTemplates []struct {
		TemplateType string   `yaml:"template_type"`
		TemplateName string   `yaml:"template_name"`
		Body         string   `yaml:"body"`
		Variables    []string `yaml:"variables"`
	} `yaml:"sms_templates"`
	MockData []struct {
		PoolType string           `yaml:"pool_type"`
		Records  []map[string]any `yaml:"records"`
		Schema   map[string]any   `yaml:"schema"`
	} `yaml:"mock_data"`
}

// Load reads and parses a seed file into a bundle.
func Load(path string) (*domain.DemoConfigBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if seed.Config.Name == "" {
		return nil, fmt.Errorf("seed config name is required")
	}

	bundle := &domain.DemoConfigBundle{
		Config: domain.DemoConfig{
			Slug:        seed.Config.Slug,
			Name:        seed.Config.Name,
			Description: seed.Config.Description,
		},
	}
	if bundle.Config.Slug == "" {
		bundle.Config.Slug = service.Slugify(seed.Config.Name)
	}

	if p := seed.BusinessProfile; p != nil {
		bundle.BusinessProfile = &domain.BusinessProfile{
			BusinessName: p.BusinessName,
			BusinessType: p.BusinessType,
			Address:      p.Address,
			Phone:        p.Phone,
			Timezone:     p.Timezone,
			Hours:        p.Hours,
			Services:     p.Services,
		}
	}
	if a := seed.AgentConfig; a != nil {
		bundle.AgentConfig = &domain.AgentConfig{
			AgentName:    a.AgentName,
			Voice:        a.Voice,
			Language:     a.Language,
			Greeting:     a.Greeting,
			SystemPrompt: a.SystemPrompt,
			Temperature:  a.Temperature,
			MaxTokens:    a.MaxTokens,
		}
	}
	if sc := seed.Scenario; sc != nil {
		bundle.Scenario = &domain.Scenario{
			Title:       sc.Title,
			Description: sc.Description,
			CallerName:  sc.CallerName,
			CallerPhone: sc.CallerPhone,
			Objective:   sc.Objective,
			Context:     sc.Context,
		}
	}
	if l := seed.UILabels; l != nil {
		bundle.UILabels = &domain.UILabels{
			HeaderBadge:    l.HeaderBadge,
			BadgeText:      l.BadgeText,
			CallButtonText: l.CallButtonText,
			EndCallText:    l.EndCallText,
			StatusIdleText: l.StatusIdleText,
		}
	}
	for _, t := range seed.Tools {
		bundle.Tools = append(bundle.Tools, domain.ToolConfig{
			ToolName:    t.ToolName,
			Type:        domain.ToolType(t.Type),
			Enabled:     t.Enabled,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	for _, t := range seed.SMSTemplates {
		bundle.SMSTemplates = append(bundle.SMSTemplates, domain.SMSTemplate{
			TemplateType: t.TemplateType,
			TemplateName: t.TemplateName,
			Body:         t.Body,
			Variables:    t.Variables,
		})
	}
	for _, p := range seed.MockData {
		bundle.MockData = append(bundle.MockData, domain.MockDataPool{
			PoolType: p.PoolType,
			Records:  p.Records,
			Schema:   p.Schema,
		})
	}
	return bundle, nil
}

// Apply writes the seed bundle to the store. A config with the seed's
// slug gets its satellites refreshed; otherwise the bundle is created,
// marked default, and activated when nothing else is active. Returns
// the config id.
func Apply(ctx context.Context, svc *service.DemoConfigService, bundle *domain.DemoConfigBundle, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	existing, err := svc.GetBundleBySlug(ctx, bundle.Config.Slug)
	if err != nil {
		return "", err
	}
	if existing != nil {
		update := domain.DemoConfigBundleUpdate{
			BusinessProfile: bundle.BusinessProfile,
			AgentConfig:     bundle.AgentConfig,
			Scenario:        bundle.Scenario,
			UILabels:        bundle.UILabels,
			Tools:           bundle.Tools,
			SMSTemplates:    bundle.SMSTemplates,
			MockData:        bundle.MockData,
		}
		if err := svc.Update(ctx, existing.Config.ID, update); err != nil {
			return "", err
		}
		logger.Info("seed refreshed", zap.String("config_id", existing.Config.ID))
		return existing.Config.ID, nil
	}

	id, err := svc.Create(ctx, bundle)
	if err != nil {
		return "", err
	}

	configs, err := svc.List(ctx)
	if err != nil {
		return "", err
	}
	hasDefault := false
	hasActive := false
	for _, c := range configs {
		if c.IsDefault && c.ID != id {
			hasDefault = true
		}
		if c.IsActive {
			hasActive = true
		}
	}
	if !hasDefault {
		if err := svc.SetDefault(ctx, id); err != nil {
			return "", err
		}
	}
	if !hasActive {
		if err := svc.SetActive(ctx, id); err != nil {
			return "", err
		}
	}
	logger.Info("seed applied", zap.String("config_id", id))
	return id, nil
}
