package domain

import "time"

// ToolType distinguishes built-in tools from operator-defined ones
type ToolType string

const (
	ToolPredefined ToolType = "predefined"
	ToolCustom     ToolType = "custom"
)

// DemoConfig is the header row of the configuration aggregate. At most
// one config is active at a time; exactly one is the default and the
// default is never deletable.
type DemoConfig struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BusinessProfile describes the business the agent answers for (1:1).
type BusinessProfile struct {
	ConfigID     string         `json:"config_id"`
	BusinessName string         `json:"business_name"`
	BusinessType string         `json:"business_type,omitempty"`
	Address      string         `json:"address,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Timezone     string         `json:"timezone,omitempty"`
	Hours        map[string]any `json:"hours,omitempty"`
	Services     []string       `json:"services,omitempty"`
}

// AgentConfig holds the voice and prompt parameters for the agent (1:1).
type AgentConfig struct {
	ConfigID     string  `json:"config_id"`
	AgentName    string  `json:"agent_name"`
	Voice        string  `json:"voice,omitempty"`
	Language     string  `json:"language,omitempty"`
	Greeting     string  `json:"greeting,omitempty"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
}

// Scenario scripts the demo call the agent plays out (1:1).
type Scenario struct {
	ConfigID    string `json:"config_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CallerName  string `json:"caller_name,omitempty"`
	CallerPhone string `json:"caller_phone,omitempty"`
	Objective   string `json:"objective,omitempty"`
	Context     string `json:"context,omitempty"`
}

// ToolConfig enables one tool for a config (1:N, natural key ConfigID+ToolName).
// Inserting the same tool name again replaces the row rather than duplicating it.
type ToolConfig struct {
	ConfigID    string         `json:"config_id"`
	ToolName    string         `json:"tool_name"`
	Type        ToolType       `json:"type"`
	Enabled     bool           `json:"enabled"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// SMSTemplate is one outbound message template
// (1:N, natural key ConfigID+TemplateType+TemplateName).
type SMSTemplate struct {
	ConfigID     string   `json:"config_id"`
	TemplateType string   `json:"template_type"`
	TemplateName string   `json:"template_name"`
	Body         string   `json:"body"`
	Variables    []string `json:"variables,omitempty"`
}

// UILabels holds the demo UI copy for a config (1:1).
type UILabels struct {
	ConfigID       string `json:"config_id"`
	HeaderBadge    string `json:"header_badge,omitempty"`
	BadgeText      string `json:"badge_text,omitempty"`
	CallButtonText string `json:"call_button_text,omitempty"`
	EndCallText    string `json:"end_call_text,omitempty"`
	StatusIdleText string `json:"status_idle_text,omitempty"`
}

// MockDataPool is one pool of fake records the demo draws from
// (1:N, natural key ConfigID+PoolType). Records is an arbitrary JSON
// array typed only at this boundary; storage keeps it as opaque text.
type MockDataPool struct {
	ConfigID string           `json:"config_id"`
	PoolType string           `json:"pool_type"`
	Records  []map[string]any `json:"records"`
	Schema   map[string]any   `json:"schema,omitempty"`
}

// DemoConfigBundle is the fully assembled aggregate: header plus every
// satellite, as one in-memory object.
type DemoConfigBundle struct {
	Config          DemoConfig       `json:"config"`
	BusinessProfile *BusinessProfile `json:"business_profile,omitempty"`
	AgentConfig     *AgentConfig     `json:"agent_config,omitempty"`
	Scenario        *Scenario        `json:"scenario,omitempty"`
	Tools           []ToolConfig     `json:"tools,omitempty"`
	SMSTemplates    []SMSTemplate    `json:"sms_templates,omitempty"`
	UILabels        *UILabels        `json:"ui_labels,omitempty"`
	MockData        []MockDataPool   `json:"mock_data,omitempty"`
}

// Clone returns a copy of the bundle that shares no pointers or slice
// backing with the original, so callers can rewrite ConfigID fields
// without touching the source aggregate.
func (b *DemoConfigBundle) Clone() *DemoConfigBundle {
	out := &DemoConfigBundle{Config: b.Config}
	if b.BusinessProfile != nil {
		p := *b.BusinessProfile
		out.BusinessProfile = &p
	}
	if b.AgentConfig != nil {
		a := *b.AgentConfig
		out.AgentConfig = &a
	}
	if b.Scenario != nil {
		sc := *b.Scenario
		out.Scenario = &sc
	}
	if b.UILabels != nil {
		l := *b.UILabels
		out.UILabels = &l
	}
	if b.Tools != nil {
		out.Tools = append([]ToolConfig(nil), b.Tools...)
	}
	if b.SMSTemplates != nil {
		out.SMSTemplates = append([]SMSTemplate(nil), b.SMSTemplates...)
	}
	if b.MockData != nil {
		out.MockData = append([]MockDataPool(nil), b.MockData...)
	}
	return out
}

// DemoConfigUpdate is a sparse header update; only non-nil fields are written.
type DemoConfigUpdate struct {
	Slug        *string `json:"slug,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u DemoConfigUpdate) IsEmpty() bool {
	return u.Slug == nil && u.Name == nil && u.Description == nil &&
		u.IsActive == nil && u.IsDefault == nil
}

// DemoConfigBundleUpdate carries a partial aggregate update: the header
// update plus any satellites to upsert. Nil satellites are untouched;
// Tools, SMSTemplates and MockData entries are upserted by natural key.
type DemoConfigBundleUpdate struct {
	Config          DemoConfigUpdate `json:"config"`
	BusinessProfile *BusinessProfile `json:"business_profile,omitempty"`
	AgentConfig     *AgentConfig     `json:"agent_config,omitempty"`
	Scenario        *Scenario        `json:"scenario,omitempty"`
	Tools           []ToolConfig     `json:"tools,omitempty"`
	SMSTemplates    []SMSTemplate    `json:"sms_templates,omitempty"`
	UILabels        *UILabels        `json:"ui_labels,omitempty"`
	MockData        []MockDataPool   `json:"mock_data,omitempty"`
}

// Default UI copy applied when a config is created without labels.
const (
	DefaultHeaderBadge    = "(Enhanced)"
	DefaultBadgeText      = "VOICE AI DEMO"
	DefaultCallButtonText = "Start Demo Call"
)

// DefaultUILabels returns the label set used when the caller omits one.
func DefaultUILabels(configID string) *UILabels {
	return &UILabels{
		ConfigID:       configID,
		HeaderBadge:    DefaultHeaderBadge,
		BadgeText:      DefaultBadgeText,
		CallButtonText: DefaultCallButtonText,
	}
}
