package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoConfigBundleCloneIsDeep(t *testing.T) {
	src := &DemoConfigBundle{
		Config:          DemoConfig{ID: "cfg-1", Name: "Source"},
		BusinessProfile: &BusinessProfile{ConfigID: "cfg-1", BusinessName: "Sunny Smiles"},
		AgentConfig:     &AgentConfig{ConfigID: "cfg-1", AgentName: "Riley"},
		Scenario:        &Scenario{ConfigID: "cfg-1", Title: "Booking"},
		UILabels:        &UILabels{ConfigID: "cfg-1", BadgeText: "Demo"},
		Tools: []ToolConfig{
			{ConfigID: "cfg-1", ToolName: "book_appointment"},
		},
		SMSTemplates: []SMSTemplate{
			{ConfigID: "cfg-1", TemplateType: "confirmation", TemplateName: "default"},
		},
		MockData: []MockDataPool{
			{ConfigID: "cfg-1", PoolType: "patients"},
		},
	}

	clone := src.Clone()
	require.NotSame(t, src.BusinessProfile, clone.BusinessProfile)
	assert.Equal(t, src, clone)

	// Rewriting ownership on the clone must not leak into the source.
	clone.Config.ID = "cfg-2"
	clone.BusinessProfile.ConfigID = "cfg-2"
	clone.AgentConfig.ConfigID = "cfg-2"
	clone.Scenario.ConfigID = "cfg-2"
	clone.UILabels.ConfigID = "cfg-2"
	clone.Tools[0].ConfigID = "cfg-2"
	clone.SMSTemplates[0].ConfigID = "cfg-2"
	clone.MockData[0].ConfigID = "cfg-2"

	assert.Equal(t, "cfg-1", src.Config.ID)
	assert.Equal(t, "cfg-1", src.BusinessProfile.ConfigID)
	assert.Equal(t, "cfg-1", src.AgentConfig.ConfigID)
	assert.Equal(t, "cfg-1", src.Scenario.ConfigID)
	assert.Equal(t, "cfg-1", src.UILabels.ConfigID)
	assert.Equal(t, "cfg-1", src.Tools[0].ConfigID)
	assert.Equal(t, "cfg-1", src.SMSTemplates[0].ConfigID)
	assert.Equal(t, "cfg-1", src.MockData[0].ConfigID)
}

func TestDemoConfigBundleCloneNilSatellites(t *testing.T) {
	src := &DemoConfigBundle{Config: DemoConfig{Name: "Bare"}}
	clone := src.Clone()
	assert.Equal(t, src, clone)
	assert.Nil(t, clone.BusinessProfile)
	assert.Nil(t, clone.Tools)
}
