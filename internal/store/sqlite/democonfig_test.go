package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

func createConfig(t *testing.T, s *Store, slug, name string) string {
	t.Helper()
	id, err := s.CreateDemoConfig(context.Background(), &domain.DemoConfig{
		Slug: slug,
		Name: name,
	})
	require.NoError(t, err)
	return id
}

func TestDemoConfigSlugLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := createConfig(t, s, "dental-demo", "Dental Demo")

	got, err := s.GetDemoConfigBySlug(ctx, "dental-demo")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)

	missing, err := s.GetDemoConfigBySlug(ctx, "no-such-slug")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDemoConfigDuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	createConfig(t, s, "dental-demo", "Dental Demo")

	_, err := s.CreateDemoConfig(context.Background(), &domain.DemoConfig{
		Slug: "dental-demo",
		Name: "Another",
	})
	require.Error(t, err)
	assert.True(t, store.IsConstraint(err))
}

func TestToolConfigUpsertReplacesByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	configID := createConfig(t, s, "tools-demo", "Tools Demo")

	require.NoError(t, s.UpsertToolConfig(ctx, &domain.ToolConfig{
		ConfigID: configID,
		ToolName: "book_appointment",
		Type:     domain.ToolPredefined,
		Enabled:  true,
	}))
	require.NoError(t, s.UpsertToolConfig(ctx, &domain.ToolConfig{
		ConfigID:    configID,
		ToolName:    "book_appointment",
		Type:        domain.ToolPredefined,
		Enabled:     false,
		Description: "disabled for this demo",
	}))

	tools, err := s.ListToolConfigs(ctx, configID)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.False(t, tools[0].Enabled)
	assert.Equal(t, "disabled for this demo", tools[0].Description)

	require.NoError(t, s.DeleteToolConfig(ctx, configID, "book_appointment"))
	tools, err = s.ListToolConfigs(ctx, configID)
	require.NoError(t, err)
	assert.Empty(t, tools)
}

func TestSMSTemplateNaturalKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	configID := createConfig(t, s, "sms-demo", "SMS Demo")

	require.NoError(t, s.UpsertSMSTemplate(ctx, &domain.SMSTemplate{
		ConfigID:     configID,
		TemplateType: "confirmation",
		TemplateName: "default",
		Body:         "See you at {{time}}",
		Variables:    []string{"time"},
	}))
	require.NoError(t, s.UpsertSMSTemplate(ctx, &domain.SMSTemplate{
		ConfigID:     configID,
		TemplateType: "confirmation",
		TemplateName: "spanish",
		Body:         "Nos vemos a las {{time}}",
		Variables:    []string{"time"},
	}))
	// Same type+name replaces, not duplicates.
	require.NoError(t, s.UpsertSMSTemplate(ctx, &domain.SMSTemplate{
		ConfigID:     configID,
		TemplateType: "confirmation",
		TemplateName: "default",
		Body:         "Your visit is confirmed for {{time}}",
		Variables:    []string{"time"},
	}))

	templates, err := s.ListSMSTemplates(ctx, configID)
	require.NoError(t, err)
	assert.Len(t, templates, 2)
}

func TestSatelliteUpsertAndConfigCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	configID := createConfig(t, s, "cascade-demo", "Cascade Demo")

	require.NoError(t, s.UpsertBusinessProfile(ctx, &domain.BusinessProfile{
		ConfigID:     configID,
		BusinessName: "Sunny Smiles Dental",
		Timezone:     "America/Chicago",
		Hours:        map[string]any{"mon": "9-5"},
		Services:     []string{"exam", "cleaning"},
	}))
	require.NoError(t, s.UpsertAgentConfig(ctx, &domain.AgentConfig{
		ConfigID:    configID,
		AgentName:   "Riley",
		Temperature: 0.7,
	}))
	require.NoError(t, s.UpsertUILabels(ctx, domain.DefaultUILabels(configID)))
	require.NoError(t, s.UpsertMockDataPool(ctx, &domain.MockDataPool{
		ConfigID: configID,
		PoolType: "patients",
		Records:  []map[string]any{{"name": "Maria"}},
	}))

	profile, err := s.GetBusinessProfile(ctx, configID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Sunny Smiles Dental", profile.BusinessName)
	assert.Equal(t, []string{"exam", "cleaning"}, profile.Services)

	// 1:1 upsert replaces in place.
	profile.BusinessName = "Sunny Smiles Pediatric Dental"
	require.NoError(t, s.UpsertBusinessProfile(ctx, profile))
	profile, err = s.GetBusinessProfile(ctx, configID)
	require.NoError(t, err)
	assert.Equal(t, "Sunny Smiles Pediatric Dental", profile.BusinessName)

	require.NoError(t, s.DeleteDemoConfig(ctx, configID))

	profile, err = s.GetBusinessProfile(ctx, configID)
	require.NoError(t, err)
	assert.Nil(t, profile)
	agent, err := s.GetAgentConfig(ctx, configID)
	require.NoError(t, err)
	assert.Nil(t, agent)
	pools, err := s.ListMockDataPools(ctx, configID)
	require.NoError(t, err)
	assert.Empty(t, pools)
}
