package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/internal/domain"
	"voicedesk/internal/service"
	"voicedesk/internal/store/sqlite"
)

const seedYAML = `
config:
  name: Sunny Smiles Dental Demo
  description: Pediatric dental front desk

business_profile:
  business_name: Sunny Smiles Dental
  business_type: pediatric_dental
  timezone: America/Chicago
  services: [exam, cleaning]

agent_config:
  agent_name: Riley
  voice: alloy
  language: en
  temperature: 0.7

tools:
  - tool_name: book_appointment
    type: predefined
    enabled: true
  - tool_name: send_sms
    type: predefined
    enabled: true

sms_templates:
  - template_type: confirmation
    template_name: default
    body: "See you at {{time}}"
    variables: [time]

mock_data:
  - pool_type: patients
    records:
      - name: Maria Lopez
        phone: "+15550001111"
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	bundle, err := Load(writeSeed(t, seedYAML))
	require.NoError(t, err)

	assert.Equal(t, "Sunny Smiles Dental Demo", bundle.Config.Name)
	// Slug derives from the name when the seed omits it.
	assert.Equal(t, "sunny-smiles-dental-demo", bundle.Config.Slug)
	require.NotNil(t, bundle.BusinessProfile)
	assert.Equal(t, []string{"exam", "cleaning"}, bundle.BusinessProfile.Services)
	require.NotNil(t, bundle.AgentConfig)
	assert.Equal(t, 0.7, bundle.AgentConfig.Temperature)
	assert.Len(t, bundle.Tools, 2)
	assert.Len(t, bundle.SMSTemplates, 1)
	require.Len(t, bundle.MockData, 1)
	assert.Equal(t, "Maria Lopez", bundle.MockData[0].Records[0]["name"])
}

func TestLoadRejectsMissingName(t *testing.T) {
	_, err := Load(writeSeed(t, "config:\n  description: nameless\n"))
	require.Error(t, err)
}

func TestApplyCreatesDefaultOnce(t *testing.T) {
	st, err := sqlite.New(sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	svc := service.NewDemoConfigService(st, service.NewEventBus(), nil)
	ctx := context.Background()

	bundle, err := Load(writeSeed(t, seedYAML))
	require.NoError(t, err)

	id, err := Apply(ctx, svc, bundle, nil)
	require.NoError(t, err)

	seeded, err := svc.GetBundle(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, seeded)
	// First boot: the seed becomes the default and the active config.
	assert.True(t, seeded.Config.IsDefault)
	assert.True(t, seeded.Config.IsActive)

	// Re-applying refreshes satellites without creating a second config.
	bundle2, err := Load(writeSeed(t, seedYAML))
	require.NoError(t, err)
	bundle2.BusinessProfile.BusinessName = "Sunny Smiles Pediatric Dental"
	id2, err := Apply(ctx, svc, bundle2, nil)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	configs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 1)

	refreshed, err := svc.GetBundle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Sunny Smiles Pediatric Dental", refreshed.BusinessProfile.BusinessName)
}

func TestApplyLeavesOperatorConfigsAlone(t *testing.T) {
	st, err := sqlite.New(sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	svc := service.NewDemoConfigService(st, service.NewEventBus(), nil)
	ctx := context.Background()

	operatorID, err := svc.Create(ctx, &domain.DemoConfigBundle{
		Config: domain.DemoConfig{Name: "Operator Demo"},
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, operatorID))

	bundle, err := Load(writeSeed(t, seedYAML))
	require.NoError(t, err)
	seedID, err := Apply(ctx, svc, bundle, nil)
	require.NoError(t, err)

	// The operator's active choice survives; the seed only backfills
	// the default flag.
	operator, err := svc.GetBundle(ctx, operatorID)
	require.NoError(t, err)
	assert.True(t, operator.Config.IsActive)

	seeded, err := svc.GetBundle(ctx, seedID)
	require.NoError(t, err)
	assert.True(t, seeded.Config.IsDefault)
	assert.False(t, seeded.Config.IsActive)
}
