package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
	"voicedesk/internal/store/sqlite"
)

func newTestService(t *testing.T) (*DemoConfigService, *EventBus) {
	t.Helper()
	st, err := sqlite.New(sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	bus := NewEventBus()
	return NewDemoConfigService(st, bus, nil), bus
}

func sampleBundle(name string) *domain.DemoConfigBundle {
	return &domain.DemoConfigBundle{
		Config: domain.DemoConfig{Name: name},
		BusinessProfile: &domain.BusinessProfile{
			BusinessName: "Sunny Smiles Dental",
			Timezone:     "America/Chicago",
		},
		AgentConfig: &domain.AgentConfig{
			AgentName:   "Riley",
			Temperature: 0.7,
		},
		Tools: []domain.ToolConfig{
			{ToolName: "book_appointment", Type: domain.ToolPredefined, Enabled: true},
			{ToolName: "send_sms", Type: domain.ToolPredefined, Enabled: true},
		},
		SMSTemplates: []domain.SMSTemplate{
			{TemplateType: "confirmation", TemplateName: "default", Body: "See you at {{time}}"},
		},
	}
}

func TestCreateDerivesSlugAndDefaultLabels(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, sampleBundle("Sunny Smiles Demo"))
	require.NoError(t, err)

	bundle, err := svc.GetBundle(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, "sunny-smiles-demo", bundle.Config.Slug)
	require.NotNil(t, bundle.UILabels)
	assert.Equal(t, domain.DefaultBadgeText, bundle.UILabels.BadgeText)
	require.NotNil(t, bundle.BusinessProfile)
	assert.Equal(t, id, bundle.BusinessProfile.ConfigID)
	assert.Len(t, bundle.Tools, 2)
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &domain.DemoConfigBundle{})
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
}

func TestCreateResolvesSlugCollision(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleBundle("Dental Demo"))
	require.NoError(t, err)
	id2, err := svc.Create(ctx, sampleBundle("Dental Demo"))
	require.NoError(t, err)

	second, err := svc.GetBundle(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, "dental-demo-2", second.Config.Slug)
}

func TestSetActiveKeepsSingleActive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"First", "Second", "Third"} {
		id, err := svc.Create(ctx, sampleBundle(name))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	countActive := func() (int, string) {
		configs, err := svc.List(ctx)
		require.NoError(t, err)
		n, activeID := 0, ""
		for _, c := range configs {
			if c.IsActive {
				n++
				activeID = c.ID
			}
		}
		return n, activeID
	}

	for _, target := range []string{ids[0], ids[2], ids[2], ids[1]} {
		require.NoError(t, svc.SetActive(ctx, target))
		n, activeID := countActive()
		assert.Equal(t, 1, n)
		assert.Equal(t, target, activeID)
	}

	err := svc.SetActive(ctx, "no-such-id")
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
}

func TestSetDefaultKeepsSingleDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"First", "Second"} {
		id, err := svc.Create(ctx, sampleBundle(name))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	for _, target := range []string{ids[0], ids[1], ids[1]} {
		require.NoError(t, svc.SetDefault(ctx, target))
		configs, err := svc.List(ctx)
		require.NoError(t, err)
		var defaults []string
		for _, c := range configs {
			if c.IsDefault {
				defaults = append(defaults, c.ID)
			}
		}
		assert.Equal(t, []string{target}, defaults)
	}

	err := svc.SetDefault(ctx, "no-such-id")
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
}

func TestCreateAndUpdateIgnoreLifecycleFlags(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	alphaID, err := svc.Create(ctx, sampleBundle("Alpha"))
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, alphaID))
	require.NoError(t, svc.SetDefault(ctx, alphaID))

	// A create payload carrying the flags must not bypass SetActive or
	// SetDefault.
	sneaky := sampleBundle("Beta")
	sneaky.Config.IsActive = true
	sneaky.Config.IsDefault = true
	betaID, err := svc.Create(ctx, sneaky)
	require.NoError(t, err)

	// Neither must a PATCH on the header.
	on := true
	require.NoError(t, svc.Update(ctx, betaID, domain.DemoConfigBundleUpdate{
		Config: domain.DemoConfigUpdate{IsActive: &on, IsDefault: &on},
	}))

	configs, err := svc.List(ctx)
	require.NoError(t, err)
	var actives, defaults []string
	for _, c := range configs {
		if c.IsActive {
			actives = append(actives, c.ID)
		}
		if c.IsDefault {
			defaults = append(defaults, c.ID)
		}
	}
	assert.Equal(t, []string{alphaID}, actives)
	assert.Equal(t, []string{alphaID}, defaults)
}

func TestGetActiveBundleFallsBackToDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	none, err := svc.GetActiveBundle(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	defaultID, err := svc.Create(ctx, sampleBundle("Default Demo"))
	require.NoError(t, err)
	require.NoError(t, svc.SetDefault(ctx, defaultID))

	otherID, err := svc.Create(ctx, sampleBundle("Other Demo"))
	require.NoError(t, err)

	// Nothing active yet: the default wins.
	got, err := svc.GetActiveBundle(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, defaultID, got.Config.ID)

	require.NoError(t, svc.SetActive(ctx, otherID))
	got, err = svc.GetActiveBundle(ctx)
	require.NoError(t, err)
	assert.Equal(t, otherID, got.Config.ID)
}

func TestDuplicateIsIndependentCopy(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sourceID, err := svc.Create(ctx, sampleBundle("Dup Demo"))
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, sourceID))

	copyID, err := svc.Duplicate(ctx, sourceID, "")
	require.NoError(t, err)
	require.NotEqual(t, sourceID, copyID)

	copied, err := svc.GetBundle(ctx, copyID)
	require.NoError(t, err)
	require.NotNil(t, copied)
	assert.Equal(t, "Dup Demo Copy", copied.Config.Name)
	assert.False(t, copied.Config.IsActive)
	assert.False(t, copied.Config.IsDefault)
	assert.Len(t, copied.Tools, 2)

	// Mutating the copy leaves the source untouched.
	require.NoError(t, svc.Update(ctx, copyID, domain.DemoConfigBundleUpdate{
		BusinessProfile: &domain.BusinessProfile{BusinessName: "Changed"},
	}))
	source, err := svc.GetBundle(ctx, sourceID)
	require.NoError(t, err)
	assert.Equal(t, "Sunny Smiles Dental", source.BusinessProfile.BusinessName)
}

func TestDeleteRefusesDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, sampleBundle("Keep Me"))
	require.NoError(t, err)
	require.NoError(t, svc.SetDefault(ctx, id))

	err = svc.Delete(ctx, id)
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))

	otherID, err := svc.Create(ctx, sampleBundle("Remove Me"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, otherID))
	gone, err := svc.GetBundle(ctx, otherID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestExportImportRoundtrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, sampleBundle("Portable Demo"))
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, id))

	doc, err := svc.Export(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ConfigExportVersion, doc.Version)
	assert.True(t, doc.Bundle.Config.IsActive)

	importedID, err := svc.Import(ctx, doc)
	require.NoError(t, err)
	require.NotEqual(t, id, importedID)

	imported, err := svc.GetBundle(ctx, importedID)
	require.NoError(t, err)
	require.NotNil(t, imported)
	assert.Equal(t, "portable-demo-2", imported.Config.Slug)
	// Active and default flags never travel with the document.
	assert.False(t, imported.Config.IsActive)
	assert.False(t, imported.Config.IsDefault)
	assert.Len(t, imported.Tools, 2)
}

func TestImportRejectsUnsupportedVersion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, sampleBundle("Versioned Demo"))
	require.NoError(t, err)
	doc, err := svc.Export(ctx, id)
	require.NoError(t, err)

	doc.Version = ConfigExportVersion + 1
	_, err = svc.Import(ctx, doc)
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
}

func TestLifecycleEventsPublished(t *testing.T) {
	svc, bus := newTestService(t)
	ctx := context.Background()

	events := make(chan Event, 16)
	bus.Subscribe(events)

	id, err := svc.Create(ctx, sampleBundle("Eventful Demo"))
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, id))

	got := []EventType{(<-events).Type, (<-events).Type}
	assert.Equal(t, []EventType{EventConfigCreated, EventConfigActivated}, got)
}
