package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

// DemoConfigService provides business logic for the configuration
// aggregate. It is adapter-agnostic: the same service runs against the
// embedded backend or the remote one.
type DemoConfigService struct {
	store  store.Store
	events *EventBus
	logger *zap.Logger
}

// NewDemoConfigService creates a new config service.
func NewDemoConfigService(st store.Store, events *EventBus, logger *zap.Logger) *DemoConfigService {
	if events == nil {
		events = NewEventBus()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemoConfigService{
		store:  st,
		events: events,
		logger: logger,
	}
}

// GetBundle assembles the full aggregate for a config id. Returns
// (nil, nil) when the header does not exist.
func (s *DemoConfigService) GetBundle(ctx context.Context, id string) (*domain.DemoConfigBundle, error) {
	header, err := s.store.GetDemoConfig(ctx, id)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}
	return s.assemble(ctx, header)
}

// GetBundleBySlug assembles the full aggregate for a URL slug.
func (s *DemoConfigService) GetBundleBySlug(ctx context.Context, slug string) (*domain.DemoConfigBundle, error) {
	header, err := s.store.GetDemoConfigBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}
	return s.assemble(ctx, header)
}

// GetActiveBundle returns the currently active aggregate, or the
// default one when nothing is explicitly active.
func (s *DemoConfigService) GetActiveBundle(ctx context.Context) (*domain.DemoConfigBundle, error) {
	configs, err := s.store.ListDemoConfigs(ctx)
	if err != nil {
		return nil, err
	}
	var fallback *domain.DemoConfig
	for i := range configs {
		if configs[i].IsActive {
			return s.assemble(ctx, &configs[i])
		}
		if configs[i].IsDefault && fallback == nil {
			fallback = &configs[i]
		}
	}
	if fallback == nil {
		return nil, nil
	}
	return s.assemble(ctx, fallback)
}

func (s *DemoConfigService) assemble(ctx context.Context, header *domain.DemoConfig) (*domain.DemoConfigBundle, error) {
	bundle := &domain.DemoConfigBundle{Config: *header}
	var err error
	if bundle.BusinessProfile, err = s.store.GetBusinessProfile(ctx, header.ID); err != nil {
		return nil, err
	}
	if bundle.AgentConfig, err = s.store.GetAgentConfig(ctx, header.ID); err != nil {
		return nil, err
	}
	if bundle.Scenario, err = s.store.GetScenario(ctx, header.ID); err != nil {
		return nil, err
	}
	if bundle.UILabels, err = s.store.GetUILabels(ctx, header.ID); err != nil {
		return nil, err
	}
	if bundle.Tools, err = s.store.ListToolConfigs(ctx, header.ID); err != nil {
		return nil, err
	}
	if bundle.SMSTemplates, err = s.store.ListSMSTemplates(ctx, header.ID); err != nil {
		return nil, err
	}
	if bundle.MockData, err = s.store.ListMockDataPools(ctx, header.ID); err != nil {
		return nil, err
	}
	return bundle, nil
}

// List returns all config headers, default first.
func (s *DemoConfigService) List(ctx context.Context) ([]domain.DemoConfig, error) {
	return s.store.ListDemoConfigs(ctx)
}

// Create writes a new aggregate in one transaction. A missing slug is
// derived from the name; a missing label set gets the default UI copy.
// The new config is never active or default whatever the caller sent:
// those flags move only through SetActive and SetDefault.
func (s *DemoConfigService) Create(ctx context.Context, bundle *domain.DemoConfigBundle) (string, error) {
	if bundle.Config.Name == "" {
		return "", &store.ValidationError{Message: "config name is required"}
	}
	bundle.Config.IsActive = false
	bundle.Config.IsDefault = false
	if bundle.Config.Slug == "" {
		slug, err := s.uniqueSlug(ctx, Slugify(bundle.Config.Name))
		if err != nil {
			return "", err
		}
		bundle.Config.Slug = slug
	}

	if err := s.store.Begin(ctx); err != nil {
		return "", err
	}
	defer s.store.Rollback(ctx)

	id, err := s.store.CreateDemoConfig(ctx, &bundle.Config)
	if err != nil {
		return "", err
	}
	if bundle.UILabels == nil {
		bundle.UILabels = domain.DefaultUILabels(id)
	}
	if err := s.writeSatellites(ctx, id, bundle); err != nil {
		return "", err
	}
	if err := s.store.Commit(ctx); err != nil {
		return "", err
	}

	s.events.Publish(Event{Type: EventConfigCreated, Payload: map[string]string{"config_id": id}})
	s.logger.Info("demo config created",
		zap.String("config_id", id),
		zap.String("slug", bundle.Config.Slug))
	return id, nil
}

// Update applies a partial aggregate update in one transaction. Nil
// satellites are untouched; list satellites upsert by natural key.
// IsActive and IsDefault are ignored here: a PATCH must not be able to
// break the one-active / one-default invariants.
func (s *DemoConfigService) Update(ctx context.Context, id string, u domain.DemoConfigBundleUpdate) error {
	existing, err := s.store.GetDemoConfig(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &store.ValidationError{Message: "demo config " + id + " does not exist"}
	}
	u.Config.IsActive = nil
	u.Config.IsDefault = nil

	if err := s.store.Begin(ctx); err != nil {
		return err
	}
	defer s.store.Rollback(ctx)

	if !u.Config.IsEmpty() {
		if err := s.store.UpdateDemoConfig(ctx, id, u.Config); err != nil {
			return err
		}
	}
	if u.BusinessProfile != nil {
		u.BusinessProfile.ConfigID = id
		if err := s.store.UpsertBusinessProfile(ctx, u.BusinessProfile); err != nil {
			return err
		}
	}
	if u.AgentConfig != nil {
		u.AgentConfig.ConfigID = id
		if err := s.store.UpsertAgentConfig(ctx, u.AgentConfig); err != nil {
			return err
		}
	}
	if u.Scenario != nil {
		u.Scenario.ConfigID = id
		if err := s.store.UpsertScenario(ctx, u.Scenario); err != nil {
			return err
		}
	}
	if u.UILabels != nil {
		u.UILabels.ConfigID = id
		if err := s.store.UpsertUILabels(ctx, u.UILabels); err != nil {
			return err
		}
	}
	for i := range u.Tools {
		u.Tools[i].ConfigID = id
		if err := s.store.UpsertToolConfig(ctx, &u.Tools[i]); err != nil {
			return err
		}
	}
	for i := range u.SMSTemplates {
		u.SMSTemplates[i].ConfigID = id
		if err := s.store.UpsertSMSTemplate(ctx, &u.SMSTemplates[i]); err != nil {
			return err
		}
	}
	for i := range u.MockData {
		u.MockData[i].ConfigID = id
		if err := s.store.UpsertMockDataPool(ctx, &u.MockData[i]); err != nil {
			return err
		}
	}
	if err := s.store.Commit(ctx); err != nil {
		return err
	}

	s.events.Publish(Event{Type: EventConfigUpdated, Payload: map[string]string{"config_id": id}})
	return nil
}

// SetActive makes one config active and deactivates every other, in a
// single transaction so no observer sees two active configs. Repeated
// activation of the same config is a no-op that still holds the
// invariant.
func (s *DemoConfigService) SetActive(ctx context.Context, id string) error {
	target, err := s.store.GetDemoConfig(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return &store.ValidationError{Message: "demo config " + id + " does not exist"}
	}

	configs, err := s.store.ListDemoConfigs(ctx)
	if err != nil {
		return err
	}

	if err := s.store.Begin(ctx); err != nil {
		return err
	}
	defer s.store.Rollback(ctx)

	active := true
	inactive := false
	for i := range configs {
		c := &configs[i]
		switch {
		case c.ID == id && !c.IsActive:
			err = s.store.UpdateDemoConfig(ctx, c.ID, domain.DemoConfigUpdate{IsActive: &active})
		case c.ID != id && c.IsActive:
			err = s.store.UpdateDemoConfig(ctx, c.ID, domain.DemoConfigUpdate{IsActive: &inactive})
		}
		if err != nil {
			return err
		}
	}
	if err := s.store.Commit(ctx); err != nil {
		return err
	}

	s.events.Publish(Event{Type: EventConfigActivated, Payload: map[string]string{"config_id": id}})
	s.logger.Info("demo config activated", zap.String("config_id", id))
	return nil
}

// SetDefault promotes one config to be the fallback default and demotes
// every other, in a single transaction. Promoting the current default
// again is a no-op that still holds the invariant.
func (s *DemoConfigService) SetDefault(ctx context.Context, id string) error {
	target, err := s.store.GetDemoConfig(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return &store.ValidationError{Message: "demo config " + id + " does not exist"}
	}

	configs, err := s.store.ListDemoConfigs(ctx)
	if err != nil {
		return err
	}

	if err := s.store.Begin(ctx); err != nil {
		return err
	}
	defer s.store.Rollback(ctx)

	on := true
	off := false
	for i := range configs {
		c := &configs[i]
		switch {
		case c.ID == id && !c.IsDefault:
			err = s.store.UpdateDemoConfig(ctx, c.ID, domain.DemoConfigUpdate{IsDefault: &on})
		case c.ID != id && c.IsDefault:
			err = s.store.UpdateDemoConfig(ctx, c.ID, domain.DemoConfigUpdate{IsDefault: &off})
		}
		if err != nil {
			return err
		}
	}
	if err := s.store.Commit(ctx); err != nil {
		return err
	}

	s.events.Publish(Event{Type: EventConfigUpdated, Payload: map[string]string{"config_id": id}})
	s.logger.Info("demo config promoted to default", zap.String("config_id", id))
	return nil
}

// Duplicate copies an aggregate under a fresh id and a derived unique
// slug. The copy is never active and never the default, whatever the
// source's flags.
func (s *DemoConfigService) Duplicate(ctx context.Context, id, newName string) (string, error) {
	bundle, err := s.GetBundle(ctx, id)
	if err != nil {
		return "", err
	}
	if bundle == nil {
		return "", &store.ValidationError{Message: "demo config " + id + " does not exist"}
	}
	if newName == "" {
		newName = bundle.Config.Name + " Copy"
	}

	copyBundle := bundle.Clone()
	copyBundle.Config = domain.DemoConfig{
		Name:        newName,
		Description: bundle.Config.Description,
	}
	newID, err := s.Create(ctx, copyBundle)
	if err != nil {
		return "", err
	}

	s.events.Publish(Event{Type: EventConfigDuplicated, Payload: map[string]string{
		"source_id": id,
		"config_id": newID,
	}})
	return newID, nil
}

// Delete removes an aggregate. The default config is not deletable; an
// active config may be deleted and simply leaves no active config.
func (s *DemoConfigService) Delete(ctx context.Context, id string) error {
	existing, err := s.store.GetDemoConfig(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &store.ValidationError{Message: "demo config " + id + " does not exist"}
	}
	if existing.IsDefault {
		return &store.ValidationError{Message: "the default demo config cannot be deleted"}
	}
	if err := s.store.DeleteDemoConfig(ctx, id); err != nil {
		return err
	}
	s.events.Publish(Event{Type: EventConfigDeleted, Payload: map[string]string{"config_id": id}})
	return nil
}

// ConfigExportVersion is the current aggregate export format version.
const ConfigExportVersion = 1

// ConfigExport is a portable snapshot of one aggregate.
type ConfigExport struct {
	Version    int                     `json:"version"`
	ExportedAt time.Time               `json:"exported_at"`
	Bundle     domain.DemoConfigBundle `json:"bundle"`
}

// Validate rejects structurally unusable export documents before any
// write occurs.
func (e *ConfigExport) Validate() error {
	if e.Version <= 0 {
		return &store.ValidationError{Message: "config export version missing"}
	}
	if e.Version > ConfigExportVersion {
		return &store.ValidationError{
			Message: "config export version newer than supported",
		}
	}
	if e.Bundle.Config.Name == "" {
		return &store.ValidationError{Message: "config export missing config name"}
	}
	return nil
}

// Export snapshots one aggregate into a portable document.
func (s *DemoConfigService) Export(ctx context.Context, id string) (*ConfigExport, error) {
	bundle, err := s.GetBundle(ctx, id)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, &store.ValidationError{Message: "demo config " + id + " does not exist"}
	}
	return &ConfigExport{
		Version:    ConfigExportVersion,
		ExportedAt: time.Now().UTC(),
		Bundle:     *bundle,
	}, nil
}

// Import creates a new aggregate from an export document. The imported
// config always gets a fresh id and a derived unique slug; it is never
// active or default on arrival.
func (s *DemoConfigService) Import(ctx context.Context, doc *ConfigExport) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	bundle := doc.Bundle.Clone()
	bundle.Config = domain.DemoConfig{
		Name:        doc.Bundle.Config.Name,
		Description: doc.Bundle.Config.Description,
	}
	id, err := s.Create(ctx, bundle)
	if err != nil {
		return "", err
	}

	s.events.Publish(Event{Type: EventConfigImported, Payload: map[string]string{"config_id": id}})
	return id, nil
}

// writeSatellites upserts every satellite in the bundle under the given
// config id.
func (s *DemoConfigService) writeSatellites(ctx context.Context, id string, bundle *domain.DemoConfigBundle) error {
	if bundle.BusinessProfile != nil {
		bundle.BusinessProfile.ConfigID = id
		if err := s.store.UpsertBusinessProfile(ctx, bundle.BusinessProfile); err != nil {
			return err
		}
	}
	if bundle.AgentConfig != nil {
		bundle.AgentConfig.ConfigID = id
		if err := s.store.UpsertAgentConfig(ctx, bundle.AgentConfig); err != nil {
			return err
		}
	}
	if bundle.Scenario != nil {
		bundle.Scenario.ConfigID = id
		if err := s.store.UpsertScenario(ctx, bundle.Scenario); err != nil {
			return err
		}
	}
	if bundle.UILabels != nil {
		bundle.UILabels.ConfigID = id
		if err := s.store.UpsertUILabels(ctx, bundle.UILabels); err != nil {
			return err
		}
	}
	for i := range bundle.Tools {
		bundle.Tools[i].ConfigID = id
		if err := s.store.UpsertToolConfig(ctx, &bundle.Tools[i]); err != nil {
			return err
		}
	}
	for i := range bundle.SMSTemplates {
		bundle.SMSTemplates[i].ConfigID = id
		if err := s.store.UpsertSMSTemplate(ctx, &bundle.SMSTemplates[i]); err != nil {
			return err
		}
	}
	for i := range bundle.MockData {
		bundle.MockData[i].ConfigID = id
		if err := s.store.UpsertMockDataPool(ctx, &bundle.MockData[i]); err != nil {
			return err
		}
	}
	return nil
}
