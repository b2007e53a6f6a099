// Package plugin implements the Plugin Manager (component G): a registry
// of loaded plugins driven by a manifest (id, semver version, optional
// dependency/incompatibility/engine constraints, optional config schema,
// optional migrations) plus optional lifecycle callbacks.
//
// Grounded on the teacher's auth-provider admin registry: a single
// sync.RWMutex-guarded map keyed by id, with Register/Resolve/List
// methods and no external coordination.
//
// Import Path: github.com/shepherd-cms/corepress/internal/plugin
package plugin

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/shepherd-cms/corepress/internal/fieldtype"
	"github.com/shepherd-cms/corepress/internal/hooks"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// State is a loaded plugin's lifecycle state.
type State string

const (
	StateActive    State = "active"
	StateDisabling State = "disabling"
	StateDisabled  State = "disabled"
	StateError     State = "error"
)

// ConfigMigration migrates a plugin's persisted config forward one step,
// from the version named From to the next version in the manifest's
// migration list.
type ConfigMigration struct {
	From    string
	Migrate func(config map[string]any) (map[string]any, error)
}

// Manifest describes a plugin's identity, constraints, and optional
// config schema/migrations (spec §4.6).
type Manifest struct {
	ID           string
	Name         string
	Version      string
	Dependencies []string
	Incompatible []string
	EngineRange  string
	ConfigSchema *ConfigSchema
	Migrations   []ConfigMigration
}

// ConfigSchema is a hand-written structural validator for a plugin's
// config, not a generic JSON-schema engine — plugins in this system are
// few and first-party enough that a declarative rule list is clearer
// than a schema compiler.
type ConfigSchema struct {
	Required []string
	Validate func(config map[string]any) error
}

func (s *ConfigSchema) validate(config map[string]any) error {
	if s == nil {
		return nil
	}
	for _, key := range s.Required {
		if _, ok := config[key]; !ok {
			return apperrors.ErrPluginManifestInvalidf(key, "required config key missing")
		}
	}
	if s.Validate != nil {
		return s.Validate(config)
	}
	return nil
}

// Context is handed to a plugin's lifecycle callbacks. Registries is an
// open map so host-specific registries (e.g. storage) can be threaded in
// without widening this struct every time one is added.
type Context struct {
	Manifest   Manifest
	Config     map[string]any
	Hooks      *hooks.Orchestrator
	FieldTypes *fieldtype.Registry
	Registries map[string]any
	Logger     *zap.Logger
}

// Plugin is the pluggable unit the manager loads. Lifecycle callbacks
// are optional: a nil callback is simply skipped. Init and Enable should
// return an unsubscribe closure's worth of cleanup via Disable — the
// manager does not track each plugin's hook registrations itself.
type Plugin struct {
	Manifest   Manifest
	Init       func(ctx *Context) error
	Enable     func(ctx *Context) error
	Reconfigure func(ctx *Context) error
	Disable    func(ctx *Context) error
	Destroy    func(ctx *Context) error
}

type instance struct {
	plugin *Plugin
	ctx    *Context
	state  State
}

// Manager loads, reconfigures, and unloads plugins. One Manager is
// shared across a process; state lives entirely behind mu.
type Manager struct {
	mu         sync.RWMutex
	instances  map[string]*instance
	hooks      *hooks.Orchestrator
	fieldTypes *fieldtype.Registry
	registries map[string]any
	logger     *zap.Logger
	crypto     *Crypto
}

// NewManager builds a Manager. registries is shared by reference with
// every plugin's Context — plugins must not mutate entries they don't
// own.
func NewManager(hookOrchestrator *hooks.Orchestrator, fieldTypes *fieldtype.Registry, registries map[string]any, logger *zap.Logger, crypto *Crypto) *Manager {
	if registries == nil {
		registries = map[string]any{}
	}
	return &Manager{
		instances:  map[string]*instance{},
		hooks:      hookOrchestrator,
		fieldTypes: fieldTypes,
		registries: registries,
		logger:     logger,
		crypto:     crypto,
	}
}

// Load validates the plugin's manifest, migrates and validates rawConfig,
// then invokes Init and Enable in order (spec §4.6 steps 1-5).
func (m *Manager) Load(ctx context.Context, p *Plugin, rawConfig map[string]any) error {
	if err := validateManifest(p.Manifest); err != nil {
		return err
	}

	m.mu.Lock()
	if _, exists := m.instances[p.Manifest.ID]; exists {
		m.mu.Unlock()
		return apperrors.ErrPluginAlreadyEnabledf(p.Manifest.ID)
	}
	// Reserve the slot before releasing the lock so two concurrent Loads
	// for the same id can't both pass the existence check.
	m.instances[p.Manifest.ID] = &instance{plugin: p, state: StateError}
	m.mu.Unlock()

	config, err := migrateConfig(p.Manifest, rawConfig)
	if err != nil {
		m.mu.Lock()
		delete(m.instances, p.Manifest.ID)
		m.mu.Unlock()
		return err
	}
	if err := p.Manifest.ConfigSchema.validate(config); err != nil {
		m.mu.Lock()
		delete(m.instances, p.Manifest.ID)
		m.mu.Unlock()
		return err
	}

	pctx := &Context{
		Manifest:   p.Manifest,
		Config:     config,
		Hooks:      m.hooks,
		FieldTypes: m.fieldTypes,
		Registries: m.registries,
		Logger:     m.scopedLogger(p.Manifest.ID),
	}

	if p.Init != nil {
		if err := p.Init(pctx); err != nil {
			m.mu.Lock()
			delete(m.instances, p.Manifest.ID)
			m.mu.Unlock()
			return apperrors.ErrPluginInitFailedf(err, p.Manifest.ID)
		}
	}
	if p.Enable != nil {
		if err := p.Enable(pctx); err != nil {
			m.mu.Lock()
			delete(m.instances, p.Manifest.ID)
			m.mu.Unlock()
			return apperrors.ErrPluginInitFailedf(err, p.Manifest.ID)
		}
	}

	m.mu.Lock()
	m.instances[p.Manifest.ID] = &instance{plugin: p, ctx: pctx, state: StateActive}
	m.mu.Unlock()
	return nil
}

// Reconfigure merges partial into the plugin's current config,
// re-validates it, and invokes the plugin's Reconfigure callback.
func (m *Manager) Reconfigure(id string, partial map[string]any) error {
	m.mu.Lock()
	inst, ok := m.instances[id]
	if !ok {
		m.mu.Unlock()
		return apperrors.ErrPluginNotFoundf(id)
	}
	merged := map[string]any{}
	for k, v := range inst.ctx.Config {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	if err := inst.plugin.Manifest.ConfigSchema.validate(merged); err != nil {
		m.mu.Unlock()
		return err
	}
	inst.ctx.Config = merged
	plugin := inst.plugin
	pctx := inst.ctx
	m.mu.Unlock()

	if plugin.Reconfigure != nil {
		return plugin.Reconfigure(pctx)
	}
	return nil
}

// Unload transitions active -> disabling, invokes Disable then Destroy,
// and drops the instance.
func (m *Manager) Unload(id string) error {
	m.mu.Lock()
	inst, ok := m.instances[id]
	if !ok {
		m.mu.Unlock()
		return apperrors.ErrPluginNotFoundf(id)
	}
	inst.state = StateDisabling
	plugin := inst.plugin
	pctx := inst.ctx
	m.mu.Unlock()

	if plugin.Disable != nil {
		if err := plugin.Disable(pctx); err != nil {
			m.mu.Lock()
			inst.state = StateError
			m.mu.Unlock()
			return apperrors.ErrPluginInitFailedf(err, id)
		}
	}
	if plugin.Destroy != nil {
		if err := plugin.Destroy(pctx); err != nil {
			m.mu.Lock()
			inst.state = StateError
			m.mu.Unlock()
			return apperrors.ErrPluginInitFailedf(err, id)
		}
	}

	m.mu.Lock()
	delete(m.instances, id)
	m.mu.Unlock()
	return nil
}

// State returns the current lifecycle state of a loaded plugin.
func (m *Manager) State(id string) (State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	if !ok {
		return "", false
	}
	return inst.state, true
}

// List returns the ids of every currently loaded plugin.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.instances))
	for id := range m.instances {
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) scopedLogger(id string) *zap.Logger {
	if m.logger == nil {
		return zap.NewNop()
	}
	return m.logger.With(zap.String("plugin", id))
}
