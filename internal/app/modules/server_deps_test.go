package modules

import (
	"context"
	"testing"

	"github.com/riverqueue/river"

	"github.com/shepherd-cms/corepress/internal/api/handlers"
)

type fakeModule struct {
	name      string
	pool      bool
	shutdowns *int
}

func (m *fakeModule) Name() string { return m.name }

func (m *fakeModule) ContributeServerDeps(deps *handlers.ServerDeps) {
	if m.pool {
		deps.JWTCfg.Issuer = m.name
	}
}

func (m *fakeModule) RegisterWorkers(*river.Workers) {}

func (m *fakeModule) Shutdown(context.Context) error {
	if m.shutdowns != nil {
		*m.shutdowns++
	}
	return nil
}

func TestNewServerDeps_FoldsEachModuleContribution(t *testing.T) {
	mods := []Module{
		&fakeModule{name: "first", pool: false},
		&fakeModule{name: "second", pool: true},
	}

	deps := NewServerDeps(mods)

	if deps.JWTCfg.Issuer != "second" {
		t.Errorf("JWTCfg.Issuer = %q, want %q", deps.JWTCfg.Issuer, "second")
	}
}

func TestNewServerDeps_SkipsNilModules(t *testing.T) {
	mods := []Module{nil, &fakeModule{name: "only", pool: true}}

	deps := NewServerDeps(mods)

	if deps.JWTCfg.Issuer != "only" {
		t.Errorf("JWTCfg.Issuer = %q, want %q", deps.JWTCfg.Issuer, "only")
	}
}

func TestNewServerDeps_EmptyModuleListReturnsZeroValue(t *testing.T) {
	deps := NewServerDeps(nil)

	if deps.Pool != nil || deps.Content != nil {
		t.Errorf("expected zero-value ServerDeps, got %+v", deps)
	}
}
