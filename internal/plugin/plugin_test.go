package plugin

import (
	"context"
	"testing"

	"github.com/shepherd-cms/corepress/internal/fieldtype"
	"github.com/shepherd-cms/corepress/internal/hooks"
)

func testManager() *Manager {
	return NewManager(hooks.New(nil), fieldtype.NewRegistry(), nil, nil, nil)
}

func TestLoad_InvokesInitThenEnable(t *testing.T) {
	m := testManager()
	var order []string

	p := &Plugin{
		Manifest: Manifest{ID: "seo", Name: "SEO Helper", Version: "1.0.0"},
		Init: func(ctx *Context) error {
			order = append(order, "init")
			return nil
		},
		Enable: func(ctx *Context) error {
			order = append(order, "enable")
			return nil
		},
	}

	if err := m.Load(context.Background(), p, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "init" || order[1] != "enable" {
		t.Errorf("expected [init enable], got %v", order)
	}
	state, ok := m.State("seo")
	if !ok || state != StateActive {
		t.Errorf("expected active state, got %v (ok=%v)", state, ok)
	}
}

func TestLoad_RejectsDuplicateID(t *testing.T) {
	m := testManager()
	p := &Plugin{Manifest: Manifest{ID: "seo", Name: "SEO Helper", Version: "1.0.0"}}

	if err := m.Load(context.Background(), p, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Load(context.Background(), p, nil); err == nil {
		t.Error("expected error on duplicate plugin id")
	}
}

func TestLoad_RejectsInvalidManifest(t *testing.T) {
	m := testManager()
	p := &Plugin{Manifest: Manifest{Name: "No ID", Version: "1.0.0"}}

	if err := m.Load(context.Background(), p, nil); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestLoad_InitErrorLeavesNothingLoaded(t *testing.T) {
	m := testManager()
	p := &Plugin{
		Manifest: Manifest{ID: "broken", Name: "Broken", Version: "1.0.0"},
		Init: func(ctx *Context) error {
			return errBoom
		},
	}

	if err := m.Load(context.Background(), p, nil); err == nil {
		t.Fatal("expected init error to propagate")
	}
	if _, ok := m.State("broken"); ok {
		t.Error("expected failed load to leave no instance registered")
	}
}

func TestMigrateConfig_AppliesChainInOrder(t *testing.T) {
	manifest := Manifest{
		ID:      "seo",
		Version: "3",
		Migrations: []ConfigMigration{
			{From: "1", Migrate: func(c map[string]any) (map[string]any, error) {
				c["step"] = "1->2"
				c[configVersionKey] = "2"
				return c, nil
			}},
			{From: "2", Migrate: func(c map[string]any) (map[string]any, error) {
				c["step"] = "2->3"
				c[configVersionKey] = "3"
				return c, nil
			}},
		},
	}

	got, err := migrateConfig(manifest, map[string]any{configVersionKey: "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["step"] != "2->3" {
		t.Errorf("expected migration chain to run through to the end, got %v", got)
	}
	if got[configVersionKey] != "3" {
		t.Errorf("expected final version stamp 3, got %v", got[configVersionKey])
	}
}

func TestMigrateConfig_NoopWhenVersionMatches(t *testing.T) {
	manifest := Manifest{ID: "seo", Version: "2"}
	got, err := migrateConfig(manifest, map[string]any{configVersionKey: "2", "keep": "me"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["keep"] != "me" {
		t.Error("expected config to be left untouched when version matches")
	}
}

func TestReconfigure_MergesPartialAndRevalidates(t *testing.T) {
	m := testManager()
	var seenConfig map[string]any
	p := &Plugin{
		Manifest: Manifest{
			ID: "seo", Name: "SEO Helper", Version: "1.0.0",
			ConfigSchema: &ConfigSchema{Required: []string{"apiKey"}},
		},
		Reconfigure: func(ctx *Context) error {
			seenConfig = ctx.Config
			return nil
		},
	}

	if err := m.Load(context.Background(), p, map[string]any{"apiKey": "abc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Reconfigure("seo", map[string]any{"region": "eu"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seenConfig["apiKey"] != "abc" || seenConfig["region"] != "eu" {
		t.Errorf("expected merged config, got %v", seenConfig)
	}
}

func TestReconfigure_RejectsConfigMissingRequiredKey(t *testing.T) {
	m := testManager()
	p := &Plugin{
		Manifest: Manifest{
			ID: "seo", Name: "SEO Helper", Version: "1.0.0",
			ConfigSchema: &ConfigSchema{Required: []string{"apiKey"}},
		},
	}
	if err := m.Load(context.Background(), p, map[string]any{"apiKey": "abc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Reconfigure cannot remove a required key since it merges on top of
	// the existing config, so force the failure via a schema Validate hook.
	p.Manifest.ConfigSchema.Validate = func(c map[string]any) error {
		return errBoom
	}
	if err := m.Reconfigure("seo", map[string]any{"region": "eu"}); err == nil {
		t.Error("expected reconfigure to fail validation")
	}
}

func TestUnload_InvokesDisableThenDestroyAndClearsInstance(t *testing.T) {
	m := testManager()
	var order []string
	p := &Plugin{
		Manifest: Manifest{ID: "seo", Name: "SEO Helper", Version: "1.0.0"},
		Disable: func(ctx *Context) error {
			order = append(order, "disable")
			return nil
		},
		Destroy: func(ctx *Context) error {
			order = append(order, "destroy")
			return nil
		},
	}
	if err := m.Load(context.Background(), p, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Unload("seo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "disable" || order[1] != "destroy" {
		t.Errorf("expected [disable destroy], got %v", order)
	}
	if _, ok := m.State("seo"); ok {
		t.Error("expected instance cleared after unload")
	}
}

func TestCrypto_EncryptDecryptRoundTrip(t *testing.T) {
	c, err := NewCrypto("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sealed, err := c.EncryptSecret(map[string]any{"token": "s3cr3t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out map[string]any
	if err := c.DecryptSecret(sealed, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["token"] != "s3cr3t" {
		t.Errorf("expected round-tripped secret, got %v", out)
	}
}

func TestCrypto_RejectsShortKey(t *testing.T) {
	if _, err := NewCrypto("deadbeef"); err == nil {
		t.Error("expected error for short key")
	}
}

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }
