package modules

import (
	"context"

	"github.com/riverqueue/river"

	"github.com/shepherd-cms/corepress/internal/api/handlers"
	"github.com/shepherd-cms/corepress/internal/api/middleware"
	"github.com/shepherd-cms/corepress/internal/webhook"
)

// ContentModule wires the Blueprint/Field Type Engine, Content Storage
// Service, Webhook Delivery Engine, and Plugin Manager into the HTTP
// server and the River worker registry.
type ContentModule struct {
	infra *Infrastructure
}

// NewContentModule creates the content module with explicit constructor
// wiring (ADR-0013: manual DI, no Wire/Dig).
func NewContentModule(infra *Infrastructure) *ContentModule {
	return &ContentModule{infra: infra}
}

func (m *ContentModule) Name() string { return "content" }

func (m *ContentModule) ContributeServerDeps(deps *handlers.ServerDeps) {
	if deps == nil || m == nil || m.infra == nil {
		return
	}
	deps.Pool = m.infra.DB.Pool
	deps.JWTCfg = middleware.JWTConfig{
		SigningKey:       []byte(m.infra.Config.Security.EncryptionKey),
		VerificationKeys: decodeHexKeys(m.infra.Config.Security.JWTVerificationKeys),
		Issuer:           "corepress",
	}
	deps.Audit = m.infra.AuditLogger
	deps.Content = m.infra.Content
	deps.Registry = m.infra.FieldTypes
	deps.Webhooks = m.infra.Webhooks
	deps.Plugins = m.infra.Plugins
}

func (m *ContentModule) RegisterWorkers(workers *river.Workers) {
	if workers == nil || m == nil || m.infra == nil {
		return
	}
	river.AddWorker(workers, webhook.NewWorker(m.infra.DB.Pool, m.infra.Webhooks))
}

func (m *ContentModule) Shutdown(context.Context) error { return nil }

// decodeHexKeys treats configured verification keys as raw bytes of their
// string form; the content engine only ever verifies HS256 tokens signed
// with a shared secret, so no PEM/JWK parsing is needed here.
func decodeHexKeys(keys []string) [][]byte {
	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		out = append(out, []byte(k))
	}
	return out
}
