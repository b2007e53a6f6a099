package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shepherd-cms/corepress/internal/api/middleware"
	"github.com/shepherd-cms/corepress/internal/config"
	"github.com/shepherd-cms/corepress/internal/content"
	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/fieldtype"
	"github.com/shepherd-cms/corepress/internal/governance/audit"
	"github.com/shepherd-cms/corepress/internal/hooks"
	"github.com/shepherd-cms/corepress/internal/migration"
	"github.com/shepherd-cms/corepress/internal/migration/migrations"
	"github.com/shepherd-cms/corepress/internal/pkg/worker"
	"github.com/shepherd-cms/corepress/internal/plugin"
	"github.com/shepherd-cms/corepress/internal/testutil"
	"github.com/shepherd-cms/corepress/internal/webhook"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer wires a Server against an isolated Postgres schema, the
// same dependency graph app.bootstrap builds minus River (nil client is
// fine: the engine only needs one to actually enqueue deliveries).
func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()

	pool := testutil.OpenPGXPool(t, "handlers")
	ctx := context.Background()

	runner := migration.NewRunner(pool)
	if _, err := runner.Migrate(ctx, migrations.All(), migration.Options{Transactional: true, StopOnError: true}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pools, err := worker.NewPools(ctx, worker.DefaultPoolConfig())
	if err != nil {
		t.Fatalf("new worker pools: %v", err)
	}
	t.Cleanup(pools.Shutdown)

	orchestrator := hooks.New(pools.Hooks)
	registry := fieldtype.NewRegistry()
	svc := content.NewService(pool, registry, orchestrator)
	auditLogger := audit.NewLogger(pool)
	webhookEngine := webhook.NewEngine(pool, nil, config.WebhookConfig{
		MaxAttempts:       3,
		InitialDelayMs:    100,
		BackoffMultiplier: 2,
	}, zap.NewNop())
	const testEncryptionKey = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" // 64 hex chars = 32 bytes
	crypto, err := plugin.NewCrypto(testEncryptionKey)
	if err != nil {
		t.Fatalf("new crypto: %v", err)
	}
	pluginMgr := plugin.NewManager(orchestrator, registry, nil, zap.NewNop(), crypto)

	server := NewServer(ServerDeps{
		Pool: pool,
		JWTCfg: middleware.JWTConfig{
			SigningKey: []byte("test-signing-key"),
			Issuer:     "corepress-test",
		},
		Audit:    auditLogger,
		Content:  svc,
		Registry: registry,
		Webhooks: webhookEngine,
		Plugins:  pluginMgr,
	})

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	bp := router.Group("/api/v1/blueprints")
	bp.POST("", server.CreateBlueprint)
	bp.GET("/:blueprint", server.GetBlueprint)
	contents := bp.Group("/:blueprint/contents")
	contents.POST("", server.CreateContent)
	contents.GET("/:idOrSlug", server.GetContent)

	return server, router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestContentHandlers_PublicBlueprintReadableWithoutAuth(t *testing.T) {
	_, router := newTestServer(t)

	createResp := doJSON(t, router, http.MethodPost, "/api/v1/blueprints", map[string]any{
		"name": "Article",
		"slug": "article",
		"fields": []map[string]any{
			{"key": "title", "name": "Title", "type": domain.FieldKindText, "required": true},
		},
		"settings": map[string]any{
			"apiAccess": domain.AccessPublic,
		},
	})
	if createResp.Code != http.StatusCreated {
		t.Fatalf("create blueprint status = %d, body = %s", createResp.Code, createResp.Body.String())
	}

	contentResp := doJSON(t, router, http.MethodPost, "/api/v1/blueprints/article/contents", map[string]any{
		"title": "Hello world",
	})
	if contentResp.Code != http.StatusCreated {
		t.Fatalf("create content status = %d, body = %s", contentResp.Code, contentResp.Body.String())
	}
	var created domain.ContentItem
	if err := json.Unmarshal(contentResp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created content: %v", err)
	}

	getResp := doJSON(t, router, http.MethodGet, "/api/v1/blueprints/article/contents/"+created.ID, nil)
	if getResp.Code != http.StatusOK {
		t.Errorf("get content status = %d, want %d (public blueprint should not require auth)", getResp.Code, http.StatusOK)
	}
}

func TestContentHandlers_PrivateBlueprintRejectsAnonymousRead(t *testing.T) {
	_, router := newTestServer(t)

	createResp := doJSON(t, router, http.MethodPost, "/api/v1/blueprints", map[string]any{
		"name": "Internal Memo",
		"slug": "memo",
		"fields": []map[string]any{
			{"key": "title", "name": "Title", "type": domain.FieldKindText, "required": true},
		},
		"settings": map[string]any{
			"apiAccess": domain.AccessPrivate,
		},
	})
	if createResp.Code != http.StatusCreated {
		t.Fatalf("create blueprint status = %d, body = %s", createResp.Code, createResp.Body.String())
	}

	contentResp := doJSON(t, router, http.MethodPost, "/api/v1/blueprints/memo/contents", map[string]any{
		"title": "Eyes only",
	})
	if contentResp.Code != http.StatusCreated {
		t.Fatalf("create content status = %d, body = %s", contentResp.Code, contentResp.Body.String())
	}
	var created domain.ContentItem
	if err := json.Unmarshal(contentResp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created content: %v", err)
	}

	getResp := doJSON(t, router, http.MethodGet, "/api/v1/blueprints/memo/contents/"+created.ID, nil)
	if getResp.Code != http.StatusForbidden {
		t.Errorf("get content status = %d, want %d (private blueprint must reject anonymous reads)", getResp.Code, http.StatusForbidden)
	}
}
