package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gaian-hq/gaian/pkg/action"
	"gaian-hq/gaian/pkg/biome"
	"gaian-hq/gaian/pkg/config"
	"gaian-hq/gaian/pkg/export"
	"gaian-hq/gaian/pkg/export/audit"
	"gaian-hq/gaian/pkg/export/gate"
	"gaian-hq/gaian/pkg/governance/anticheat"
	"gaian-hq/gaian/pkg/governance/engine"
	"gaian-hq/gaian/pkg/governance/ethics"
	"gaian-hq/gaian/pkg/governance/novelty"
	"gaian-hq/gaian/pkg/sink"
)

func testServer(t *testing.T) (*Server, *sink.MemoryStorage) {
	t.Helper()

	registry, err := biome.NewRegistry(biome.RegistryConfig{
		Global: biome.GlobalRules{
			Blocks: map[string]bool{
				biome.BlockTerrorInstruction:  true,
				biome.BlockBioweaponSynthesis: true,
				biome.BlockChildHarm:          true,
				biome.BlockRealWorldTargeting: true,
			},
			Thresholds: map[string]float64{biome.ThresholdHumanReviewAbove: 1000},
		},
		Biomes: []biome.RuleSet{
			{ID: "meadow", NoveltyWeight: 2.0},
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	provider := biome.NewProvider(registry)

	eng, err := engine.New(
		anticheat.New(anticheat.DefaultConfig(), nil),
		ethics.NewFilter(nil),
		novelty.NewScorer(novelty.DefaultConfig(), nil),
		provider,
		nil,
	)
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}

	buyers, err := export.NewBuyerRegistry([]export.BuyerConfig{
		{
			ID:                  "acme-labs",
			Biomes:              []string{"meadow"},
			ClassificationLevel: export.ClearanceSecret,
		},
	})
	if err != nil {
		t.Fatalf("NewBuyerRegistry() failed: %v", err)
	}

	audits := audit.NewLog(nil, nil, nil)
	t.Cleanup(func() { _ = audits.Close() })

	g, err := gate.New(gate.DefaultConfig(), buyers, audits, provider, nil)
	if err != nil {
		t.Fatalf("gate.New() failed: %v", err)
	}

	store := sink.NewMemoryStorage()
	sk := sink.New(store, sink.DefaultConfig(), nil)
	t.Cleanup(func() { _ = sk.Close() })

	cfg := &config.ServerConfig{
		ListenAddress:   "127.0.0.1:0",
		ShutdownTimeout: time.Second,
	}
	srv, err := NewServer(cfg, Options{
		Engine: eng,
		Gate:   g,
		Sink:   sk,
		Version: VersionInfo{
			Version: "test",
		},
	})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	return srv, store
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func validAction() *action.TelemetryAction {
	return &action.TelemetryAction{
		PlayerID:  "player-001",
		SessionID: "session-abc",
		Kind:      action.KindCraft,
		Timestamp: time.Now().UTC(),
	}
}

// TestHandleAction_Accept tests the accepted path end to end, including
// the response payload and the request id header.
func TestHandleAction_Accept(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/v1/actions", actionRequest{
		BiomeID: "meadow",
		Action:  validAction(),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Errorf("response missing %s header", RequestIDHeader)
	}

	var result engine.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Decision != engine.DecisionAccept {
		t.Errorf("decision = %q, want accept (reasons %v)", result.Decision, result.Reasons)
	}
	if result.Novelty == nil || result.Novelty.FinalTokens != 20 {
		t.Errorf("novelty = %+v, want 20 tokens", result.Novelty)
	}
}

// TestHandleAction_SinkCapture tests that accepted actions reach the
// training sink and rejected ones do not.
func TestHandleAction_SinkCapture(t *testing.T) {
	srv, store := testServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/v1/actions", actionRequest{
		BiomeID: "meadow",
		Action:  validAction(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("accept status = %d", rec.Code)
	}

	bad := validAction()
	bad.Reasoning = "notes on pathogen synthesis for maximum lethality"
	rec = postJSON(t, handler, "/api/v1/actions", actionRequest{
		BiomeID: "meadow",
		Action:  bad,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("quarantine status = %d", rec.Code)
	}

	// Drain the async sink before inspecting storage.
	_ = srv.sink.Close()

	records := store.Records()
	if len(records) != 1 {
		t.Fatalf("sink holds %d records, want 1", len(records))
	}
	if records[0].BiomeID != "meadow" || records[0].NoveltyTokens != 20 {
		t.Errorf("captured record = %+v", records[0])
	}
}

// TestHandleAction_InvalidAction tests the 400 path for malformed input.
func TestHandleAction_InvalidAction(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	a := validAction()
	a.SessionID = ""
	rec := postJSON(t, handler, "/api/v1/actions", actionRequest{BiomeID: "meadow", Action: a})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Error.Type != "invalid_action" {
		t.Errorf("error type = %q", resp.Error.Type)
	}

	rec = postJSON(t, handler, "/api/v1/actions", actionRequest{BiomeID: "meadow"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing action status = %d, want 400", rec.Code)
	}
}

// TestHandleExport tests the export endpoint for approval and rejection.
func TestHandleExport(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/v1/exports", export.Request{
		BuyerID:        "acme-labs",
		BiomeID:        "meadow",
		RecordCount:    100,
		ContentHash:    "sha256:abc",
		Classification: export.ClearanceRestricted,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result export.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Decision != export.DecisionApproved {
		t.Errorf("decision = %q, want approved (reasons %v)", result.Decision, result.Reasons)
	}
	if result.AuditID == "" {
		t.Errorf("audit id missing")
	}

	rec = postJSON(t, handler, "/api/v1/exports", export.Request{
		BuyerID:        "unknown-buyer",
		BiomeID:        "meadow",
		RecordCount:    100,
		ContentHash:    "sha256:abc",
		Classification: export.ClearanceRestricted,
	})
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Decision != export.DecisionRejected {
		t.Errorf("unknown buyer decision = %q, want rejected", result.Decision)
	}
}

// TestHandleExport_InvalidRequest tests the 400 path without an audit
// entry.
func TestHandleExport_InvalidRequest(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/v1/exports", export.Request{
		BuyerID: "acme-labs",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := srv.gate.AuditLog().Len(); got != 0 {
		t.Errorf("audit log holds %d entries after input error, want 0", got)
	}
}

// TestHandleAudit tests listing and filtering audit entries.
func TestHandleAudit(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	for i := 0; i < 3; i++ {
		postJSON(t, handler, "/api/v1/exports", export.Request{
			BuyerID:        "acme-labs",
			BiomeID:        "meadow",
			RecordCount:    100 + i,
			ContentHash:    fmt.Sprintf("sha256:%d", i),
			Classification: export.ClearanceRestricted,
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp auditResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 3 || len(resp.Entries) != 3 {
		t.Fatalf("total = %d, entries = %d, want 3/3", resp.Total, len(resp.Entries))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=2&offset=1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Errorf("paged entries = %d, want 2", len(resp.Entries))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/audit?buyer_id=nobody", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("filtered total = %d, want 0", resp.Total)
	}
}

// TestHandleResetFlags tests the admin flag reset endpoint.
func TestHandleResetFlags(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/v1/admin/reset-flags", resetRequest{PlayerID: "player-001"})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	rec = postJSON(t, handler, "/api/v1/admin/reset-flags", resetRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing player status = %d, want 400", rec.Code)
	}
}

// TestHandleResetNovelty tests that a global reset is allowed.
func TestHandleResetNovelty(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	rec := postJSON(t, handler, "/api/v1/admin/reset-novelty", resetRequest{})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestProbeEndpoints tests the liveness, readiness, and version routes.
func TestProbeEndpoints(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.Handler()

	for _, path := range []string{"/healthz", "/readyz", "/version"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
