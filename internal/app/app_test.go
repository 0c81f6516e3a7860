package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"combat-pilot/engine"
	"combat-pilot/engine/catalog"
	"combat-pilot/engine/logging"
)

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load defaults failed: %v", err)
	}
	if cfg.ListenAddr == "" || cfg.StaleAfter <= 0 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}

	t.Setenv("PILOT_LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("PILOT_STALE_AFTER", "250ms")
	t.Setenv("PILOT_LOG_SINKS", "console,json")

	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("load overrides failed: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Fatalf("listen addr override missing: %q", cfg.ListenAddr)
	}
	if cfg.StaleAfter != 250*time.Millisecond {
		t.Fatalf("stale threshold override missing: %v", cfg.StaleAfter)
	}
	if len(cfg.LogSinks) != 2 || cfg.LogSinks[1] != "json" {
		t.Fatalf("sink list override missing: %v", cfg.LogSinks)
	}
}

func TestRegisterCatalogWiresResolver(t *testing.T) {
	t.Parallel()

	defs, err := catalog.Parse([]byte(`{
		"entries": [
			{"baseId": 300, "variants": [
				{"minLevel": 1, "actionId": 301},
				{"minLevel": 72, "actionId": 303}
			]},
			{"baseId": 100, "variants": [{"minLevel": 1, "actionId": 100}]}
		],
		"filler": {
			"baseId": 100,
			"dotActionId": 101,
			"dotDebuffId": 201,
			"dotRefreshWindowSecs": 3.0,
			"burstActionId": 102,
			"empowerBuffId": 202,
			"empoweredActionId": 103
		}
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	resolver := engine.NewResolver()
	if err := registerCatalog(context.Background(), resolver, defs, logging.NopPublisher()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if !resolver.Registered(300) {
		t.Fatal("variant table not registered")
	}
	if !resolver.Registered(100) {
		t.Fatal("filler handler not registered")
	}

	// The filler handler claimed base 100 first; its variant entry is
	// skipped rather than colliding.
	cache := engine.NewStateCache(nil)
	if got := resolver.Resolve(100, cache, cache.TargetDebuffs(), cache.PlayerBuffs(), engine.NewReadinessSet()); got != 101 {
		t.Fatalf("filler handler should drive base 100, got %d", got)
	}
}

func TestStateEndpointReportsStaleness(t *testing.T) {
	t.Parallel()

	hub := engine.NewHub(engine.HubConfig{})
	handler := newHandler(hub, 500*time.Millisecond)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/state", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", recorder.Code)
	}
	var resp stateResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Stale {
		t.Fatal("a never-fed hub must report stale state")
	}
}

func TestTelemetryEndpoint(t *testing.T) {
	t.Parallel()

	hub := engine.NewHub(engine.HubConfig{})
	handler := newHandler(hub, time.Second)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/telemetry", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", recorder.Code)
	}
	var snap engine.IngestSnapshot
	if err := json.Unmarshal(recorder.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.FramesTotal != 0 {
		t.Fatalf("fresh hub should report zero frames: %+v", snap)
	}
}
