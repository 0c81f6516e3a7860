package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/websocket"

	"combat-pilot/engine"
	"combat-pilot/engine/catalog"
	"combat-pilot/engine/logging"
	loggingresolution "combat-pilot/engine/logging/resolution"
	loggingsinks "combat-pilot/engine/logging/sinks"
)

// Config is the daemon configuration, populated from the environment.
type Config struct {
	ListenAddr   string        `env:"PILOT_LISTEN_ADDR" envDefault:":8790"`
	CatalogPath  string        `env:"PILOT_CATALOG_PATH"`
	StaleAfter   time.Duration `env:"PILOT_STALE_AFTER" envDefault:"500ms"`
	LogSinks     []string      `env:"PILOT_LOG_SINKS" envSeparator:"," envDefault:"console"`
	LogJSONPath  string        `env:"PILOT_LOG_JSON_PATH"`
	ReadTimeout  time.Duration `env:"PILOT_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"PILOT_WRITE_TIMEOUT" envDefault:"10s"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Run assembles the engine and serves the telemetry feed until ctx ends.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	return RunWithConfig(ctx, cfg)
}

// RunWithConfig is Run with an explicit configuration, used by tests.
func RunWithConfig(ctx context.Context, cfg Config) error {
	router, err := buildRouter(cfg)
	if err != nil {
		return err
	}
	defer router.Close(context.Background())

	hub, err := buildHub(ctx, cfg, router)
	if err != nil {
		return err
	}
	defer hub.CloseAll()

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      newHandler(hub, cfg.StaleAfter),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

func buildRouter(cfg Config) (*logging.Router, error) {
	logCfg := logging.DefaultConfig()
	logCfg.EnabledSinks = cfg.LogSinks

	var sinks []logging.NamedSink
	if logCfg.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingsinks.NewConsole(os.Stdout)})
	}
	if logCfg.HasSink("json") {
		path := cfg.LogJSONPath
		if path == "" {
			return nil, errors.New("json sink enabled without PILOT_LOG_JSON_PATH")
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open json log: %w", err)
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingsinks.NewJSON(file, logCfg.JSON)})
	}
	return logging.NewRouter(logging.SystemClock{}, logCfg, sinks), nil
}

func buildHub(ctx context.Context, cfg Config, publisher logging.Publisher) (*engine.Hub, error) {
	resolver := engine.NewResolver()
	if cfg.CatalogPath != "" {
		defs, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		if err := registerCatalog(ctx, resolver, defs, publisher); err != nil {
			return nil, err
		}
	}
	return engine.NewHub(engine.HubConfig{
		Resolver:  resolver,
		Publisher: publisher,
	}), nil
}

func registerCatalog(ctx context.Context, resolver *engine.Resolver, defs *catalog.FileDefinitions, publisher logging.Publisher) error {
	if baseID, policy, ok := defs.FillerPolicy(); ok {
		if err := resolver.Register(baseID, engine.NewFillerHandler(policy)); err != nil {
			return fmt.Errorf("register filler handler: %w", err)
		}
		loggingresolution.HandlerRegistered(ctx, publisher, loggingresolution.HandlerRegisteredPayload{
			ActionID: uint32(baseID),
			Handler:  "filler",
		})
	}
	for baseID, table := range defs.VariantTables() {
		if resolver.Registered(baseID) {
			continue
		}
		if err := resolver.Register(baseID, table); err != nil {
			return fmt.Errorf("register variant table: %w", err)
		}
		loggingresolution.HandlerRegistered(ctx, publisher, loggingresolution.HandlerRegisteredPayload{
			ActionID: uint32(baseID),
			Handler:  "variants",
		})
	}
	return nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

type stateResponse struct {
	Tick  uint64               `json:"tick"`
	Stale bool                 `json:"stale"`
	State engine.StateSnapshot `json:"state"`
	Party int                  `json:"partyCount"`
}

func newHandler(hub *engine.Hub, staleAfter time.Duration) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Subscribe(conn)
	})
	mux.HandleFunc("/telemetry", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, hub.TelemetrySnapshot())
	})
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, stateResponse{
			Tick:  hub.CurrentTick(),
			Stale: hub.State().IsStale(staleAfter),
			State: hub.State().Snapshot(),
			Party: hub.Party().MemberCount(),
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
