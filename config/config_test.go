package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `server:
  address: ":9000"
  timezone: "Europe/Paris"
predictor:
  seed: 42
  reference_route: "route-2"
  routes:
    route-9:
      weight: 0.9
      base_travel_time: 40
client:
  url: "https://example.com/functions/v1/predict-traffic"
  token: "anon"
  oauth:
    client_id: "cli"
metrics:
  prometheus_address: ":9102"
  sinks:
    - type: "nop"
logging:
  level: "debug"
  suppress:
    - "Google Maps"
sentry:
  environment: "test"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"server.address", cfg.Server.Address, ":9000"},
		{"server.timezone", cfg.Server.Timezone, "Europe/Paris"},
		{"server.read_timeout", cfg.Server.ReadTimeoutSeconds, 10},
		{"predictor.seed", cfg.Predictor.Seed, uint64(42)},
		{"predictor.reference_route", cfg.Predictor.ReferenceRoute, "route-2"},
		{"predictor.routes.weight", cfg.Predictor.Routes["route-9"].Weight, 0.9},
		{"predictor.routes.base", cfg.Predictor.Routes["route-9"].BaseTravelTime, 40},
		{"client.url", cfg.Client.URL, "https://example.com/functions/v1/predict-traffic"},
		{"client.token", cfg.Client.Token, "anon"},
		{"client.oauth.client_id", cfg.Client.OAuth.ClientID, "cli"},
		{"client.timeout", cfg.Client.TimeoutSeconds, 10},
		{"metrics.prometheus_address", cfg.Metrics.PrometheusAddress, ":9102"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.format", cfg.Logging.Format, "json"},
		{"logging.suppress", len(cfg.Logging.Suppress), 1},
		{"sentry.environment", cfg.Sentry.Environment, "test"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	table := cfg.Predictor.RouteTable()
	assert.Equal(t, 0.9, table.Weight("route-9"))
	assert.Equal(t, 0.7, table.Weight("route-1"))
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "route-1", cfg.Predictor.ReferenceRoute)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_SERVER__ADDRESS", ":7000")
	path := writeConfig(t, "config.json", `{"server":{"address":":9000"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Address)
}

func TestLoadNestedEnvOverrideWithoutFile(t *testing.T) {
	t.Setenv("K_CLIENT__TIMEOUT_SECONDS", "3")
	t.Setenv("K_PREDICTOR__REFERENCE_ROUTE", "route-3")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Client.TimeoutSeconds)
	assert.Equal(t, "route-3", cfg.Predictor.ReferenceRoute)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"weight":   "predictor:\n  routes:\n    r:\n      weight: 1.5\n      base_travel_time: 10\n",
		"base":     "predictor:\n  routes:\n    r:\n      weight: 0.5\n",
		"timezone": "server:\n  timezone: \"Mars/Olympus\"\n",
		"level":    "logging:\n  level: \"loud\"\n",
		"format":   "logging:\n  format: \"xml\"\n",
		"url":      "client:\n  url: \"ftp://example.com\"\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}
}

func TestPredictorSource(t *testing.T) {
	a := PredictorConfig{Seed: 5}.Source()
	b := PredictorConfig{Seed: 5}.Source()
	assert.Equal(t, a.Float64(), b.Float64())
}
