package config

import (
	"testing"
	"time"

	"github.com/driftsec/sentry/internal/types"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("SENTRY_TEST_KEY", "  value  ")
	if got := GetEnv("SENTRY_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("GetEnv = %q, want trimmed value", got)
	}
	if got := GetEnv("SENTRY_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q, want fallback", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("SENTRY_TEST_DUR", "45s")
	if got := GetEnvDuration("SENTRY_TEST_DUR", time.Second); got != 45*time.Second {
		t.Errorf("GetEnvDuration = %v", got)
	}
	t.Setenv("SENTRY_TEST_DUR", "not-a-duration")
	if got := GetEnvDuration("SENTRY_TEST_DUR", time.Second); got != time.Second {
		t.Errorf("invalid duration should fall back, got %v", got)
	}
	if got := GetEnvDuration("SENTRY_TEST_DUR_MISSING", 3*time.Second); got != 3*time.Second {
		t.Errorf("missing key should fall back, got %v", got)
	}
}

func TestDefaultLogAgentConfig(t *testing.T) {
	cfg := DefaultLogAgentConfig()
	if cfg.AgentName != "Log Parser" {
		t.Errorf("AgentName = %q", cfg.AgentName)
	}
	if cfg.Domain != types.DomainLog {
		t.Errorf("Domain = %q", cfg.Domain)
	}
	if cfg.RedisURL != "redis://localhost:6379" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.Namespace != "mcp" {
		t.Errorf("Namespace = %q", cfg.Namespace)
	}
	if cfg.MinInterval != 20*time.Second || cfg.MaxInterval != 40*time.Second {
		t.Errorf("intervals = %v, %v", cfg.MinInterval, cfg.MaxInterval)
	}
	if cfg.HTTPAddr != "" {
		t.Errorf("HTTPAddr should default to disabled, got %q", cfg.HTTPAddr)
	}
}

func TestDefaultNetAgentConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AGENT_NAME", "Net Sensor 3")
	t.Setenv("MIN_INTERVAL", "5s")
	t.Setenv("MAX_INTERVAL", "10s")
	t.Setenv("EVENT_FILE", "/var/log/net.jsonl")
	t.Setenv("CONTEXT_NAMESPACE", "prod")

	cfg := DefaultNetAgentConfig()
	if cfg.AgentName != "Net Sensor 3" {
		t.Errorf("AgentName = %q", cfg.AgentName)
	}
	if cfg.Domain != types.DomainNetwork {
		t.Errorf("Domain = %q", cfg.Domain)
	}
	if cfg.MinInterval != 5*time.Second || cfg.MaxInterval != 10*time.Second {
		t.Errorf("intervals = %v, %v", cfg.MinInterval, cfg.MaxInterval)
	}
	if cfg.EventFile != "/var/log/net.jsonl" {
		t.Errorf("EventFile = %q", cfg.EventFile)
	}
	if cfg.Namespace != "prod" {
		t.Errorf("Namespace = %q", cfg.Namespace)
	}
}

func TestDefaultResponderConfig_Priority(t *testing.T) {
	cfg := DefaultResponderConfig()
	if cfg.AgentName != "Response Agent" {
		t.Errorf("AgentName = %q", cfg.AgentName)
	}
	if len(cfg.Priority) != 0 {
		t.Errorf("Priority should default to empty, got %v", cfg.Priority)
	}

	t.Setenv("PRIORITY_CONTEXTS", "network:connection, log:Auth Logs, ,network:traffic")
	cfg = DefaultResponderConfig()
	want := []string{"network:connection", "log:Auth Logs", "network:traffic"}
	if len(cfg.Priority) != len(want) {
		t.Fatalf("Priority = %v, want %v", cfg.Priority, want)
	}
	for i := range want {
		if cfg.Priority[i] != want[i] {
			t.Errorf("Priority[%d] = %q, want %q", i, cfg.Priority[i], want[i])
		}
	}
}

func TestParseContextKey(t *testing.T) {
	tests := []struct {
		in     string
		domain types.Domain
		label  string
		ok     bool
	}{
		{"network:connection", types.DomainNetwork, "connection", true},
		{"log:Auth Logs", types.DomainLog, "Auth Logs", true},
		{"log:odd:label", types.DomainLog, "odd:label", true},
		{"nolabel", "", "", false},
		{":connection", "", "", false},
		{"log:", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		domain, label, ok := ParseContextKey(tt.in)
		if ok != tt.ok || domain != tt.domain || label != tt.label {
			t.Errorf("ParseContextKey(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, domain, label, ok, tt.domain, tt.label, tt.ok)
		}
	}
}
