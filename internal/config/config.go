// Package config provides shared configuration loading from environment and
// defaults for all agents.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/driftsec/sentry/internal/types"
)

// GetEnv returns the value of key from the environment, or defaultValue if unset or empty.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return defaultValue
}

// GetEnvDuration returns the duration for key, or defaultValue if unset/invalid.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

// AgentConfig holds configuration shared by all agents.
type AgentConfig struct {
	AgentID   string
	AgentName string

	// Context store.
	RedisURL  string
	Namespace string

	// Poll interval bounds.
	MinInterval time.Duration
	MaxInterval time.Duration

	// HTTPAddr enables the health/metrics endpoint when non-empty.
	HTTPAddr string

	ShutdownTimeout time.Duration
}

// MonitorConfig holds configuration for a monitoring agent.
type MonitorConfig struct {
	AgentConfig
	Domain types.Domain

	// PolicyPath overrides the built-in classification policy when set.
	PolicyPath string
	// EventFile switches the agent from the sample feed to tailing a
	// JSON-lines file when set.
	EventFile string
}

// ResponderConfig holds configuration for the response agent.
type ResponderConfig struct {
	AgentConfig

	// ActionsPath overrides the built-in response catalog when set.
	ActionsPath string
	// Priority is the ordered "domain:label" context keys to inspect.
	Priority []string
}

func baseAgentConfig(defaultName string, minInterval, maxInterval time.Duration) AgentConfig {
	return AgentConfig{
		AgentID:         GetEnv("AGENT_ID", "0"),
		AgentName:       GetEnv("AGENT_NAME", defaultName),
		RedisURL:        GetEnv("REDIS_URL", "redis://localhost:6379"),
		Namespace:       GetEnv("CONTEXT_NAMESPACE", "mcp"),
		MinInterval:     GetEnvDuration("MIN_INTERVAL", minInterval),
		MaxInterval:     GetEnvDuration("MAX_INTERVAL", maxInterval),
		HTTPAddr:        GetEnv("HTTP_ADDR", ""),
		ShutdownTimeout: GetEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// DefaultLogAgentConfig returns the log monitoring agent config from environment.
func DefaultLogAgentConfig() MonitorConfig {
	return MonitorConfig{
		AgentConfig: baseAgentConfig("Log Parser", 20*time.Second, 40*time.Second),
		Domain:      types.DomainLog,
		PolicyPath:  GetEnv("POLICY_FILE", ""),
		EventFile:   GetEnv("EVENT_FILE", ""),
	}
}

// DefaultNetAgentConfig returns the network monitoring agent config from environment.
func DefaultNetAgentConfig() MonitorConfig {
	return MonitorConfig{
		AgentConfig: baseAgentConfig("Network Monitor", 30*time.Second, 60*time.Second),
		Domain:      types.DomainNetwork,
		PolicyPath:  GetEnv("POLICY_FILE", ""),
		EventFile:   GetEnv("EVENT_FILE", ""),
	}
}

// DefaultResponderConfig returns the response agent config from environment.
func DefaultResponderConfig() ResponderConfig {
	cfg := ResponderConfig{
		AgentConfig: baseAgentConfig("Response Agent", 45*time.Second, 75*time.Second),
		ActionsPath: GetEnv("ACTIONS_FILE", ""),
	}
	if raw := GetEnv("PRIORITY_CONTEXTS", ""); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cfg.Priority = append(cfg.Priority, part)
			}
		}
	}
	return cfg
}

// ParseContextKey splits a "domain:label" priority entry. The label may
// itself contain colons.
func ParseContextKey(s string) (types.Domain, string, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return types.Domain(parts[0]), parts[1], true
}
