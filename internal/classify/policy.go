// Package classify provides the risk classifier for log and network events,
// driven by an ordered, data-driven rule table.
package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/driftsec/sentry/internal/types"
)

// KeywordRule maps a lowercase substring pattern to a risk level. Matching is
// substring containment against the lowercased log message, not tokenized, so
// short patterns can over-match.
type KeywordRule struct {
	Pattern string
	Risk    types.RiskLevel
}

// Policy is the classification rule table. Keyword rules are evaluated in
// order; the first match wins.
type Policy struct {
	Keywords []KeywordRule

	// Network thresholds.
	SuspiciousPorts   map[int]bool
	MaliciousMarkers  []string
	ScanPortThreshold int
}

// DefaultPolicy returns the built-in rule table.
func DefaultPolicy() *Policy {
	p := &Policy{
		SuspiciousPorts:   map[int]bool{4444: true, 8888: true, 9999: true},
		MaliciousMarkers:  []string{"malware"},
		ScanPortThreshold: 10,
	}
	for _, kw := range []string{
		"malware", "attack", "breach", "compromise", "exploit", "hack",
		"backdoor", "trojan", "virus", "ransomware", "spyware", "rootkit",
		"command and control", "c2", "c&c", "reverse shell", "payload",
	} {
		p.Keywords = append(p.Keywords, KeywordRule{Pattern: kw, Risk: types.RiskHigh})
	}
	for _, kw := range []string{
		"failed login", "authentication failure", "brute force", "injection",
		"xss", "cross-site", "csrf", "unauthorized", "permission denied",
		"suspicious", "anomaly", "unusual", "irregular",
	} {
		p.Keywords = append(p.Keywords, KeywordRule{Pattern: kw, Risk: types.RiskMedium})
	}
	return p
}

// policyFile is the YAML representation of a Policy.
type policyFile struct {
	Keywords []struct {
		Pattern string `yaml:"pattern"`
		Risk    string `yaml:"risk"`
	} `yaml:"keywords"`
	Network struct {
		SuspiciousPorts   []int    `yaml:"suspicious_ports"`
		MaliciousMarkers  []string `yaml:"malicious_markers"`
		ScanPortThreshold int      `yaml:"scan_port_threshold"`
	} `yaml:"network"`
}

// LoadPolicy reads a rule table from a YAML file. Fields left empty in the
// file fall back to the built-in defaults.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	p := DefaultPolicy()
	if len(pf.Keywords) > 0 {
		p.Keywords = nil
		for _, kw := range pf.Keywords {
			risk, err := types.ParseRiskLevel(kw.Risk)
			if err != nil {
				return nil, fmt.Errorf("policy keyword %q: %w", kw.Pattern, err)
			}
			p.Keywords = append(p.Keywords, KeywordRule{Pattern: kw.Pattern, Risk: risk})
		}
	}
	if len(pf.Network.SuspiciousPorts) > 0 {
		p.SuspiciousPorts = make(map[int]bool, len(pf.Network.SuspiciousPorts))
		for _, port := range pf.Network.SuspiciousPorts {
			p.SuspiciousPorts[port] = true
		}
	}
	if len(pf.Network.MaliciousMarkers) > 0 {
		p.MaliciousMarkers = pf.Network.MaliciousMarkers
	}
	if pf.Network.ScanPortThreshold > 0 {
		p.ScanPortThreshold = pf.Network.ScanPortThreshold
	}
	return p, nil
}
