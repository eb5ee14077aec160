// Package respond selects and renders remedial actions from the latest
// context snapshots.
package respond

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/driftsec/sentry/internal/types"
)

// Canonical action names referenced by the selection rules.
const (
	ActionBlockIP          = "Block Malicious IP"
	ActionIsolateEndpoint  = "Isolate Compromised Endpoint"
	ActionResetCredentials = "Reset Compromised Credentials"
	ActionBackupData       = "Backup Critical Data"
	ActionFirewallRule     = "Update Firewall Rules"
)

// DefaultCatalog returns the built-in response action catalog.
func DefaultCatalog() []types.ResponseAction {
	return []types.ResponseAction{
		{
			Name:        ActionBlockIP,
			Command:     "iptables -A INPUT -s {ip} -j DROP",
			Description: "Block incoming traffic from malicious IP",
			Requires:    []string{"ip"},
		},
		{
			Name:        ActionIsolateEndpoint,
			Command:     "networkctl isolate {interface}",
			Description: "Isolate a compromised endpoint from the network",
			Requires:    []string{"interface"},
		},
		{
			Name:        ActionResetCredentials,
			Command:     "passwd --expire {username}",
			Description: "Force password reset for compromised user account",
			Requires:    []string{"username"},
		},
		{
			Name:        ActionBackupData,
			Command:     "rsync -az {source} {backup_location}",
			Description: "Backup critical data to secure location",
			Requires:    []string{"source", "backup_location"},
		},
		{
			Name:        ActionFirewallRule,
			Command:     "ufw deny from {ip} to any port {port}",
			Description: "Update firewall to block traffic on specific port",
			Requires:    []string{"ip", "port"},
		},
	}
}

// LoadCatalog reads a response action catalog from a YAML file.
func LoadCatalog(path string) ([]types.ResponseAction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var actions []types.ResponseAction
	if err := yaml.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, a := range actions {
		if a.Name == "" || a.Command == "" {
			return nil, fmt.Errorf("catalog entry missing name or command")
		}
	}
	return actions, nil
}
