// Package types defines the shared data model for events, alerts, incidents,
// and context snapshots used across the monitoring and response agents.
package types

import "time"

// Domain is the event family a snapshot or broadcast channel belongs to.
type Domain string

const (
	DomainLog      Domain = "log"
	DomainNetwork  Domain = "network"
	DomainResponse Domain = "response"
)

// NetworkKind is the category of an observed network event.
type NetworkKind string

const (
	NetworkConnection NetworkKind = "connection"
	NetworkScan       NetworkKind = "scan"
	NetworkTraffic    NetworkKind = "traffic"
	NetworkDNS        NetworkKind = "dns"
)

// Event is a normalized security event. Exactly two concrete variants exist:
// LogEvent and NetworkEvent.
type Event interface {
	// Domain returns the event family (log or network).
	Domain() Domain
	// SourceLabel is the label a derived context snapshot is keyed under.
	SourceLabel() string
	// OccurredAt is when the event was observed.
	OccurredAt() time.Time

	isEvent()
}

// LogEvent is a parsed log line from an authentication or application log source.
type LogEvent struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *LogEvent) Domain() Domain        { return DomainLog }
func (e *LogEvent) SourceLabel() string   { return e.Source }
func (e *LogEvent) OccurredAt() time.Time { return e.Timestamp }
func (*LogEvent) isEvent()                {}

// NetworkEvent is an observed network flow, scan, or DNS lookup.
// Port is zero when the event carries no single port; Ports is set only for
// scan events.
type NetworkEvent struct {
	Kind        NetworkKind `json:"type"`
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
	Port        int         `json:"port,omitempty"`
	Ports       []int       `json:"ports,omitempty"`
	Protocol    string      `json:"protocol"`
	Details     string      `json:"details"`
	Timestamp   time.Time   `json:"timestamp"`
}

func (e *NetworkEvent) Domain() Domain        { return DomainNetwork }
func (e *NetworkEvent) SourceLabel() string   { return string(e.Kind) }
func (e *NetworkEvent) OccurredAt() time.Time { return e.Timestamp }
func (*NetworkEvent) isEvent()                {}
