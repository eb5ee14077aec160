package types

import "time"

// Snapshot is the latest published summary of one source's state, stored in
// the context store under a (domain, source label) key. Writes overwrite; the
// store never holds more than one snapshot per key.
//
// Exactly one of Log, Network, or Response is set. RiskLevel and Severity are
// present only on snapshots derived from monitoring events.
type Snapshot struct {
	Log      *LogEvent       `json:"log,omitempty"`
	Network  *NetworkEvent   `json:"event,omitempty"`
	Response *ResponseRecord `json:"response,omitempty"`

	RiskLevel *RiskLevel `json:"risk_level,omitempty"`
	Severity  *Severity  `json:"severity,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewEventSnapshot builds a snapshot for a monitoring event and its derived
// levels.
func NewEventSnapshot(ev Event, risk RiskLevel, sev Severity, at time.Time) *Snapshot {
	snap := &Snapshot{RiskLevel: &risk, Severity: &sev, Timestamp: at}
	switch e := ev.(type) {
	case *LogEvent:
		snap.Log = e
	case *NetworkEvent:
		snap.Network = e
	}
	return snap
}

// NewResponseSnapshot builds a snapshot recording a response action outcome.
func NewResponseSnapshot(rec *ResponseRecord, at time.Time) *Snapshot {
	return &Snapshot{Response: rec, Timestamp: at}
}
