package types

import "time"

// Alert is raised when an event classifies above low risk.
type Alert struct {
	ID          string    `json:"id"`
	Severity    Severity  `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`

	// Event is the originating event, carried for sink metadata.
	Event Event `json:"-"`
}

// Incident is raised for alerts of high or critical severity. Every incident
// has exactly one originating alert.
type Incident struct {
	ID        string    `json:"id"`
	Type      string    `json:"incident_type"`
	RiskLevel RiskLevel `json:"risk_level"`
	Timestamp time.Time `json:"timestamp"`

	Event Event `json:"-"`
}

// ResponseAction is a catalog entry describing one parametrized remedial
// command template. The catalog is loaded once at startup and never mutated.
type ResponseAction struct {
	Name        string   `yaml:"name" json:"name"`
	Command     string   `yaml:"command" json:"command"`
	Description string   `yaml:"description" json:"description"`
	Requires    []string `yaml:"requires" json:"requires"`
}

// ResponseRecord is the outcome of one response selection, written back to
// the context store under the response domain.
type ResponseRecord struct {
	Action    string    `json:"action"`
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
	Succeeded bool      `json:"successful"`
}
