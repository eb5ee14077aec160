// Package escalate turns classified events into alerts and incidents.
package escalate

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/driftsec/sentry/internal/types"
)

// Engine derives alert severity from the computed risk level and the event's
// native level, and decides when an incident is warranted.
type Engine struct{}

// NewEngine creates an escalation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// SeverityFor derives the alert severity. The event's native level can force
// severity to critical but never downgrades the computed risk.
func (e *Engine) SeverityFor(ev types.Event, risk types.RiskLevel) types.Severity {
	sev := types.SeverityFromRisk(risk)
	if le, ok := ev.(*types.LogEvent); ok {
		if types.NormalizeLogLevel(le.Level) == "critical" {
			sev = types.SeverityCritical
		}
	}
	return sev
}

// Escalate returns the alert and incident for the event, either of which may
// be nil. No alert is raised at low risk; an incident is raised only when the
// derived severity is high or critical.
func (e *Engine) Escalate(ev types.Event, risk types.RiskLevel) (*types.Alert, *types.Incident) {
	if risk == types.RiskLow {
		return nil, nil
	}

	sev := e.SeverityFor(ev, risk)
	alert := &types.Alert{
		ID:          uuid.NewString(),
		Severity:    sev,
		Title:       alertTitle(ev),
		Description: alertDescription(ev),
		Timestamp:   ev.OccurredAt(),
		Event:       ev,
	}

	if sev < types.SeverityHigh {
		return alert, nil
	}
	incident := &types.Incident{
		ID:        uuid.NewString(),
		Type:      incidentType(ev),
		RiskLevel: risk,
		Timestamp: ev.OccurredAt(),
		Event:     ev,
	}
	return alert, incident
}

func alertTitle(ev types.Event) string {
	switch e := ev.(type) {
	case *types.LogEvent:
		return fmt.Sprintf("Log Alert: %s", e.Source)
	case *types.NetworkEvent:
		return fmt.Sprintf("Network %s Alert", strings.ToUpper(string(e.Kind)))
	default:
		return "Security Alert"
	}
}

func alertDescription(ev types.Event) string {
	switch e := ev.(type) {
	case *types.LogEvent:
		return e.Message
	case *types.NetworkEvent:
		return fmt.Sprintf("%s from %s to %s", e.Details, e.Source, e.Destination)
	default:
		return ""
	}
}

func incidentType(ev types.Event) string {
	switch e := ev.(type) {
	case *types.LogEvent:
		return e.Details
	case *types.NetworkEvent:
		return fmt.Sprintf("Network %s", strings.ToUpper(string(e.Kind)))
	default:
		return "Unknown"
	}
}
