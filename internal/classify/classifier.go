package classify

import (
	"strings"

	"github.com/driftsec/sentry/internal/types"
)

// Classifier maps a normalized event to a risk level. Classification is pure
// and deterministic given event content and the loaded policy.
type Classifier struct {
	policy *Policy
}

// New creates a classifier. A nil policy uses the built-in defaults.
func New(policy *Policy) *Classifier {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Classifier{policy: policy}
}

// Classify returns the risk level for the event.
func (c *Classifier) Classify(ev types.Event) types.RiskLevel {
	switch e := ev.(type) {
	case *types.LogEvent:
		return c.classifyLog(e)
	case *types.NetworkEvent:
		return c.classifyNetwork(e)
	default:
		return types.RiskLow
	}
}

func (c *Classifier) classifyLog(e *types.LogEvent) types.RiskLevel {
	message := strings.ToLower(e.Message)
	for _, rule := range c.policy.Keywords {
		if strings.Contains(message, rule.Pattern) {
			return rule.Risk
		}
	}
	return types.RiskLow
}

func (c *Classifier) classifyNetwork(e *types.NetworkEvent) types.RiskLevel {
	details := strings.ToLower(e.Details)
	destination := strings.ToLower(e.Destination)

	switch e.Kind {
	case types.NetworkConnection:
		if !strings.Contains(details, "failed") {
			return types.RiskLow
		}
		// Repeated-attempt wording escalates a failed connection.
		if strings.Contains(details, "multiple") || strings.Contains(details, "brute") {
			return types.RiskHigh
		}
		return types.RiskMedium

	case types.NetworkScan:
		if len(e.Ports) > c.policy.ScanPortThreshold {
			return types.RiskHigh
		}
		return types.RiskMedium

	case types.NetworkTraffic:
		if !c.policy.SuspiciousPorts[e.Port] {
			return types.RiskLow
		}
		if c.hasMaliciousMarker(destination) {
			return types.RiskCritical
		}
		return types.RiskHigh

	case types.NetworkDNS:
		if c.hasMaliciousMarker(destination) {
			return types.RiskCritical
		}
		return types.RiskLow

	default:
		return types.RiskLow
	}
}

func (c *Classifier) hasMaliciousMarker(destination string) bool {
	for _, marker := range c.policy.MaliciousMarkers {
		if strings.Contains(destination, marker) {
			return true
		}
	}
	return false
}
