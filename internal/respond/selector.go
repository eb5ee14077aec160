package respond

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/driftsec/sentry/internal/types"
)

// Selection is a chosen action with its rendering parameters.
type Selection struct {
	Action types.ResponseAction
	Params map[string]string
}

// Selector matches a threat context snapshot against an ordered rule table
// and picks an action. Selection is deterministic: the first matching rule
// wins.
type Selector struct {
	byName map[string]types.ResponseAction
}

// NewSelector builds a selector over the catalog. The catalog must contain
// every action referenced by the rule table.
func NewSelector(catalog []types.ResponseAction) (*Selector, error) {
	byName := make(map[string]types.ResponseAction, len(catalog))
	for _, a := range catalog {
		byName[a.Name] = a
	}
	for _, required := range []string{
		ActionBlockIP, ActionIsolateEndpoint, ActionResetCredentials,
		ActionBackupData, ActionFirewallRule,
	} {
		if _, ok := byName[required]; !ok {
			return nil, fmt.Errorf("catalog missing action %q", required)
		}
	}
	return &Selector{byName: byName}, nil
}

// Select picks the action for the snapshot. A nil snapshot, or one matching
// no rule, yields the default backup action.
func (s *Selector) Select(snap *types.Snapshot) Selection {
	if snap != nil {
		if snap.Network != nil {
			if sel, ok := s.selectNetwork(snap.Network); ok {
				return sel
			}
		}
		if snap.Log != nil {
			if sel, ok := s.selectLog(snap.Log); ok {
				return sel
			}
		}
	}
	return Selection{
		Action: s.byName[ActionBackupData],
		Params: map[string]string{"source": "/var/critical", "backup_location": "/backup"},
	}
}

func (s *Selector) selectNetwork(e *types.NetworkEvent) (Selection, bool) {
	switch {
	case e.Kind == types.NetworkConnection && e.Source != "":
		return Selection{
			Action: s.byName[ActionBlockIP],
			Params: map[string]string{"ip": e.Source},
		}, true
	case e.Kind == types.NetworkTraffic && e.Destination != "" && e.Port > 0:
		return Selection{
			Action: s.byName[ActionFirewallRule],
			Params: map[string]string{"ip": e.Destination, "port": strconv.Itoa(e.Port)},
		}, true
	}
	return Selection{}, false
}

func (s *Selector) selectLog(e *types.LogEvent) (Selection, bool) {
	message := strings.ToLower(e.Message)
	switch {
	case strings.Contains(message, "failed login") && strings.Contains(message, "user"):
		// Username extraction from the raw message is a known gap; a
		// placeholder account is expired instead.
		return Selection{
			Action: s.byName[ActionResetCredentials],
			Params: map[string]string{"username": "compromised_user"},
		}, true
	case strings.Contains(message, "malware"):
		return Selection{
			Action: s.byName[ActionIsolateEndpoint],
			Params: map[string]string{"interface": "eth0"},
		}, true
	}
	return Selection{}, false
}
