package respond

import (
	"fmt"
	"strings"
)

// Render substitutes the named placeholders in the action's command template.
// It fails without partial output when any required parameter is missing, and
// fails deterministically: the same inputs always produce the same result.
func Render(action Selection) (string, error) {
	var missing []string
	for _, req := range action.Action.Requires {
		if _, ok := action.Params[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("action %q missing required params: %s",
			action.Action.Name, strings.Join(missing, ", "))
	}

	command := action.Action.Command
	for name, value := range action.Params {
		command = strings.ReplaceAll(command, "{"+name+"}", value)
	}
	return command, nil
}
