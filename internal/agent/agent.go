package agent

import (
	"fmt"
	"strings"
)

// Agent is a declarative role configuration. The pipeline turns it into the
// system prompt of every completion issued on the agent's behalf.
type Agent struct {
	Name      string
	Role      string
	Goal      string
	Backstory string
}

// SystemPrompt renders the agent definition into a system prompt.
func (a Agent) SystemPrompt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s. %s\n", a.Role, strings.TrimSpace(a.Backstory))
	fmt.Fprintf(&sb, "Your personal goal is: %s\n", a.Goal)
	sb.WriteString("Work only from the information you are given and answer with your final result, nothing else.")
	return sb.String()
}
