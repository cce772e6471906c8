package core

import (
	"fmt"
	"strings"
)

// BuildPrompt renders an agent definition plus a context snapshot into the
// system and user prompt pair sent to a Backend. It is pure and deterministic:
// the same agent and snapshot always produce identical text.
//
// The system prompt frames the agent's role and goal as an instruction. The
// user prompt carries the original user input followed by one block per prior
// timeline record, in timeline order. No truncation or summarization is
// applied; prompt growth across long runs is an accepted cost.
func BuildPrompt(agent Agent, snap Snapshot) (system, user string) {
	var sys strings.Builder
	fmt.Fprintf(&sys, "You are %s.\n", agent.Role)
	fmt.Fprintf(&sys, "Your goal: %s\n", agent.Goal)
	sys.WriteString("Work from the task and any prior agent outputs provided. Respond with your contribution only.")

	var usr strings.Builder
	fmt.Fprintf(&usr, "Task: %s", snap.UserInput)
	if len(snap.Timeline) > 0 {
		usr.WriteString("\n\nPrior agent outputs:")
		for _, rec := range snap.Timeline {
			fmt.Fprintf(&usr, "\n\n%s (%s): %s", rec.Role, rec.AgentID, rec.Output)
		}
	}

	return sys.String(), usr.String()
}
