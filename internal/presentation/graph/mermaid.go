// Package graph renders a bot's routing table and dialogs as a Mermaid
// flowchart, for documentation and quick visual review of the wiring.
package graph

import (
	"fmt"
	"strings"
)

// DialogNode describes one registered dialog.
type DialogNode struct {
	Name  string
	Steps int
}

// TriggerEdge describes one routing rule.
type TriggerEdge struct {
	// Label is the trigger: the intent name or the pattern source.
	Label  string
	Dialog string
	Reset  bool
}

// GenerateMermaid produces Mermaid flowchart syntax for the bot's wiring.
// Triggers render as parallelograms, dialogs as subroutine boxes annotated
// with their step count. Reset triggers use dashed arrows from a shared
// reset node.
func GenerateMermaid(dialogs []DialogNode, triggers []TriggerEdge) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, d := range dialogs {
		safeID := sanitizeMermaidID(d.Name)
		fmt.Fprintf(&sb, "    %s[[\"%s (%d steps)\"]]\n", safeID, d.Name, d.Steps)
	}

	for i, tr := range triggers {
		trigID := fmt.Sprintf("trigger_%d", i)
		label := strings.ReplaceAll(tr.Label, "\"", "'")
		fmt.Fprintf(&sb, "    %s[/\"%s\"/]\n", trigID, label)

		arrow := "-->"
		if tr.Reset {
			arrow = "-. reset .->"
		}
		if tr.Dialog == "" {
			// Bare reset: back to idle.
			fmt.Fprintf(&sb, "    %s %s idle((idle))\n", trigID, arrow)
			continue
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", trigID, arrow, sanitizeMermaidID(tr.Dialog))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
