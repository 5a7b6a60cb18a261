package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/enigma/pkg/machine"
)

// PathOverlay marks the stage to highlight on the diagram.
type PathOverlay struct {
	Highlight string // Stage name, e.g. "reflector"
}

// GenerateMermaid produces a Mermaid flowchart of a letter's signal path.
// It applies semantic styling:
// - Input and output: ((Circle))
// - Reflector: {{Hexagon}}
// - Plugboard: [/Parallelogram/]
// - Rotors: [Rectangle]
// The way in runs top to bottom, the way back is drawn with dotted arrows.
func GenerateMermaid(hops []machine.Hop, overlay *PathOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	reflected := false
	for i, hop := range hops {
		id := fmt.Sprintf("s%d", i)

		opener, closer := "[", "]"
		switch {
		case hop.Stage == "input" || i == len(hops)-1:
			opener, closer = "((", "))"
		case hop.Stage == "reflector":
			opener, closer = "{{", "}}"
		case hop.Stage == "plugboard":
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s: %c\"%s\n", id, opener, sanitizeLabel(hop.Stage), hop.Letter, closer)

		if i > 0 {
			arrow := "-->"
			if reflected {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    s%d %s %s\n", i-1, arrow, id)
		}
		if hop.Stage == "reflector" {
			reflected = true
		}
	}

	if overlay != nil && overlay.Highlight != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high contrast regardless of theme
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for i, hop := range hops {
			if hop.Stage == overlay.Highlight {
				fmt.Fprintf(&sb, "    class s%d current;\n", i)
			}
		}
	}

	return sb.String()
}

func sanitizeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
