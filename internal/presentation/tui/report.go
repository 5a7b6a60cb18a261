package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/wiring"
)

var roman = map[int]string{1: "I", 2: "II", 3: "III", 4: "IV", 5: "V"}

// Report builds a markdown description of the wiring tables and, when sheet is
// not nil, of the key sheet that would be loaded into the machine.
func Report(tables *wiring.Tables, sheet *domain.KeySheet) string {
	var sb strings.Builder

	sb.WriteString("# Enigma\n\n## Rotors\n\n")
	sb.WriteString("| ID | Name | Wiring | Notch |\n|---|---|---|---|\n")
	for _, r := range tables.Rotors() {
		fmt.Fprintf(&sb, "| %d | %s | `%s` | %s |\n", r.ID, roman[r.ID], r.Wiring, r.Notch)
	}
	fmt.Fprintf(&sb, "\n## Reflector\n\n`%s`\n", tables.Reflector())

	if sheet == nil {
		return sb.String()
	}

	s := sheet.Settings.Normalized()
	name := sheet.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&sb, "\n## Key sheet: %s\n\n", name)

	names := make([]string, len(s.Rotors))
	for i, id := range s.Rotors {
		names[i] = roman[id]
	}
	fmt.Fprintf(&sb, "- **Rotors** (left to right): %s\n", strings.Join(names, " "))
	fmt.Fprintf(&sb, "- **Code**: `%s`\n", s.Code)
	if len(s.RingOffsets) > 0 {
		fmt.Fprintf(&sb, "- **Ring offsets**: %v\n", s.RingOffsets)
	}
	if len(s.Plugboard) > 0 {
		fmt.Fprintf(&sb, "- **Plugboard**: %s\n", strings.Join(s.Plugboard, " "))
	} else {
		sb.WriteString("- **Plugboard**: none\n")
	}
	punctuation := "kept"
	if s.DropPunctuation {
		punctuation = "dropped"
	}
	fmt.Fprintf(&sb, "- **Punctuation**: %s\n", punctuation)
	return sb.String()
}
