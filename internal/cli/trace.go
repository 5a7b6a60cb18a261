package cli

import (
	"github.com/aretw0/enigma/internal/presentation/graph"
	"github.com/aretw0/enigma/pkg/alphabet"
	"github.com/aretw0/enigma/pkg/machine"
)

// Trace builds the machine described by opts and returns the Mermaid diagram
// of the path the given letter takes on the first key press.
func Trace(opts RunOptions, letter string, highlight string) (string, error) {
	l, err := alphabet.Parse(letter)
	if err != nil {
		return "", err
	}
	settings, err := BuildSettings(opts)
	if err != nil {
		return "", err
	}
	tables, err := LoadTables(opts.Tables)
	if err != nil {
		return "", err
	}
	m, err := machine.New(tables, settings)
	if err != nil {
		return "", err
	}
	hops, err := m.Trace(l.Rune())
	if err != nil {
		return "", err
	}
	var overlay *graph.PathOverlay
	if highlight != "" {
		overlay = &graph.PathOverlay{Highlight: highlight}
	}
	return graph.GenerateMermaid(hops, overlay), nil
}
