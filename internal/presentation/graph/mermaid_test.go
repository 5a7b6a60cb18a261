package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/enigma/internal/presentation/graph"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trace(t *testing.T) []machine.Hop {
	t.Helper()
	m, err := machine.New(nil, domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA", Plugboard: []string{"AZ"}})
	require.NoError(t, err)
	hops, err := m.Trace('A')
	require.NoError(t, err)
	return hops
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(trace(t), nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `s0(("input: A"))`)
	assert.Contains(t, out, `s1[/"plugboard: Z"/]`)
	assert.Contains(t, out, `s2["rotor 3:`)
	assert.Contains(t, out, `s5{{"reflector:`)
	assert.Contains(t, out, "s0 --> s1")
	assert.Contains(t, out, "s5 -.-> s6", "the way back is dotted")
	assert.Contains(t, out, `s9((`)
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(trace(t), &graph.PathOverlay{Highlight: "plugboard"})

	assert.Contains(t, out, "classDef current")
	assert.Contains(t, out, "class s1 current;")
	assert.Contains(t, out, "class s9 current;")
	assert.NotContains(t, out, "class s5 current;")
}
