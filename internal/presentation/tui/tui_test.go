package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/wiring"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	out := Report(wiring.Default(), nil)
	assert.Contains(t, out, "| 1 | I | `EKMFLGDQVZNTOWYHXUSPAIBRCJ` | Q |")
	assert.Contains(t, out, "| 5 | V | `VZBRGITYUPSDNHLXAWMJQOFECK` | Z |")
	assert.Contains(t, out, "`YRUHQSLDPXNGOKMIEBFZCWVJAT`")
	assert.NotContains(t, out, "Key sheet")

	sheet := &domain.KeySheet{
		Name:     "daily",
		Settings: domain.Settings{Rotors: []int{5, 1, 3}, Code: "xyz", Plugboard: []string{"ab"}, DropPunctuation: true},
	}
	out = Report(wiring.Default(), sheet)
	assert.Contains(t, out, "## Key sheet: daily")
	assert.Contains(t, out, "V I III")
	assert.Contains(t, out, "`XYZ`")
	assert.Contains(t, out, "**Plugboard**: AB")
	assert.Contains(t, out, "**Punctuation**: dropped")
}

func TestCipherRenderer(t *testing.T) {
	plain, err := NewCipherRenderer(termenv.Ascii)("BDZGO")
	require.NoError(t, err)
	assert.Equal(t, "BDZGO", plain)

	colored, err := NewCipherRenderer(termenv.TrueColor)("BDZGO")
	require.NoError(t, err)
	assert.Contains(t, colored, "BDZGO")
	assert.Contains(t, colored, "\x1b[")
}

func TestRenderer(t *testing.T) {
	out, err := NewRenderer(80)("# Rotors")
	require.NoError(t, err)
	assert.Contains(t, out, "Rotors")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_____|_|")
}

func TestRotorWindow(t *testing.T) {
	out := RotorWindow([]int{1, 2, 3}, "AQZ")
	for _, want := range []string{"I", "II", "III", "A", "Q", "Z", "╭"} {
		assert.Contains(t, out, want)
	}
	assert.Len(t, strings.Split(out, "\n"), 4)

	// Missing positions show a placeholder.
	assert.Contains(t, RotorWindow([]int{4, 5}, "B"), "?")
}
