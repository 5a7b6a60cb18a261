package wiring_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/enigma/pkg/alphabet"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/wiring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HistoricalTables(t *testing.T) {
	tables := wiring.Default()
	require.Same(t, tables, wiring.Default(), "tables are loaded once")

	expected := map[int]struct {
		wiring string
		notch  rune
	}{
		1: {"EKMFLGDQVZNTOWYHXUSPAIBRCJ", 'Q'},
		2: {"AJDKSIRUXBLHWTMCQGZNPYFVOE", 'E'},
		3: {"BDFHJLCPRTXVZNYEIWGAKMUSQO", 'V'},
		4: {"ESOVPZJAYQUIRHGLBXNKCDTMWF", 'J'},
		5: {"VZBRGITYUPSDNHLXAWMJQOFECK", 'Z'},
	}

	rotors := tables.Rotors()
	require.Len(t, rotors, 5)
	for i, r := range rotors {
		assert.Equal(t, i+1, r.ID)
		assert.Equal(t, expected[r.ID].wiring, r.Wiring.String())
		assert.Equal(t, expected[r.ID].notch, r.Notch.Rune())
	}
	assert.Equal(t, "YRUHQSLDPXNGOKMIEBFZCWVJAT", tables.Reflector().String())
}

func TestReflector_NeverMapsLetterToItself(t *testing.T) {
	reflector := wiring.Default().Reflector()
	assert.True(t, reflector.IsInvolution())
	assert.Empty(t, reflector.FixedPoints())

	for i := 0; i < alphabet.Size; i++ {
		l := alphabet.Letter(i)
		assert.NotEqual(t, l, reflector.Map(l), "reflector maps %c onto itself", l.Rune())
		assert.Equal(t, l, reflector.Map(reflector.Map(l)))
	}
}

func TestPermutation_InverseLookup(t *testing.T) {
	for _, r := range wiring.Default().Rotors() {
		for i := 0; i < alphabet.Size; i++ {
			l := alphabet.Letter(i)
			assert.Equal(t, l, r.Wiring.Inverse(r.Wiring.Map(l)))
		}
	}
}

func TestParsePermutation_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		wiring string
	}{
		{"Too Short", "ABC"},
		{"Duplicate Letter", "AACDEFGHIJKLMNOPQRSTUVWXYZ"},
		{"Non Letter", "ABCDEFGHIJKLMNOPQRSTUVWXY1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wiring.ParsePermutation(tt.wiring)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestTables_UnknownRotor(t *testing.T) {
	_, err := wiring.Default().Rotor(6)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestParse_RejectsBadReflector(t *testing.T) {
	data := strings.Replace(validYAML, "YRUHQSLDPXNGOKMIEBFZCWVJAT", "ABCDEFGHIJKLMNOPQRSTUVWXYZ", 1)
	_, err := wiring.Parse([]byte(data))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	data = strings.Replace(validYAML, "YRUHQSLDPXNGOKMIEBFZCWVJAT", "BCDEFGHIJKLMNOPQRSTUVWXYZA", 1)
	_, err = wiring.Parse([]byte(data))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "a rotation is not an involution")
}

func TestParse_RejectsMissingRotor(t *testing.T) {
	data := strings.Replace(validYAML, "  5:\n    wiring: VZBRGITYUPSDNHLXAWMJQOFECK\n    notch: Z\n", "", 1)
	_, err := wiring.Parse([]byte(data))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoad_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "tables.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(validYAML), 0644))
	fromYAML, err := wiring.Load(yamlPath)
	require.NoError(t, err)

	jsonPath := filepath.Join(dir, "tables.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(validJSON), 0644))
	fromJSON, err := wiring.Load(jsonPath)
	require.NoError(t, err)

	assert.Equal(t, fromYAML.Reflector().String(), fromJSON.Reflector().String())
	assert.Equal(t, fromYAML.Rotors(), fromJSON.Rotors())

	_, err = wiring.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

const validYAML = `alphabet: ABCDEFGHIJKLMNOPQRSTUVWXYZ
reflector: YRUHQSLDPXNGOKMIEBFZCWVJAT
rotors:
  1:
    wiring: EKMFLGDQVZNTOWYHXUSPAIBRCJ
    notch: Q
  2:
    wiring: AJDKSIRUXBLHWTMCQGZNPYFVOE
    notch: E
  3:
    wiring: BDFHJLCPRTXVZNYEIWGAKMUSQO
    notch: V
  4:
    wiring: ESOVPZJAYQUIRHGLBXNKCDTMWF
    notch: J
  5:
    wiring: VZBRGITYUPSDNHLXAWMJQOFECK
    notch: Z
`

const validJSON = `{
  "alphabet": "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
  "reflector": "YRUHQSLDPXNGOKMIEBFZCWVJAT",
  "rotors": {
    "1": {"wiring": "EKMFLGDQVZNTOWYHXUSPAIBRCJ", "notch": "Q"},
    "2": {"wiring": "AJDKSIRUXBLHWTMCQGZNPYFVOE", "notch": "E"},
    "3": {"wiring": "BDFHJLCPRTXVZNYEIWGAKMUSQO", "notch": "V"},
    "4": {"wiring": "ESOVPZJAYQUIRHGLBXNKCDTMWF", "notch": "J"},
    "5": {"wiring": "VZBRGITYUPSDNHLXAWMJQOFECK", "notch": "Z"}
  }
}`
