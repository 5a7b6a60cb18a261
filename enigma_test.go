package enigma_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/enigma"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	m, err := enigma.New(enigma.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"})
	require.NoError(t, err)
	assert.Equal(t, "BDZGO", m.EncryptString("AAAAA"))
}

func TestNew_Hooks(t *testing.T) {
	steps := 0
	hooks := domain.Hooks{OnStep: func(*domain.StepEvent) { steps++ }}
	m, err := enigma.New(enigma.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"}, enigma.WithHooks(hooks))
	require.NoError(t, err)
	m.EncryptString("AB")
	assert.Equal(t, 2, steps)
}

func TestNew_TablesFile(t *testing.T) {
	_, err := enigma.New(enigma.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"},
		enigma.WithTablesFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)

	// A custom table set where every rotor shares the wiring of rotor I.
	var sb strings.Builder
	sb.WriteString("alphabet: ABCDEFGHIJKLMNOPQRSTUVWXYZ\nreflector: YRUHQSLDPXNGOKMIEBFZCWVJAT\nrotors:\n")
	for id := 1; id <= 5; id++ {
		sb.WriteString("  " + string(rune('0'+id)) + ":\n    wiring: EKMFLGDQVZNTOWYHXUSPAIBRCJ\n    notch: Q\n")
	}
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))

	settings := enigma.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"}
	custom, err := enigma.New(settings, enigma.WithTablesFile(path))
	require.NoError(t, err)
	classic, err := enigma.New(settings)
	require.NoError(t, err)

	cipher := custom.EncryptString("HELLOWORLD")
	assert.NotEqual(t, classic.EncryptString("HELLOWORLD"), cipher)

	custom.Reset()
	assert.Equal(t, "HELLOWORLD", custom.EncryptString(cipher))
}

func TestEncrypt_InvalidSettings(t *testing.T) {
	_, err := enigma.Encrypt(enigma.Settings{Rotors: []int{1}, Code: "A"}, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
