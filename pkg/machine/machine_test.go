package machine_test

import (
	"strings"
	"testing"

	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T, s domain.Settings, opts ...machine.Option) *machine.Machine {
	t.Helper()
	m, err := machine.New(nil, s, opts...)
	require.NoError(t, err)
	return m
}

func classic() domain.Settings {
	return domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"}
}

func TestEncrypt_ReferenceOutput(t *testing.T) {
	m := newMachine(t, classic())

	out, err := m.Encrypt("A")
	require.NoError(t, err)
	assert.Equal(t, "B", out)

	// Rotors I-II-III, reflector B, AAA: the well known AAAAA -> BDZGO vector.
	m.Reset()
	assert.Equal(t, "BDZGO", m.EncryptString("AAAAA"))
	assert.Equal(t, "AAF", m.Positions())
}

func TestEncrypt_Punctuation(t *testing.T) {
	m := newMachine(t, classic())
	out, err := m.Encrypt(".")
	require.NoError(t, err)
	assert.Equal(t, ".", out)
	assert.Equal(t, "AAA", m.Positions(), "non-letters do not step the rotors")

	assert.Equal(t, "B.", newMachine(t, classic()).EncryptString("A."))

	s := classic()
	s.DropPunctuation = true
	dropping := newMachine(t, s)

	out, err = dropping.Encrypt(".")
	require.NoError(t, err)
	assert.Equal(t, "", out)

	dropping.Reset()
	got := dropping.EncryptString("A.B")
	assert.Len(t, got, 2)
	assert.NotContains(t, got, ".")
}

func TestEncrypt_LetterIffLetter(t *testing.T) {
	m := newMachine(t, classic())
	for r := rune(0x20); r < 0x7f; r++ {
		out, ok := m.EncryptRune(r)
		require.True(t, ok)
		isLetter := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		outIsLetter := (out >= 'A' && out <= 'Z') || (out >= 'a' && out <= 'z')
		assert.Equal(t, isLetter, outIsLetter, "input %q -> %q", r, out)
		if !isLetter {
			assert.Equal(t, r, out)
		}
	}
}

func TestEncrypt_CasePreserved(t *testing.T) {
	upper := newMachine(t, classic())
	lower := newMachine(t, classic())

	plain := "THEQUICKBROWNFOXJUMPSOVERTHELAZYDOG"
	a := upper.EncryptString(plain)
	b := lower.EncryptString(strings.ToLower(plain))
	assert.Equal(t, strings.ToLower(a), b)

	mixed := newMachine(t, classic()).EncryptString("Hello World")
	assert.True(t, mixed[0] >= 'A' && mixed[0] <= 'Z')
	assert.True(t, mixed[1] >= 'a' && mixed[1] <= 'z')
	assert.Equal(t, byte(' '), mixed[5])
}

func TestEncrypt_NeverMapsLetterToItselfWithoutPlugboard(t *testing.T) {
	m := newMachine(t, classic())
	text := strings.Repeat("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 40)
	out := m.EncryptString(text)
	for i := range text {
		assert.NotEqual(t, text[i], out[i], "letter %d encrypted to itself", i)
	}
}

func TestEncrypt_Reciprocity(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.Settings
	}{
		{"Three Rotors", domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA"}},
		{"Five Rotors", domain.Settings{Rotors: []int{5, 4, 3, 2, 1}, Code: "qwert"}},
		{"Plugboard", domain.Settings{Rotors: []int{2, 4, 5}, Code: "XYZ", Plugboard: []string{"AB", "cd", "EZ"}}},
		{"Ring Offsets", domain.Settings{Rotors: []int{3, 1, 2}, Code: "MCK", RingOffsets: []int{1, 13, 26}}},
		{"Repeated Rotor", domain.Settings{Rotors: []int{1, 1, 1}, Code: "UUU"}},
	}

	plain := "Attack at dawn! Meet me by the old mill, bring 3 maps."
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := newMachine(t, tt.settings)
			receiver := newMachine(t, tt.settings)

			cipher := sender.EncryptString(plain)
			assert.NotEqual(t, plain, cipher)
			assert.Equal(t, plain, receiver.EncryptString(cipher))

			// Re-running the same instance needs a reset first.
			assert.NotEqual(t, plain, sender.EncryptString(cipher))
			sender.Reset()
			assert.Equal(t, plain, sender.EncryptString(cipher))
		})
	}
}

func TestStep_CascadeOverFullCycle(t *testing.T) {
	var advances [3]int
	hooks := domain.Hooks{
		OnStep: func(e *domain.StepEvent) {
			advances[e.Index]++
		},
	}
	m := newMachine(t, classic(), machine.WithHooks(hooks))
	rightmost := m.Rotors()[0]
	middle := m.Rotors()[1]
	start := rightmost.Position()

	for i := 0; i < 26; i++ {
		m.EncryptRune('A')
	}

	assert.Equal(t, start, rightmost.Position(), "26 steps bring the rightmost rotor back")
	assert.Equal(t, 26, advances[0])
	assert.Equal(t, 1, advances[1], "exactly one carry into the middle rotor")
	assert.Equal(t, 'B', middle.Position())
	assert.Equal(t, 0, advances[2])
}

func TestStep_CarryOnlyWhenLandingOnNotch(t *testing.T) {
	// Rotor III notches at V: moving U -> V carries, V -> W does not.
	m := newMachine(t, domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAU"})
	m.EncryptRune('X')
	assert.Equal(t, "ABV", m.Positions())
	m.EncryptRune('X')
	assert.Equal(t, "ABW", m.Positions())

	// Middle rotor II notches at E: the carry ripples through to the left rotor.
	m = newMachine(t, domain.Settings{Rotors: []int{1, 2, 3}, Code: "ADU"})
	m.EncryptRune('X')
	assert.Equal(t, "BEV", m.Positions())
}

func TestEncrypt_UsageErrorKeepsState(t *testing.T) {
	m := newMachine(t, classic())
	for _, bad := range []string{"", "AB", "hello"} {
		_, err := m.Encrypt(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
	assert.Equal(t, "AAA", m.Positions())
}

func TestNew_InvalidSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.Settings
		field    string
	}{
		{"Four Rotors", domain.Settings{Rotors: []int{1, 2, 3, 4}, Code: "AAAA"}, "rotors"},
		{"Unknown Rotor", domain.Settings{Rotors: []int{1, 2, 6}, Code: "AAA"}, "rotors[2]"},
		{"Short Code", domain.Settings{Rotors: []int{1, 2, 3}, Code: "AA"}, "code"},
		{"Non Letter Code", domain.Settings{Rotors: []int{1, 2, 3}, Code: "A1A"}, "code[1]"},
		{"Ring Out Of Range", domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA", RingOffsets: []int{0, 27, 0}}, "ring_offsets[1]"},
		{"Ring Count", domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA", RingOffsets: []int{1}}, "ring_offsets"},
		{"Plug Single Letter", domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA", Plugboard: []string{"A"}}, "plugboard[0]"},
		{"Plug Overlap", domain.Settings{Rotors: []int{1, 2, 3}, Code: "AAA", Plugboard: []string{"AB", "BC"}}, "plugboard[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := machine.New(nil, tt.settings)
			assert.Nil(t, m)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)

			var fields []string
			for _, e := range domain.ConfigErrors(err) {
				fields = append(fields, e.(*domain.ConfigError).Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestTrace_SignalPath(t *testing.T) {
	m := newMachine(t, classic())
	hops, err := m.Trace('A')
	require.NoError(t, err)

	var stages, letters []string
	for _, h := range hops {
		stages = append(stages, h.Stage)
		letters = append(letters, string(h.Letter))
	}
	assert.Equal(t, []string{
		"input", "plugboard",
		"rotor 3", "rotor 2", "rotor 1",
		"reflector",
		"rotor 1", "rotor 2", "rotor 3",
		"plugboard",
	}, stages)
	assert.Equal(t, "AACDFSSEBB", strings.Join(letters, ""))
	assert.Equal(t, "AAB", m.Positions())

	_, err = m.Trace('1')
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, "AAB", m.Positions())
}
