package machine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/enigma/internal/logging"
	"github.com/aretw0/enigma/pkg/alphabet"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/wiring"
)

// Machine assembles the rotor chain, the reflector and the plugboard.
// It is a stateful odometer owned by a single caller: it is not safe for
// concurrent use, see the session package for shared access.
type Machine struct {
	rotors    []*Rotor // rightmost first
	reflector *Reflector
	plugboard *Plugboard
	settings  domain.Settings

	hooks  domain.Hooks
	logger *slog.Logger
}

// Option defines a functional option for configuring the Machine.
type Option func(*Machine)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(m *Machine) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// WithLogger sets a structured logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New validates the settings and builds a machine from the tables.
// Any invalid parameter fails the whole construction; no partial machine is returned.
func New(tables *wiring.Tables, s domain.Settings, opts ...Option) (*Machine, error) {
	if tables == nil {
		tables = wiring.Default()
	}
	s = s.Normalized()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	m := &Machine{
		rotors:    make([]*Rotor, len(s.Rotors)),
		reflector: NewReflector(tables),
		settings:  s,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	code := []rune(s.Code)
	last := len(s.Rotors) - 1
	// Settings list rotors leftmost first; the chain is stored rightmost first.
	for i, id := range s.Rotors {
		ring := 0
		if len(s.RingOffsets) > 0 {
			ring = s.RingOffsets[i]
		}
		r, err := NewRotor(tables, id, string(code[i]), ring)
		if err != nil {
			return nil, err
		}
		m.rotors[last-i] = r
	}

	pb, err := NewPlugboard(s.Plugboard)
	if err != nil {
		return nil, err
	}
	m.plugboard = pb

	m.logger.Debug("Machine assembled",
		"rotors", s.Rotors,
		"code", s.Code,
		"plugboard", s.Plugboard,
		"drop_punctuation", s.DropPunctuation,
	)
	return m, nil
}

// Settings returns the (normalized) settings the machine was built from.
func (m *Machine) Settings() domain.Settings {
	return m.settings.Normalized()
}

// Rotors returns the rotor chain, rightmost first.
func (m *Machine) Rotors() []*Rotor {
	return append([]*Rotor(nil), m.rotors...)
}

// Plugboard returns the plugboard.
func (m *Machine) Plugboard() *Plugboard {
	return m.plugboard
}

// Positions returns the letters shown in the windows, leftmost first.
func (m *Machine) Positions() string {
	var b strings.Builder
	for i := len(m.rotors) - 1; i >= 0; i-- {
		b.WriteRune(m.rotors[i].Position())
	}
	return b.String()
}

// Reset puts every rotor back on its starting letter.
func (m *Machine) Reset() {
	for _, r := range m.rotors {
		r.reset()
	}
	m.logger.Debug("Machine reset", "positions", m.Positions())
}

// step advances the rightmost rotor and carries leftwards while the rotor
// that just moved sits on its notch.
func (m *Machine) step() {
	for i, r := range m.rotors {
		carry := r.Step()
		if m.hooks.OnStep != nil {
			m.hooks.OnStep(&domain.StepEvent{
				Type:     domain.EventStep,
				Index:    i,
				RotorID:  r.id,
				Position: r.Position(),
				Carry:    carry && i < len(m.rotors)-1,
			})
		}
		if !carry {
			return
		}
	}
}

// EncryptRune processes one character. For non-letters it returns the character
// itself when punctuation is retained, or ok == false when it is dropped.
func (m *Machine) EncryptRune(in rune) (out rune, ok bool) {
	if !alphabet.IsLetter(in) {
		dropped := m.settings.DropPunctuation
		if m.hooks.OnEncrypt != nil {
			m.hooks.OnEncrypt(&domain.EncryptEvent{Type: domain.EventEncrypt, Input: in, Dropped: dropped, Bypass: !dropped})
		}
		if dropped {
			return 0, false
		}
		return in, true
	}

	out = m.encipher(in, nil)

	if m.hooks.OnEncrypt != nil {
		m.hooks.OnEncrypt(&domain.EncryptEvent{Type: domain.EventEncrypt, Input: in, Output: out})
	}
	return out, true
}

// encipher steps the rotors and sends a letter through the whole chain.
// record, when set, receives the letter after every stage; rotor is 0 for
// stages that are not rotors.
func (m *Machine) encipher(in rune, record func(stage string, rotor int, l alphabet.Letter)) rune {
	if record == nil {
		record = func(string, int, alphabet.Letter) {}
	}
	record("input", 0, alphabet.MustFromRune(in))
	l := alphabet.MustFromRune(m.plugboard.Swap(in))
	record("plugboard", 0, l)
	m.step()
	for _, r := range m.rotors {
		l = r.forward(l)
		record("rotor", r.id, l)
	}
	l = m.reflector.wiring.Map(l)
	record("reflector", 0, l)
	for i := len(m.rotors) - 1; i >= 0; i-- {
		l = m.rotors[i].backward(l)
		record("rotor", m.rotors[i].id, l)
	}
	out := m.plugboard.Swap(alphabet.Apply(in, l))
	record("plugboard", 0, alphabet.MustFromRune(out))
	return out
}

// Hop is the letter seen after one stage of the signal path.
type Hop struct {
	Stage  string `json:"stage"`
	Letter rune   `json:"letter"`
}

// Trace encrypts one letter like EncryptRune and also returns the path it took:
// input, plugboard, every rotor rightmost first, the reflector, every rotor
// on the way back, and the plugboard again.
// Non-letters are rejected with a usage error and do not step the rotors.
func (m *Machine) Trace(in rune) ([]Hop, error) {
	if !alphabet.IsLetter(in) {
		return nil, domain.Invalid("only letters can be traced, got %q", in)
	}
	var hops []Hop
	out := m.encipher(in, func(stage string, rotor int, l alphabet.Letter) {
		if rotor != 0 {
			stage = fmt.Sprintf("%s %d", stage, rotor)
		}
		hops = append(hops, Hop{Stage: stage, Letter: l.Rune()})
	})
	if m.hooks.OnEncrypt != nil {
		m.hooks.OnEncrypt(&domain.EncryptEvent{Type: domain.EventEncrypt, Input: in, Output: out})
	}
	return hops, nil
}

// Encrypt processes exactly one character. It returns "" for a dropped
// non-letter, and a usage error, without advancing any rotor, for any other
// input length.
func (m *Machine) Encrypt(char string) (string, error) {
	in, err := singleRune(char)
	if err != nil {
		return "", err
	}
	out, ok := m.EncryptRune(in)
	if !ok {
		return "", nil
	}
	return string(out), nil
}

// EncryptString processes text character by character.
func (m *Machine) EncryptString(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if out, ok := m.EncryptRune(r); ok {
			b.WriteRune(out)
		}
	}
	return b.String()
}
