package machine

import (
	"unicode/utf8"

	"github.com/aretw0/enigma/pkg/alphabet"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/wiring"
)

// Rotor is one wheel of the machine: a fixed wiring, a notch letter, a static
// ring offset and a mutable position.
type Rotor struct {
	id       int
	wiring   wiring.Permutation
	notch    alphabet.Letter
	ring     int
	start    alphabet.Letter
	position alphabet.Letter
}

// NewRotor builds a rotor of the given identity set to a starting letter.
// ringOffset must be within [0, 26].
func NewRotor(tables *wiring.Tables, id int, start string, ringOffset int) (*Rotor, error) {
	cfg, err := tables.Rotor(id)
	if err != nil {
		return nil, err
	}
	if ringOffset < 0 || ringOffset > domain.MaxRingOffset {
		return nil, &domain.ConfigError{Field: "ring_offset", Reason: "offset must be between 0 and 26", Value: ringOffset}
	}
	pos, err := alphabet.Parse(start)
	if err != nil {
		return nil, &domain.ConfigError{Field: "starting_position", Reason: "set exactly one letter for the starting position", Value: start}
	}
	return &Rotor{
		id:       id,
		wiring:   cfg.Wiring,
		notch:    cfg.Notch,
		ring:     ringOffset % alphabet.Size,
		start:    pos,
		position: pos,
	}, nil
}

// ID returns the rotor identity.
func (r *Rotor) ID() int { return r.id }

// Position returns the letter currently shown in the window.
func (r *Rotor) Position() rune { return r.position.Rune() }

// Notch returns the notch letter.
func (r *Rotor) Notch() rune { return r.notch.Rune() }

// RingOffset returns the static ring offset, normalized to [0, 26).
func (r *Rotor) RingOffset() int { return r.ring }

// Step advances the rotor by one letter and reports whether it now sits on its
// notch, in which case the neighbor to its left has to advance as well.
func (r *Rotor) Step() bool {
	r.position = r.position.Shift(1)
	return r.position == r.notch
}

func (r *Rotor) reset() {
	r.position = r.start
}

// Forward passes a letter from the keyboard side towards the reflector.
// The case of in is preserved. Forward never advances the rotor: calling it
// on its own encrypts at the current position every time. Machine steps the
// rotors before each letter; standalone callers step with Step first.
func (r *Rotor) Forward(in rune) (rune, error) {
	l, ok := alphabet.FromRune(in)
	if !ok {
		return 0, domain.Invalid("rotor can only encrypt letters, got %q", in)
	}
	return alphabet.Apply(in, r.forward(l)), nil
}

// Backward passes a reflected letter back towards the keyboard.
// It never steps and is the exact inverse of Forward at the same position.
func (r *Rotor) Backward(in rune) (rune, error) {
	l, ok := alphabet.FromRune(in)
	if !ok {
		return 0, domain.Invalid("rotor can only encrypt letters, got %q", in)
	}
	return alphabet.Apply(in, r.backward(l)), nil
}

// ForwardString is Forward for callers holding strings; anything other than
// exactly one character is rejected without touching the rotor.
func (r *Rotor) ForwardString(s string) (string, error) {
	in, err := singleRune(s)
	if err != nil {
		return "", err
	}
	out, err := r.Forward(in)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// BackwardString is Backward for callers holding strings.
func (r *Rotor) BackwardString(s string) (string, error) {
	in, err := singleRune(s)
	if err != nil {
		return "", err
	}
	out, err := r.Backward(in)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *Rotor) forward(l alphabet.Letter) alphabet.Letter {
	offset := alphabet.RingOffset(r.position)
	contact := l.Shift(offset + r.ring)
	return r.wiring.Map(contact).Shift(-offset)
}

// backward undoes forward exactly. The ring offset is removed after the
// inverse lookup, not added before it as on the keyboard-side pass; adding it
// before would only match forward when the ring offset is 0.
func (r *Rotor) backward(l alphabet.Letter) alphabet.Letter {
	offset := alphabet.RingOffset(r.position)
	contact := l.Shift(offset)
	return r.wiring.Inverse(contact).Shift(-offset - r.ring)
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, domain.Invalid("can only encrypt one character at a time, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
