// Package alphabet implements the letter arithmetic shared by every machine part.
//
// Letters are 0-indexed ordinals (A=0 … Z=25). Every shift wraps modulo 26 onto
// that range, in both directions. The case of a character is not part of a Letter;
// callers keep the original rune and restore its case with Apply.
package alphabet

import (
	"unicode/utf8"

	"github.com/aretw0/enigma/pkg/domain"
)

// Size is the number of letters in the alphabet.
const Size = 26

// Letter is the ordinal of an uppercase letter, always in [0, Size).
type Letter uint8

// Letters holds the alphabet in ordinal order.
const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// IsLetter reports whether r is an ASCII letter of either case.
func IsLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// IsLower reports whether r is a lowercase ASCII letter.
func IsLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// FromRune converts an ASCII letter of either case to its ordinal.
func FromRune(r rune) (Letter, bool) {
	switch {
	case r >= 'A' && r <= 'Z':
		return Letter(r - 'A'), true
	case r >= 'a' && r <= 'z':
		return Letter(r - 'a'), true
	}
	return 0, false
}

// MustFromRune is FromRune for letters known at compile time.
func MustFromRune(r rune) Letter {
	l, ok := FromRune(r)
	if !ok {
		panic("alphabet: not a letter: " + string(r))
	}
	return l
}

// Parse converts a single-letter string to its ordinal.
// Anything but exactly one letter is a usage error.
func Parse(s string) (Letter, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, domain.Invalid("expected exactly one letter, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	l, ok := FromRune(r)
	if !ok {
		return 0, domain.Invalid("expected a letter, got %q", s)
	}
	return l, nil
}

// Rune returns the uppercase letter.
func (l Letter) Rune() rune {
	return rune('A' + l%Size)
}

func (l Letter) String() string {
	return string(l.Rune())
}

// Shift adds delta to the ordinal and wraps the result onto the alphabet.
func (l Letter) Shift(delta int) Letter {
	v := (int(l) + delta) % Size
	if v < 0 {
		v += Size
	}
	return Letter(v)
}

// RingOffset is the distance of a rotor position from 'A'.
func RingOffset(position Letter) int {
	return int(position) - int(MustFromRune('A'))
}

// Apply returns l in the case of orig.
func Apply(orig rune, l Letter) rune {
	if IsLower(orig) {
		return l.Rune() + ('a' - 'A')
	}
	return l.Rune()
}
