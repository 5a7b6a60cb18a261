package machine

import (
	"github.com/aretw0/enigma/pkg/alphabet"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/wiring"
)

// Reflector turns the signal back through the rotors.
type Reflector struct {
	wiring wiring.Permutation
}

// NewReflector wraps the reflector wiring of the tables.
func NewReflector(tables *wiring.Tables) *Reflector {
	return &Reflector{wiring: tables.Reflector()}
}

// Reflect substitutes a letter, preserving its case.
func (r *Reflector) Reflect(in rune) (rune, error) {
	l, ok := alphabet.FromRune(in)
	if !ok {
		return 0, domain.Invalid("reflector takes letters only, got %q", in)
	}
	return alphabet.Apply(in, r.wiring.Map(l)), nil
}
