package wiring

import (
	"strings"

	"github.com/aretw0/enigma/pkg/alphabet"
	"github.com/aretw0/enigma/pkg/domain"
)

// Permutation is a bijective substitution over the alphabet.
// The inverse is computed once so reverse lookups are constant time.
type Permutation struct {
	fwd [alphabet.Size]alphabet.Letter
	inv [alphabet.Size]alphabet.Letter
}

// ParsePermutation reads a 26-letter wiring string: the letter at index i is
// the image of the i-th letter of the alphabet.
func ParsePermutation(wiring string) (Permutation, error) {
	var p Permutation
	wiring = strings.ToUpper(strings.TrimSpace(wiring))
	if len(wiring) != alphabet.Size {
		return p, domain.Invalid("wiring must have %d letters, got %d", alphabet.Size, len(wiring))
	}

	var used [alphabet.Size]bool
	for i, r := range wiring {
		l, ok := alphabet.FromRune(r)
		if !ok {
			return p, domain.Invalid("wiring contains a non-letter %q", r)
		}
		if used[l] {
			return p, domain.Invalid("wiring maps two letters onto %c", l.Rune())
		}
		used[l] = true
		p.fwd[i] = l
		p.inv[l] = alphabet.Letter(i)
	}
	return p, nil
}

// Map returns the image of l.
func (p Permutation) Map(l alphabet.Letter) alphabet.Letter {
	return p.fwd[l]
}

// Inverse returns the unique letter whose image is l.
func (p Permutation) Inverse(l alphabet.Letter) alphabet.Letter {
	return p.inv[l]
}

// IsInvolution reports whether applying p twice is the identity.
func (p Permutation) IsInvolution() bool {
	for i := range p.fwd {
		if p.fwd[p.fwd[i]] != alphabet.Letter(i) {
			return false
		}
	}
	return true
}

// FixedPoints lists the letters mapped onto themselves.
func (p Permutation) FixedPoints() []alphabet.Letter {
	var out []alphabet.Letter
	for i, l := range p.fwd {
		if l == alphabet.Letter(i) {
			out = append(out, l)
		}
	}
	return out
}

func (p Permutation) String() string {
	var b strings.Builder
	b.Grow(alphabet.Size)
	for _, l := range p.fwd {
		b.WriteRune(l.Rune())
	}
	return b.String()
}
