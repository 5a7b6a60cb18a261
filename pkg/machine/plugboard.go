package machine

import (
	"github.com/aretw0/enigma/pkg/alphabet"
	"github.com/aretw0/enigma/pkg/domain"
)

type plugPair [2]alphabet.Letter

// Plugboard swaps configured letter pairs before and after the rotors.
type Plugboard struct {
	pairs []plugPair
}

// NewPlugboard validates and wires the given pairs, e.g. []string{"AB", "cd"}.
func NewPlugboard(pairs []string) (*Plugboard, error) {
	if err := domain.ValidatePlugboard(pairs); err != nil {
		return nil, err
	}
	p := &Plugboard{pairs: make([]plugPair, 0, len(pairs))}
	for _, s := range pairs {
		rs := []rune(s)
		p.pairs = append(p.pairs, plugPair{alphabet.MustFromRune(rs[0]), alphabet.MustFromRune(rs[1])})
	}
	return p, nil
}

// Swap returns the partner of a plugged letter, in the case of the input.
// Letters outside every pair, and non-letters, are returned unchanged.
func (p *Plugboard) Swap(in rune) rune {
	l, ok := alphabet.FromRune(in)
	if !ok {
		return in
	}
	for _, pair := range p.pairs {
		switch l {
		case pair[0]:
			return alphabet.Apply(in, pair[1])
		case pair[1]:
			return alphabet.Apply(in, pair[0])
		}
	}
	return in
}

// Pairs returns the configured pairs in uppercase.
func (p *Plugboard) Pairs() []string {
	out := make([]string, len(p.pairs))
	for i, pair := range p.pairs {
		out[i] = string([]rune{pair[0].Rune(), pair[1].Rune()})
	}
	return out
}
