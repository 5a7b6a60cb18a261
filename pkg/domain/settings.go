package domain

import (
	"fmt"
	"strings"
	"time"
)

// Supported rotor counts.
const (
	ThreeRotors = 3
	FiveRotors  = 5
)

// MaxRingOffset is the largest accepted ring offset. 26 is equivalent to 0.
const MaxRingOffset = 26

// Settings holds the construction parameters of a machine.
// Rotors and Code are listed leftmost first, as they appear on the machine's window.
type Settings struct {
	Rotors          []int    `json:"rotors" yaml:"rotors" mapstructure:"rotors" validate:"required,min=3,max=5,dive,min=1,max=5"`
	Code            string   `json:"code" yaml:"code" mapstructure:"code" validate:"required,alpha"`
	RingOffsets     []int    `json:"ring_offsets,omitempty" yaml:"ring_offsets,omitempty" mapstructure:"ring_offsets" validate:"omitempty,dive,min=0,max=26"`
	Plugboard       []string `json:"plugboard,omitempty" yaml:"plugboard,omitempty" mapstructure:"plugboard" validate:"omitempty,dive,len=2,alpha"`
	DropPunctuation bool     `json:"drop_punctuation,omitempty" yaml:"drop_punctuation,omitempty" mapstructure:"drop_punctuation"`
}

// KeySheet is a named Settings value. Rotor positions are never part of it:
// a machine built from a key sheet always starts at the sheet's code.
type KeySheet struct {
	Name      string    `json:"name" yaml:"name"`
	Settings  Settings  `json:"settings" yaml:"settings"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Sealed holds the encrypted settings when a store seals key sheets at rest.
	// Settings is empty while Sealed is set.
	Sealed []byte `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	out := s
	out.Rotors = append([]int(nil), s.Rotors...)
	out.RingOffsets = append([]int(nil), s.RingOffsets...)
	out.Plugboard = append([]string(nil), s.Plugboard...)
	return out
}

// Clone returns a deep copy of the key sheet.
func (k *KeySheet) Clone() *KeySheet {
	out := *k
	out.Settings = k.Settings.Clone()
	out.Sealed = append([]byte(nil), k.Sealed...)
	return &out
}

// Normalized returns a copy with the code and plugboard pairs uppercased.
func (s Settings) Normalized() Settings {
	out := s.Clone()
	out.Code = strings.ToUpper(s.Code)
	out.Plugboard = make([]string, len(s.Plugboard))
	for i, p := range s.Plugboard {
		out.Plugboard[i] = strings.ToUpper(p)
	}
	return out
}

// Validate checks every parameter and reports all problems at once.
// The returned error is an *AggregateError unwrapping to ErrInvalidArgument.
func (s Settings) Validate() error {
	var errs []error
	add := func(field, reason string, value any) {
		errs = append(errs, &ConfigError{Field: field, Reason: reason, Value: value})
	}

	n := len(s.Rotors)
	if n != ThreeRotors && n != FiveRotors {
		add("rotors", "either 3 or 5 rotors are required", n)
	}
	for i, id := range s.Rotors {
		if id < 1 || id > 5 {
			add(fmt.Sprintf("rotors[%d]", i), "rotor id must be one of 1, 2, 3, 4, 5", id)
		}
	}

	code := []rune(s.Code)
	if len(code) != n {
		add("code", fmt.Sprintf("need %d letters to set the machine code", n), s.Code)
	}
	for i, r := range code {
		if !isASCIILetter(r) {
			add(fmt.Sprintf("code[%d]", i), "codes should be letters", string(r))
		}
	}

	if len(s.RingOffsets) != 0 && len(s.RingOffsets) != n {
		add("ring_offsets", fmt.Sprintf("need either no ring offsets or exactly %d", n), len(s.RingOffsets))
	}
	for i, off := range s.RingOffsets {
		if off < 0 || off > MaxRingOffset {
			add(fmt.Sprintf("ring_offsets[%d]", i), "offset must be between 0 and 26", off)
		}
	}

	if err := ValidatePlugboard(s.Plugboard); err != nil {
		errs = append(errs, ConfigErrors(err)...)
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidatePlugboard checks that every pair holds two distinct letters and
// that no letter is wired into more than one pair.
func ValidatePlugboard(pairs []string) error {
	var errs []error
	seen := make(map[rune]int)
	for i, pair := range pairs {
		field := fmt.Sprintf("plugboard[%d]", i)
		letters := []rune(strings.ToUpper(pair))
		if len(letters) != 2 {
			errs = append(errs, &ConfigError{Field: field, Reason: "a pair takes exactly two letters", Value: pair})
			continue
		}
		if !isASCIILetter(letters[0]) || !isASCIILetter(letters[1]) {
			errs = append(errs, &ConfigError{Field: field, Reason: "pair items should be letters", Value: pair})
			continue
		}
		if letters[0] == letters[1] {
			errs = append(errs, &ConfigError{Field: field, Reason: "a letter cannot be paired with itself", Value: pair})
			continue
		}
		for _, l := range letters {
			if prev, ok := seen[l]; ok {
				errs = append(errs, &ConfigError{
					Field:  field,
					Reason: fmt.Sprintf("letter %c is already used by plugboard[%d]", l, prev),
					Value:  pair,
				})
				continue
			}
			seen[l] = i
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func isASCIILetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
