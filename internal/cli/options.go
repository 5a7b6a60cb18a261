package cli

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/enigma/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Rotors         string   // Rotor IDs, leftmost first, e.g. "123"
	Plugboard      []string // One pair per flag, e.g. "ab"
	Code           string
	PunctuationOff bool
	Ring           string // Comma separated ring offsets, e.g. "0,5,12"
	Config         string // Key sheet file (YAML or JSON)
	Text           string // One-shot input; empty means stream stdin
	Tables         string // Wiring tables override
	Debug          bool
	Quiet          bool // Suppress banner and system messages
}

// ParseRotors turns a run of digits such as "153" into rotor IDs.
func ParseRotors(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &domain.ConfigError{Field: "rotors", Reason: "rotors are required"}
	}
	ids := make([]int, 0, len(s))
	for i, r := range s {
		if r < '0' || r > '9' {
			return nil, &domain.ConfigError{
				Field:  fmt.Sprintf("rotors[%d]", i),
				Reason: "rotors are given as digits, e.g. 123",
				Value:  string(r),
			}
		}
		ids = append(ids, int(r-'0'))
	}
	return ids, nil
}

// ParsePlugboard keeps the first two characters of every item, uppercased.
// An item shorter than two characters is an error.
func ParsePlugboard(items []string) ([]string, error) {
	pairs := make([]string, 0, len(items))
	for i, item := range items {
		r := []rune(strings.TrimSpace(item))
		if len(r) < 2 {
			return nil, &domain.ConfigError{
				Field:  fmt.Sprintf("plugboard[%d]", i),
				Reason: "a pair takes two letters",
				Value:  item,
			}
		}
		pairs = append(pairs, string([]rune{unicode.ToUpper(r[0]), unicode.ToUpper(r[1])}))
	}
	return pairs, nil
}

// ParseRing reads comma separated ring offsets. An empty string means none.
func ParseRing(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	offsets := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, &domain.ConfigError{
				Field:  fmt.Sprintf("ring_offsets[%d]", i),
				Reason: "ring offsets are integers",
				Value:  p,
			}
		}
		offsets[i] = n
	}
	return offsets, nil
}

// BuildSettings merges the key sheet file (if any) with the flags.
// Flags that were given win over the file.
func BuildSettings(opts RunOptions) (domain.Settings, error) {
	var s domain.Settings
	if opts.Config != "" {
		sheet, err := LoadKeySheet(opts.Config)
		if err != nil {
			return s, err
		}
		s = sheet.Settings
	}

	if opts.Rotors != "" || opts.Config == "" {
		rotors, err := ParseRotors(opts.Rotors)
		if err != nil {
			return s, err
		}
		s.Rotors = rotors
	}
	if opts.Code != "" || opts.Config == "" {
		if opts.Code == "" {
			return s, &domain.ConfigError{Field: "code", Reason: "code is required"}
		}
		s.Code = opts.Code
	}
	if len(opts.Plugboard) > 0 {
		pairs, err := ParsePlugboard(opts.Plugboard)
		if err != nil {
			return s, err
		}
		s.Plugboard = pairs
	}
	if opts.Ring != "" {
		ring, err := ParseRing(opts.Ring)
		if err != nil {
			return s, err
		}
		s.RingOffsets = ring
	}
	if opts.PunctuationOff {
		s.DropPunctuation = true
	}
	return s, nil
}
