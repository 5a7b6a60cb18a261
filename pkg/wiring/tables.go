// Package wiring provides the static configuration of the machine: the wiring
// permutation and notch letter of every rotor identity, and the reflector wiring.
//
// The tables are read-only. The embedded historical tables are loaded once, on first
// use of Default; custom tables can be read from a YAML or JSON file with Load.
package wiring

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/enigma/pkg/alphabet"
	"github.com/aretw0/enigma/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// RotorIDs is the enumerated set of rotor identities every table file must define.
var RotorIDs = []int{1, 2, 3, 4, 5}

// RotorSpec is the on-disk form of a rotor entry.
type RotorSpec struct {
	Wiring string `yaml:"wiring" json:"wiring"`
	Notch  string `yaml:"notch" json:"notch"`
}

// File represents the structure of a table file.
type File struct {
	Alphabet  string            `yaml:"alphabet" json:"alphabet"`
	Reflector string            `yaml:"reflector" json:"reflector"`
	Rotors    map[int]RotorSpec `yaml:"rotors" json:"rotors"`
}

// Rotor is the compiled, immutable configuration of one rotor identity.
type Rotor struct {
	ID     int
	Wiring Permutation
	Notch  alphabet.Letter
}

// Tables is the compiled lookup structure consumed by the machine.
type Tables struct {
	rotors    map[int]Rotor
	reflector Permutation
}

var (
	defaultOnce sync.Once
	defaultTab  *Tables
)

// Default returns the process-wide historical tables (rotors I–V, reflector B).
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Parse(defaultTables)
		if err != nil {
			panic(fmt.Sprintf("wiring: embedded tables are invalid: %v", err))
		}
		defaultTab = t
	})
	return defaultTab
}

// Load reads a table file. Files ending in .json are parsed as JSON, anything else as YAML.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wiring tables: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var f File
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return Compile(f)
	}
	return Parse(data)
}

// Parse compiles YAML table data.
func Parse(data []byte) (*Tables, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse wiring tables: %w", err)
	}
	return Compile(f)
}

// Compile validates a table file and builds the lookup structure.
// The alphabet must be A–Z in order, every rotor wiring a permutation, every
// rotor identity present, and the reflector an involution without fixed points.
func Compile(f File) (*Tables, error) {
	if f.Alphabet != "" && strings.ToUpper(f.Alphabet) != alphabet.Letters {
		return nil, domain.Invalid("unsupported alphabet %q", f.Alphabet)
	}

	reflector, err := ParsePermutation(f.Reflector)
	if err != nil {
		return nil, fmt.Errorf("reflector: %w", err)
	}
	if !reflector.IsInvolution() {
		return nil, domain.Invalid("reflector wiring is not an involution")
	}
	if fixed := reflector.FixedPoints(); len(fixed) > 0 {
		return nil, domain.Invalid("reflector maps %c onto itself", fixed[0].Rune())
	}

	t := &Tables{
		rotors:    make(map[int]Rotor, len(RotorIDs)),
		reflector: reflector,
	}
	for _, id := range RotorIDs {
		def, ok := f.Rotors[id]
		if !ok {
			return nil, domain.Invalid("rotor %d is missing", id)
		}
		perm, err := ParsePermutation(def.Wiring)
		if err != nil {
			return nil, fmt.Errorf("rotor %d: %w", id, err)
		}
		notch, err := alphabet.Parse(def.Notch)
		if err != nil {
			return nil, fmt.Errorf("rotor %d notch: %w", id, err)
		}
		t.rotors[id] = Rotor{ID: id, Wiring: perm, Notch: notch}
	}
	for id := range f.Rotors {
		if _, ok := t.rotors[id]; !ok {
			return nil, domain.Invalid("unknown rotor id %d", id)
		}
	}
	return t, nil
}

// Rotor returns the configuration of a rotor identity.
func (t *Tables) Rotor(id int) (Rotor, error) {
	r, ok := t.rotors[id]
	if !ok {
		return Rotor{}, domain.Invalid("wrong rotor id %d, choose one of 1, 2, 3, 4 and 5", id)
	}
	return r, nil
}

// Reflector returns the reflector wiring.
func (t *Tables) Reflector() Permutation {
	return t.reflector
}

// Rotors returns every rotor configuration ordered by identity.
func (t *Tables) Rotors() []Rotor {
	out := make([]Rotor, 0, len(t.rotors))
	for _, r := range t.rotors {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
