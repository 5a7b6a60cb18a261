package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/enigma/internal/validator"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/machine"
	"gopkg.in/yaml.v3"
)

// LoadKeySheet reads a key sheet from a .json file, or YAML otherwise.
// The file may hold a full key sheet or just its settings.
func LoadKeySheet(path string) (*domain.KeySheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key sheet: %w", err)
	}

	isJSON := strings.EqualFold(filepath.Ext(path), ".json")
	unmarshal := yaml.Unmarshal
	if isJSON {
		unmarshal = json.Unmarshal
	}

	var sheet domain.KeySheet
	if err := unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("%w: key sheet %s: %v", domain.ErrInvalidArgument, path, err)
	}
	if len(sheet.Settings.Rotors) == 0 {
		// Bare settings document.
		if err := unmarshal(data, &sheet.Settings); err != nil {
			return nil, fmt.Errorf("%w: key sheet %s: %v", domain.ErrInvalidArgument, path, err)
		}
	}
	if sheet.Name == "" {
		sheet.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := validator.Settings(sheet.Settings); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// SaveKeySheet writes a key sheet as YAML, or JSON for a .json path.
func SaveKeySheet(path string, sheet *domain.KeySheet) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(sheet, "", "  ")
	} else {
		data, err = yaml.Marshal(sheet)
	}
	if err != nil {
		return fmt.Errorf("failed to encode key sheet: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// WriteKeySheet builds settings from the flags, checks that they assemble a
// machine with the selected tables, and saves them under the file's stem.
func WriteKeySheet(opts RunOptions, path string) (*domain.KeySheet, error) {
	settings, err := BuildSettings(opts)
	if err != nil {
		return nil, err
	}
	if err := validator.Settings(settings); err != nil {
		return nil, err
	}
	tables, err := LoadTables(opts.Tables)
	if err != nil {
		return nil, err
	}
	m, err := machine.New(tables, settings)
	if err != nil {
		return nil, err
	}
	sheet := &domain.KeySheet{
		Name:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Settings:  m.Settings(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := SaveKeySheet(path, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// CheckKeySheet loads a key sheet and assembles its machine once.
func CheckKeySheet(path, tablesPath string) (*domain.KeySheet, error) {
	sheet, err := LoadKeySheet(path)
	if err != nil {
		return nil, err
	}
	tables, err := LoadTables(tablesPath)
	if err != nil {
		return nil, err
	}
	if _, err := machine.New(tables, sheet.Settings); err != nil {
		return nil, err
	}
	return sheet, nil
}
