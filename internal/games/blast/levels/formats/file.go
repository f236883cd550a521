// Package formats provides pluggable level file format parsers.
package formats

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is a level file as written on disk. Colors and goal types are still the
// single-letter strings of the file format; levels.Decode turns them into enums.
type File struct {
	ID                  string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name                string   `yaml:"name" json:"name"`
	Seed                int64    `yaml:"seed,omitempty" json:"seed,omitempty"`
	ColorCount          int      `yaml:"colorCount" json:"colorCount"`
	ColorPalette        []string `yaml:"colorPalette,flow" json:"colorPalette"`
	GridLength          int      `yaml:"gridLength" json:"gridLength"`
	IsStartingGridFixed bool     `yaml:"isStartingGridFixed" json:"isStartingGridFixed"`
	StartingGrid        []string `yaml:"startingGrid,omitempty,flow" json:"startingGrid,omitempty"`
	Goals               []Goal   `yaml:"goals" json:"goals"`
	StartingMoveCount   int      `yaml:"startingMoveCount" json:"startingMoveCount"`
	MaxShuffles         int      `yaml:"maxShuffles,omitempty" json:"maxShuffles,omitempty"`
}

// Goal is one goal entry: a color letter or "A" for any, and the amount.
type Goal struct {
	GoalType   string `yaml:"goalType" json:"goalType"`
	GoalAmount int    `yaml:"goalAmount" json:"goalAmount"`
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return f, nil
}

// ParseJSON parses a JSON level file. Unknown fields are rejected.
func ParseJSON(data []byte) (File, error) {
	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return f, nil
}

// Parse routes data to the parser for the given extension.
func Parse(data []byte, ext string) (File, error) {
	switch ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return File{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}

// MarshalYAML writes f in the YAML level format.
func MarshalYAML(f File) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}
