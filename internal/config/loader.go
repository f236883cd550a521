package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBlast loads Blast configuration.
// Search order: customPath -> ~/.blast/configs/blast.yaml -> ./configs/blast.yaml -> embedded default
// Files are decoded over the defaults, so a file only needs the keys it changes.
func LoadBlast(customPath string) (BlastConfig, error) {
	cfg := DefaultBlastConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("blast.yaml"); userCfgPath != "" {
		if loaded, ok := tryLoad(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryLoad(filepath.Join("configs", "blast.yaml")); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	cfg = DefaultBlastConfig()
	if err := yaml.Unmarshal(defaultBlastYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultBlastConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads and validates an optional config file. Missing or broken files
// are skipped so the next location in the search order is used.
func tryLoad(path string) (BlastConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BlastConfig{}, false
	}
	cfg := DefaultBlastConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BlastConfig{}, false
	}
	if err := cfg.Validate(); err != nil {
		return BlastConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := HomeDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// HomeDir returns ~/.blast, or empty if home is unavailable.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blast")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
