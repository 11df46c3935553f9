// Package settings manages persistent user defaults for the vlanaudit CLI.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/newtron-network/vlanaudit/pkg/util"
)

// Setting keys, shared with the CLI flag and environment names.
const (
	KeyInput        = "input"
	KeyOutput       = "output"
	KeyFormat       = "format"
	KeyCoreNames    = "core-names"
	KeyAggSubstring = "agg-substring"
	KeyRoleMap      = "role-map"
	KeyWorkers      = "workers"
	KeyHistory      = "history"
)

// Keys lists every setting in display order.
var Keys = []string{
	KeyInput, KeyOutput, KeyFormat, KeyCoreNames, KeyAggSubstring, KeyRoleMap, KeyWorkers, KeyHistory,
}

// Settings holds persistent user preferences
type Settings struct {
	// Input is the default dump directory for `run`
	Input string `json:"input,omitempty"`

	// Output is the default report path
	Output string `json:"output,omitempty"`

	// Format is the default report format
	Format string `json:"format,omitempty"`

	CoreNames    []string `json:"core_names,omitempty"`
	AggSubstring string   `json:"agg_substring,omitempty"`

	// RoleMap is an optional device-to-role YAML/JSON file
	RoleMap string `json:"role_map,omitempty"`

	Workers int `json:"workers,omitempty"`

	// History overrides the run history log path
	History string `json:"history,omitempty"`
}

// Dir returns the per-user vlanaudit directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vlanaudit"
	}
	return filepath.Join(home, ".vlanaudit")
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	return filepath.Join(Dir(), "settings.json")
}

// DefaultHistoryPath returns the default run history log path
func DefaultHistoryPath() string {
	return filepath.Join(Dir(), "history.log")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path. A missing file yields
// empty settings.
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Set assigns a setting by key. core-names takes a comma-separated list.
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyInput:
		s.Input = value
	case KeyOutput:
		s.Output = value
	case KeyFormat:
		s.Format = strings.ToLower(strings.TrimSpace(value))
	case KeyCoreNames:
		s.CoreNames = util.SplitCommaSeparated(value)
	case KeyAggSubstring:
		s.AggSubstring = value
	case KeyRoleMap:
		s.RoleMap = value
	case KeyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("workers must be a non-negative integer, got %q: %w", value, util.ErrInvalidConfig)
		}
		s.Workers = n
	case KeyHistory:
		s.History = value
	default:
		return fmt.Errorf("unknown setting: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Get returns a setting by key as display text; "" means unset.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case KeyInput:
		return s.Input, nil
	case KeyOutput:
		return s.Output, nil
	case KeyFormat:
		return s.Format, nil
	case KeyCoreNames:
		return strings.Join(s.CoreNames, ","), nil
	case KeyAggSubstring:
		return s.AggSubstring, nil
	case KeyRoleMap:
		return s.RoleMap, nil
	case KeyWorkers:
		if s.Workers == 0 {
			return "", nil
		}
		return strconv.Itoa(s.Workers), nil
	case KeyHistory:
		return s.History, nil
	}
	return "", fmt.Errorf("unknown setting: %s (valid: %s)", key, strings.Join(Keys, ", "))
}

// ConfigMap returns the set values keyed like the CLI flags, for layering
// beneath flags and environment.
func (s *Settings) ConfigMap() map[string]interface{} {
	m := make(map[string]interface{})
	for _, key := range Keys {
		if key == KeyCoreNames {
			if len(s.CoreNames) > 0 {
				m[key] = append([]string(nil), s.CoreNames...)
			}
			continue
		}
		if key == KeyWorkers {
			if s.Workers > 0 {
				m[key] = s.Workers
			}
			continue
		}
		if v, _ := s.Get(key); v != "" {
			m[key] = v
		}
	}
	return m
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
