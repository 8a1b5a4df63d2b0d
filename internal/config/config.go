package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// SnapshotPath overrides the location of the notes snapshot database.
	// Empty means the default path under the user's home directory.
	SnapshotPath string `json:"snapshot_path,omitempty"`

	// AutomationTimeoutMS bounds one automation round trip in milliseconds.
	// 0 means the built-in default.
	AutomationTimeoutMS int `json:"automation_timeout_ms,omitempty"`

	// SearchLimit is the default maximum number of search results.
	SearchLimit int `json:"search_limit"`

	// BodySearchCap bounds how many candidate notes a body search will
	// decode before giving up. Body search decompresses every candidate,
	// so this is the knob that keeps slow-path searches bounded.
	BodySearchCap int `json:"body_search_cap"`

	// DefaultFolder is where created notes land when no folder is named.
	DefaultFolder string `json:"default_folder,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. All tools are enabled by default.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SearchLimit:   50,
		BodySearchCap: 500,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir().
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and
// deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.SnapshotPath = overlay.SnapshotPath
	if result.SnapshotPath == "" {
		result.SnapshotPath = base.SnapshotPath
	}

	result.DefaultFolder = overlay.DefaultFolder
	if result.DefaultFolder == "" {
		result.DefaultFolder = base.DefaultFolder
	}

	result.AutomationTimeoutMS = overlay.AutomationTimeoutMS
	if result.AutomationTimeoutMS == 0 {
		result.AutomationTimeoutMS = base.AutomationTimeoutMS
	}

	result.SearchLimit = overlay.SearchLimit
	if result.SearchLimit == 0 {
		result.SearchLimit = base.SearchLimit
	}

	result.BodySearchCap = overlay.BodySearchCap
	if result.BodySearchCap == 0 {
		result.BodySearchCap = base.BodySearchCap
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
