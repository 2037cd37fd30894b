package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// PlaceholderEndpoint is the endpoint value shipped in the sample config.
// While the endpoint is empty or still this value, the tracker runs in
// mock mode: fixture data, local cache, no remote calls.
const PlaceholderEndpoint = "YOUR_GOOGLE_APPS_SCRIPT_WEB_APP_URL_HERE"

// Backend names.
const (
	BackendWebApp = "webapp"
	BackendSheets = "sheets"
)

// Environment variables that override config.toml.
const (
	EnvBackend       = "TODOTRACK_BACKEND"
	EnvEndpoint      = "TODOTRACK_ENDPOINT"
	EnvSpreadsheetID = "TODOTRACK_SPREADSHEET_ID"
	EnvCacheDriver   = "TODOTRACK_CACHE_DRIVER"
)

// CacheSettings selects the degraded-mode cache.
type CacheSettings struct {
	Driver string `toml:"driver"`
	Dir    string `toml:"dir"`
}

// Settings are the user-editable values.
type Settings struct {
	Backend       string        `toml:"backend"`
	Endpoint      string        `toml:"endpoint"`
	SpreadsheetID string        `toml:"spreadsheet_id"`
	SheetName     string        `toml:"sheet_name"`
	MockDelay     time.Duration `toml:"mock_delay"`
	Cache         CacheSettings `toml:"cache"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Backend:   BackendWebApp,
		Endpoint:  PlaceholderEndpoint,
		SheetName: "Todos",
		MockDelay: 500 * time.Millisecond,
		Cache: CacheSettings{
			Driver: "file",
		},
	}
}

// RemoteConfigured reports whether a real remote is configured.
func (s Settings) RemoteConfigured() bool {
	switch s.Backend {
	case BackendSheets:
		return strings.TrimSpace(s.SpreadsheetID) != ""
	default:
		e := strings.TrimSpace(s.Endpoint)
		return e != "" && e != PlaceholderEndpoint
	}
}

// LoadSettings reads dir/config.toml and applies overrides from dir/.env
// and the process environment. Missing files leave defaults in place.
func LoadSettings(dir string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(filepath.Join(dir, SettingsFile))
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	case !os.IsNotExist(err):
		return s, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	// godotenv.Load never overrides variables already set in the environment.
	envPath := filepath.Join(dir, EnvFile)
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return s, fmt.Errorf("invalid %s: %w", EnvFile, err)
		}
	}

	if v := os.Getenv(EnvBackend); v != "" {
		s.Backend = v
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		s.Endpoint = v
	}
	if v := os.Getenv(EnvSpreadsheetID); v != "" {
		s.SpreadsheetID = v
	}
	if v := os.Getenv(EnvCacheDriver); v != "" {
		s.Cache.Driver = v
	}

	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if s.Backend != BackendWebApp && s.Backend != BackendSheets {
		return s, fmt.Errorf("unknown backend: %s", s.Backend)
	}
	if s.MockDelay < 0 {
		s.MockDelay = 0
	}
	return s, nil
}

// SampleSettings is written by WriteSample.
const SampleSettings = `# todotrack configuration
# All values are optional.

# backend = "webapp"   # webapp (Apps Script web app) | sheets (Sheets API, needs login)
# endpoint = "` + PlaceholderEndpoint + `"
# spreadsheet_id = ""
# sheet_name = "Todos"
# mock_delay = "500ms"  # simulated latency while no backend is configured

[cache]
# driver = "file"       # file | nutsdb | sqlite | memory
# dir = ""              # defaults to <config dir>/cache
`

// WriteSample writes a commented sample config.toml. It no-ops if the file
// already exists.
func (c *Config) WriteSample() error {
	path := c.SettingsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := c.EnsureDir(); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(SampleSettings), 0o600)
}
