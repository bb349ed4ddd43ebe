// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/datachat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete datachat configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	UI      UIConfig      `toml:"ui"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig locates the analysis service.
type ServerConfig struct {
	// BaseURL is the origin of the analysis service, without a trailing slash.
	BaseURL string `toml:"base_url"`
	// ChatPath is the multipart exchange endpoint.
	ChatPath string `toml:"chat_path"`
	// ProbePath is requested once at startup to log reachability.
	ProbePath string `toml:"probe_path"`
	// ImageTimeoutSecs bounds chart image downloads. The chat exchange
	// itself is never timed out.
	ImageTimeoutSecs int `toml:"image_timeout_secs"`
	// MaxUploadMB refuses to read staged files larger than this (0 = unlimited).
	MaxUploadMB int `toml:"max_upload_mb"`
}

// UIConfig contains terminal layout settings.
type UIConfig struct {
	// BreakpointUnits is the width at or below which the sidebar collapses.
	BreakpointUnits int `toml:"breakpoint_units"`
	// CellWidthUnits converts one terminal column into layout units.
	CellWidthUnits int `toml:"cell_width_units"`
	// Mouse enables click-to-open on chart messages.
	Mouse bool `toml:"mouse"`
}

// StorageConfig contains persistent preference settings.
type StorageConfig struct {
	PrefsPath string `toml:"prefs_path"`
}

// LogConfig contains diagnostic log settings.
type LogConfig struct {
	Path  string `toml:"path"`
	Debug bool   `toml:"debug"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

const (
	DefaultBaseURL          = "http://localhost:8000"
	DefaultChatPath         = "/chat/"
	DefaultProbePath        = "/"
	DefaultImageTimeoutSecs = 30
	DefaultMaxUploadMB      = 200
	DefaultBreakpointUnits  = 768
	DefaultCellWidthUnits   = 8
)

// Default returns a Config with sensible default values.
func Default() *Config {
	dir := dataDir()
	return &Config{
		Server: ServerConfig{
			BaseURL:          DefaultBaseURL,
			ChatPath:         DefaultChatPath,
			ProbePath:        DefaultProbePath,
			ImageTimeoutSecs: DefaultImageTimeoutSecs,
			MaxUploadMB:      DefaultMaxUploadMB,
		},
		UI: UIConfig{
			BreakpointUnits: DefaultBreakpointUnits,
			CellWidthUnits:  DefaultCellWidthUnits,
			Mouse:           true,
		},
		Storage: StorageConfig{
			PrefsPath: filepath.Join(dir, "prefs.db"),
		},
		Log: LogConfig{
			Path: filepath.Join(dir, "datachat.log"),
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the datachat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".datachat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// dataDir is ConfigDir with a working-directory fallback for environments
// without a home directory.
func dataDir() string {
	dir, err := ConfigDir()
	if err != nil {
		return ".datachat"
	}
	return dir
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the configuration from path, or from ConfigPath when path is
// empty. A missing file is not an error: defaults are used. Environment
// overrides are applied last, after LoadDotEnv has had a chance to populate
// the environment.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			p = ""
		}
		path = p
	}

	cfg := Default()
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, statErr)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep the
// values already in cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return ValidateErrors{{Field: strings.Join(keys, ", "), Message: "unknown key"}}
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file in dir into the process
// environment. Variables that are already set win. A missing file is ignored.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# datachat configuration file")
	fmt.Fprintln(&buf, "# Generated by datachat - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Server.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, ValidationError{
			Field:   "server.base_url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, ValidationError{
			Field:   "server.base_url",
			Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme),
		})
	case u.Host == "":
		errs = append(errs, ValidationError{
			Field:   "server.base_url",
			Message: "missing host",
		})
	}

	for field, p := range map[string]string{
		"server.chat_path":  c.Server.ChatPath,
		"server.probe_path": c.Server.ProbePath,
	} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, ValidationError{Field: field, Message: "must start with /"})
		}
	}

	if c.Server.ImageTimeoutSecs < 1 || c.Server.ImageTimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "server.image_timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.Server.ImageTimeoutSecs),
		})
	}
	if c.Server.MaxUploadMB < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.max_upload_mb",
			Message: "cannot be negative",
		})
	}

	if c.UI.BreakpointUnits < 0 {
		errs = append(errs, ValidationError{
			Field:   "ui.breakpoint_units",
			Message: "cannot be negative",
		})
	}
	if c.UI.CellWidthUnits < 1 {
		errs = append(errs, ValidationError{
			Field:   "ui.cell_width_units",
			Message: "must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaults.Server.BaseURL
	}
	if c.Server.ChatPath == "" {
		c.Server.ChatPath = defaults.Server.ChatPath
	}
	if c.Server.ProbePath == "" {
		c.Server.ProbePath = defaults.Server.ProbePath
	}
	if c.Server.ImageTimeoutSecs == 0 {
		c.Server.ImageTimeoutSecs = defaults.Server.ImageTimeoutSecs
	}
	if c.UI.BreakpointUnits == 0 {
		c.UI.BreakpointUnits = defaults.UI.BreakpointUnits
	}
	if c.UI.CellWidthUnits == 0 {
		c.UI.CellWidthUnits = defaults.UI.CellWidthUnits
	}
	if c.Storage.PrefsPath == "" {
		c.Storage.PrefsPath = defaults.Storage.PrefsPath
	}
	if c.Log.Path == "" {
		c.Log.Path = defaults.Log.Path
	}
}

// Migrate normalizes values written by hand or by older releases.
func (c *Config) Migrate() error {
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")

	// Bare host:port values.
	if c.Server.BaseURL != "" && !strings.Contains(c.Server.BaseURL, "://") {
		c.Server.BaseURL = "http://" + c.Server.BaseURL
	}

	if c.Server.ChatPath != "" && !strings.HasPrefix(c.Server.ChatPath, "/") {
		c.Server.ChatPath = "/" + c.Server.ChatPath
	}
	if c.Server.ProbePath != "" && !strings.HasPrefix(c.Server.ProbePath, "/") {
		c.Server.ProbePath = "/" + c.Server.ProbePath
	}

	c.Storage.PrefsPath = expandHome(c.Storage.PrefsPath)
	c.Log.Path = expandHome(c.Log.Path)
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DATACHAT_URL: overrides server.base_url
//   - DATACHAT_PREFS: overrides storage.prefs_path
//   - DATACHAT_LOG: overrides log.path
//   - DATACHAT_DEBUG: set to "1" or "true" to enable debug logging
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DATACHAT_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("DATACHAT_PREFS"); v != "" {
		c.Storage.PrefsPath = v
	}
	if v := os.Getenv("DATACHAT_LOG"); v != "" {
		c.Log.Path = v
	}
	if v := os.Getenv("DATACHAT_DEBUG"); v != "" {
		c.Log.Debug = v == "1" || strings.EqualFold(v, "true")
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// ChatURL returns the absolute URL of the chat endpoint.
func (c *Config) ChatURL() string {
	return c.Server.BaseURL + c.Server.ChatPath
}

// ProbeURL returns the absolute URL of the liveness probe.
func (c *Config) ProbeURL() string {
	return c.Server.BaseURL + c.Server.ProbePath
}

// ImageTimeout returns the chart download timeout.
func (c *Config) ImageTimeout() time.Duration {
	return time.Duration(c.Server.ImageTimeoutSecs) * time.Second
}

// MaxUploadBytes returns the staged file size limit, or 0 for no limit.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "server.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				boolVal = strings.EqualFold(strVal, "yes")
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation, using the TOML
// key names.
func GetAllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// Clone returns a copy of the config. Config holds only value types.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the config as TOML for debugging output.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
