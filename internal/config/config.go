// Package config loads vocasync configuration from YAML and the
// environment and resolves it into catalog instances.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sydlexius/vocasync/internal/catalog"
	"github.com/sydlexius/vocasync/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Languages []string                  `yaml:"languages"`
	Logging   logging.Config            `yaml:"logging"`
	Database  DatabaseConfig            `yaml:"database"`
	Defaults  Shared                    `yaml:"defaults"`
	Instances map[string]InstanceConfig `yaml:"instances"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Shared holds the settings that can be given once under defaults and
// overridden per instance. Nil means unset.
type Shared struct {
	Languages                   []string       `yaml:"languages"`
	SourceWeight                *float64       `yaml:"source_weight"`
	MismatchPenalty             *float64       `yaml:"data_source_mismatch_penalty"`
	SearchLimit                 *int           `yaml:"search_limit"`
	PreferRomaji                *bool          `yaml:"prefer_romaji"`
	TranslatedLyrics            *bool          `yaml:"translated_lyrics"`
	ImportLyrics                *bool          `yaml:"import_lyrics"`
	NoEmptyRoles                *bool          `yaml:"no_empty_roles"`
	IncludeFeaturedAlbumArtists *bool          `yaml:"include_featured_album_artists"`
	IgnoreVideoTracks           *bool          `yaml:"ignore_video_tracks"`
	VariousArtists              *string        `yaml:"va_string"`
	RequestsPerSecond           *float64       `yaml:"requests_per_second"`
	Timeout                     *time.Duration `yaml:"timeout"`
}

// InstanceConfig is the instance layer. Descriptor fields are required
// for instances that are not built in.
type InstanceConfig struct {
	Shared           `yaml:",inline"`
	DisplayName      string `yaml:"display_name"`
	BaseURL          string `yaml:"base_url"`
	APIURL           string `yaml:"api_url"`
	SubcommandPrefix string `yaml:"subcommand_prefix"`
}

// ErrConfigurationInvalid reports a setting that cannot be used.
type ErrConfigurationInvalid struct {
	Field  string
	Reason string
}

func (e *ErrConfigurationInvalid) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Fallback returns the hardcoded values used when neither the instance
// nor the defaults layer sets a field.
func Fallback() catalog.Settings {
	return catalog.Settings{
		Languages:         []string{"en"},
		SourceWeight:      0.5,
		MismatchPenalty:   0.5,
		SearchLimit:       5,
		ImportLyrics:      true,
		IgnoreVideoTracks: true,
		VariousArtists:    "Various artists",
		RequestsPerSecond: catalog.DefaultRequestsPerSecond,
		Timeout:           10 * time.Second,
	}
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	logCfg := logging.DefaultConfig()
	// Empty selects text on a terminal and JSON otherwise.
	logCfg.Format = ""
	return &Config{
		Languages: []string{"en"},
		Logging:   logCfg,
		Database: DatabaseConfig{
			Path: "vocasync.db",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence over the
// file's top-level and defaults values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML config data over the defaults and validates it
// without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() error {
	if v := os.Getenv("VOCASYNC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VOCASYNC_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("VOCASYNC_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
	if v := os.Getenv("VOCASYNC_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("VOCASYNC_LANGUAGES"); v != "" {
		c.Languages = splitList(v)
	}
	if v := os.Getenv("VOCASYNC_SEARCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ErrConfigurationInvalid{Field: "VOCASYNC_SEARCH_LIMIT", Reason: "not an integer"}
		}
		c.Defaults.SearchLimit = &n
	}
	if v := os.Getenv("VOCASYNC_SOURCE_WEIGHT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &ErrConfigurationInvalid{Field: "VOCASYNC_SOURCE_WEIGHT", Reason: "not a number"}
		}
		c.Defaults.SourceWeight = &f
	}
	return nil
}

func (c *Config) validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return &ErrConfigurationInvalid{Field: "logging.level", Reason: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	if c.Logging.Format != "" && !logging.ValidFormat(c.Logging.Format) {
		return &ErrConfigurationInvalid{Field: "logging.format", Reason: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	if c.Database.Path == "" {
		return &ErrConfigurationInvalid{Field: "database.path", Reason: "required"}
	}
	_, err := c.ResolveInstances()
	return err
}

// ResolveInstances merges the layers into one descriptor per instance:
// the built-in instances first in their fixed order, then custom
// instances sorted by name. For every setting the instance value wins,
// then the defaults value, then Fallback.
func (c *Config) ResolveInstances() ([]catalog.Instance, error) {
	var out []catalog.Instance
	for _, inst := range catalog.BuiltinInstances() {
		ic := c.Instances[inst.Name]
		applyDescriptor(&inst, ic)
		resolved, err := c.resolve(inst, ic.Shared)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}

	custom := make([]string, 0, len(c.Instances))
	for name := range c.Instances {
		if _, ok := catalog.Builtin(name); !ok {
			custom = append(custom, name)
		}
	}
	sort.Strings(custom)

	for _, name := range custom {
		ic := c.Instances[name]
		if ic.BaseURL == "" || ic.APIURL == "" {
			return nil, &ErrConfigurationInvalid{
				Field:  "instances." + name,
				Reason: "base_url and api_url are required for custom instances",
			}
		}
		inst := catalog.Instance{Name: name, DisplayName: name, SubcommandPrefix: name}
		applyDescriptor(&inst, ic)
		resolved, err := c.resolve(inst, ic.Shared)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}

	prefixes := make(map[string]string, len(out))
	for _, inst := range out {
		if other, ok := prefixes[inst.SubcommandPrefix]; ok {
			return nil, &ErrConfigurationInvalid{
				Field:  "instances." + inst.Name + ".subcommand_prefix",
				Reason: fmt.Sprintf("%q already used by %s", inst.SubcommandPrefix, other),
			}
		}
		prefixes[inst.SubcommandPrefix] = inst.Name
	}
	return out, nil
}

func applyDescriptor(inst *catalog.Instance, ic InstanceConfig) {
	if ic.DisplayName != "" {
		inst.DisplayName = ic.DisplayName
	}
	if ic.BaseURL != "" {
		inst.BaseURL = ic.BaseURL
	}
	if ic.APIURL != "" {
		inst.APIURL = ic.APIURL
	}
	if ic.SubcommandPrefix != "" {
		inst.SubcommandPrefix = ic.SubcommandPrefix
	}
}

func (c *Config) resolve(inst catalog.Instance, own Shared) (catalog.Instance, error) {
	s := Fallback()
	if len(c.Languages) > 0 {
		s.Languages = c.Languages
	}
	c.Defaults.apply(&s)
	own.apply(&s)
	inst.Settings = s

	field := func(name string) string { return "instances." + inst.Name + "." + name }
	switch {
	case s.SourceWeight < 0:
		return inst, &ErrConfigurationInvalid{Field: field("source_weight"), Reason: "must not be negative"}
	case s.MismatchPenalty < 0:
		return inst, &ErrConfigurationInvalid{Field: field("data_source_mismatch_penalty"), Reason: "must not be negative"}
	case s.SearchLimit < 1:
		return inst, &ErrConfigurationInvalid{Field: field("search_limit"), Reason: "must be at least 1"}
	case s.RequestsPerSecond <= 0:
		return inst, &ErrConfigurationInvalid{Field: field("requests_per_second"), Reason: "must be positive"}
	case s.Timeout <= 0:
		return inst, &ErrConfigurationInvalid{Field: field("timeout"), Reason: "must be positive"}
	case strings.TrimSpace(s.VariousArtists) == "":
		return inst, &ErrConfigurationInvalid{Field: field("va_string"), Reason: "must not be empty"}
	}
	return inst, nil
}

// apply copies every set field of l onto s.
func (l Shared) apply(s *catalog.Settings) {
	if len(l.Languages) > 0 {
		s.Languages = l.Languages
	}
	if l.SourceWeight != nil {
		s.SourceWeight = *l.SourceWeight
	}
	if l.MismatchPenalty != nil {
		s.MismatchPenalty = *l.MismatchPenalty
	}
	if l.SearchLimit != nil {
		s.SearchLimit = *l.SearchLimit
	}
	if l.PreferRomaji != nil {
		s.PreferRomaji = *l.PreferRomaji
	}
	if l.TranslatedLyrics != nil {
		s.TranslatedLyrics = *l.TranslatedLyrics
	}
	if l.ImportLyrics != nil {
		s.ImportLyrics = *l.ImportLyrics
	}
	if l.NoEmptyRoles != nil {
		s.NoEmptyRoles = *l.NoEmptyRoles
	}
	if l.IncludeFeaturedAlbumArtists != nil {
		s.IncludeFeaturedAlbumArtists = *l.IncludeFeaturedAlbumArtists
	}
	if l.IgnoreVideoTracks != nil {
		s.IgnoreVideoTracks = *l.IgnoreVideoTracks
	}
	if l.VariousArtists != nil {
		s.VariousArtists = *l.VariousArtists
	}
	if l.RequestsPerSecond != nil {
		s.RequestsPerSecond = *l.RequestsPerSecond
	}
	if l.Timeout != nil {
		s.Timeout = *l.Timeout
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
