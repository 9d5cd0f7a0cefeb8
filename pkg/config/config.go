package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tool configuration.
type Config struct {
	SourceDir string   `yaml:"source_dir"`
	DestDir   string   `yaml:"dest_dir"`
	Files     []string `yaml:"files"` // basenames; each has a .json and a .gpx in source_dir
	Pretty    bool     `yaml:"pretty"`
	DryRun    bool     `yaml:"dry_run"`
	Precision int      `yaml:"precision"` // decimals kept on output coordinates, 0 = as authored
	Namespace string   `yaml:"namespace"` // property key prefix
	Bundle    string   `yaml:"bundle"`    // color bundle, relative to source_dir

	Log     LogSettings   `yaml:"log"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Metrics MetricsConfig `yaml:"metrics"`
	Build   BuildConfig   `yaml:"build"`
	Migrate MigrateConfig `yaml:"migrate"`
	Import  ImportConfig  `yaml:"import"`
}

// LogSettings holds logging settings.
type LogSettings struct {
	Path  string `yaml:"path"`  // empty = console only
	Level string `yaml:"level"` // DEBUG, INFO, WARN, ERROR
}

// LedgerConfig holds settings for the run history database.
type LedgerConfig struct {
	Path      string   `yaml:"path"`      // empty disables the ledger
	Retention Duration `yaml:"retention"` // finished runs older than this are pruned, 0 keeps all
}

// MetricsConfig holds settings for run counters.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node-exporter textfile, empty disables
}

// BuildConfig holds feature builder settings.
type BuildConfig struct {
	DataVersion      int               `yaml:"data_version"`
	Surfaces         map[string]string `yaml:"surfaces"` // trail id -> surface
	DefaultSurface   string            `yaml:"default_surface"`
	AllowsDirections []string          `yaml:"allows_directions"` // POI types navigable by default
	MaxSegmentColors int               `yaml:"max_segment_colors"`
}

// MigrateConfig holds schema migration tables.
type MigrateConfig struct {
	GPXWithPOIWaypoints []string           `yaml:"gpx_with_poi_waypoints"` // v1 files whose GPX already has POI waypoints
	TrailSystems        TrailSystemsConfig `yaml:"trail_systems"`
}

// ImportConfig holds park directory import settings.
type ImportConfig struct {
	Colors []string `yaml:"colors"` // trail color directory names
}

// TrailSystemsConfig drives the park to trail system promotion.
type TrailSystemsConfig struct {
	Promote  map[string]string `yaml:"promote"`  // park id -> trail system id
	Reassign map[string]string `yaml:"reassign"` // trail id -> trail system id
	Styled   []string          `yaml:"styled"`   // trails drawn in trail system style
	Blazed   []string          `yaml:"blazed"`   // reassigned trails that keep their blazes
}

// DefaultFiles is the list of source basenames.
var DefaultFiles = []string{
	"abe", "auburntr", "black_creek", "canal", "churchville_park", "city_parks", "corbetts",
	"crescenttr", "durand_eastman", "ellison", "gcanal", "gosnell", "gvalley", "highland",
	"hitor", "ibaymar", "ibaywest", "lehigh", "lmorin", "mponds", "nhamp", "oatka",
	"ontariob", "pmills", "senecapk", "senecatr", "tryon", "vht", "webstercp", "webstertr", "wrnp",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SourceDir: "map-data/source",
		DestDir:   "geojson",
		Files:     append([]string(nil), DefaultFiles...),
		Pretty:    true,
		Namespace: "trailsroc",
		Bundle:    "bundle.json",
		Log: LogSettings{
			Level: "INFO",
		},
		Ledger: LedgerConfig{
			Retention: Duration(90 * Day),
		},
		Build: BuildConfig{
			DataVersion: 5,
			Surfaces: map[string]string{
				"trail-lehigh-valley-main": "gravel",
				"trail-lvt-auburntr-ramp":  "gravel",
				"trail-ecanal-main":        "paved",
				"trail-pmills-roads":       "road",
			},
			DefaultSurface: "singletrack",
			AllowsDirections: []string{
				"point-boatLaunch", "point-lodge", "point-parking", "point-smparking", "point-shelter",
			},
			MaxSegmentColors: 3,
		},
		Migrate: MigrateConfig{
			GPXWithPOIWaypoints: []string{"auburntr", "vht", "canal", "city_parks", "corbetts"},
			TrailSystems:        defaultTrailSystems(),
		},
		Import: ImportConfig{
			Colors: []string{
				"black", "blue", "brown", "dark_green", "grass", "green", "orange",
				"pink", "purple", "red", "sky", "teal", "white", "yellow",
			},
		},
	}
}

// Load reads the config at path, writing defaults there when it does not
// exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Environment wins over the file but is never saved back
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRAILSROC_SOURCE_DIR"); v != "" {
		cfg.SourceDir = v
	}
	if v := os.Getenv("TRAILSROC_DEST_DIR"); v != "" {
		cfg.DestDir = v
	}
	if v := os.Getenv("TRAILSROC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TRAILSROC_LEDGER_PATH"); v != "" {
		cfg.Ledger.Path = v
	}
}

var reNamespace = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if !reNamespace.MatchString(c.Namespace) {
		return fmt.Errorf("invalid namespace '%s': must be a plain identifier", c.Namespace)
	}
	if c.Precision < 0 || c.Precision > 15 {
		return fmt.Errorf("invalid precision %d: must be between 0 and 15", c.Precision)
	}
	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("invalid log level '%s'", c.Log.Level)
	}
	if c.Ledger.Retention < 0 {
		return fmt.Errorf("invalid ledger retention %v", time.Duration(c.Ledger.Retention))
	}
	if c.Build.DataVersion < 4 {
		return fmt.Errorf("invalid build data_version %d: must be 4 or later", c.Build.DataVersion)
	}
	return nil
}

// BundlePath returns the bundle location, resolved against SourceDir.
func (c *Config) BundlePath() string {
	if c.Bundle == "" || filepath.IsAbs(c.Bundle) {
		return c.Bundle
	}
	return filepath.Join(c.SourceDir, c.Bundle)
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# trailsroc configuration
# ---------------------
# Environment overrides: TRAILSROC_SOURCE_DIR, TRAILSROC_DEST_DIR,
# TRAILSROC_LOG_LEVEL, TRAILSROC_LEDGER_PATH (also read from .env)

`)
	data = append(header, data...)

	reLevel := regexp.MustCompile(`(?m)^(\s+)level:`)
	data = reLevel.ReplaceAll(data, []byte("${1}# Options: DEBUG, INFO, WARN, ERROR\n${1}level:"))

	reVersion := regexp.MustCompile(`(?m)^(\s+)data_version:`)
	data = reVersion.ReplaceAll(data, []byte("${1}# Source documents must be at this version (4 is also accepted)\n${1}data_version:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
