package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override the config file
const (
	EnvAPIKey   = "FLICKR_API_KEY"
	EnvLogLevel = "PHOTOGRIP_LOG_LEVEL"
	EnvBaseURL  = "PHOTOGRIP_API_BASE_URL"
)

// PerPage is the fixed page size shared by the recent feed and search
const PerPage = 12

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version"`
	API     APIConfig     `toml:"api"`
	Search  SearchConfig  `toml:"search"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	UI      UISettings    `toml:"ui"`
}

// APIConfig configures the photo API client
type APIConfig struct {
	BaseURL           string   `toml:"base_url"`
	APIKey            string   `toml:"api_key"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

// SearchConfig configures the search engine
type SearchConfig struct {
	Debounce           Duration `toml:"debounce"`
	PerPage            int      `toml:"per_page"`
	SuggestionMinChars int      `toml:"suggestion_min_chars"`
	FetchTimeout       Duration `toml:"fetch_timeout"`
}

// StorageConfig configures suggestion persistence
type StorageConfig struct {
	Path string `toml:"path"`
}

// LogConfig configures the log file
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowURLs bool `toml:"show_urls"`
}

// Duration is a time.Duration stored as a string such as "500ms"
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", string(text))
	}
	d.Duration = parsed
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service rooted in the user config directory
func NewConfigService() ConfigService {
	return &configService{filePath: filepath.Join(Dir(), "config.toml")}
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// Dir returns the photogrip directory inside the user config directory
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "photogrip")
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, writing defaults when the file does not exist.
// Environment overrides are applied after the file is read.
func (cs *configService) Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cs.Save(cfg); err != nil {
			return nil, err
		}
		applyEnv(cfg)
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path.
// Missing keys keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL:           "https://api.flickr.com/services/rest",
			Timeout:           Duration{10 * time.Second},
			RequestsPerSecond: 5,
		},
		Search: SearchConfig{
			Debounce:           Duration{500 * time.Millisecond},
			PerPage:            PerPage,
			SuggestionMinChars: 3,
			FetchTimeout:       Duration{15 * time.Second},
		},
		Storage: StorageConfig{
			Path: filepath.Join(dir, "suggestions.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(dir, "photogrip.log"),
		},
		UI: UISettings{
			ShowURLs: true,
		},
	}
}

// Validate checks the configuration for values the engine cannot run with
func (c *Config) Validate() error {
	if c.API.APIKey == "" {
		return errors.Newf("api key is required (set api.api_key or %s)", EnvAPIKey)
	}
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.Search.PerPage != PerPage {
		return errors.Newf("search.per_page must be %d, got %d", PerPage, c.Search.PerPage)
	}
	if c.Search.Debounce.Duration <= 0 {
		return errors.New("search.debounce must be positive")
	}
	if c.Search.FetchTimeout.Duration <= 0 {
		return errors.New("search.fetch_timeout must be positive")
	}
	if c.API.Timeout.Duration <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Search.SuggestionMinChars < 1 {
		return errors.New("search.suggestion_min_chars must be at least 1")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.API.APIKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
}
