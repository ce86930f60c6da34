package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Version      int    `toml:"version"`
	Endpoint     string `toml:"endpoint"`      // trigger command URL
	CommandsFile string `toml:"commands_file"` // seed command set (JSON array)
	LogFile      string `toml:"log_file"`

	HTTP   HTTPSettings   `toml:"http"`
	Search SearchSettings `toml:"search"`
	UI     UISettings     `toml:"ui"`
	Opener OpenerSettings `toml:"opener"`
}

// HTTPSettings configures the trigger transport
type HTTPSettings struct {
	Timeout Duration          `toml:"timeout"`
	Headers map[string]string `toml:"headers"`
}

// SearchSettings configures live filtering and element search
type SearchSettings struct {
	Debounce       Duration `toml:"debounce"`
	ElementSearch  bool     `toml:"element_search"`
	ElementCommand string   `toml:"element_command"`
	ElementService string   `toml:"element_service"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Width               int    `toml:"width"`
	HTMLWidth           int    `toml:"html_width"`
	MaxVisible          int    `toml:"max_visible"`
	ToggleKey           string `toml:"toggle_key"`
	QuickSelectModifier string `toml:"quick_select_modifier"`
}

// OpenerSettings configures how urls and redirects are opened
type OpenerSettings struct {
	Command      string `toml:"command"`
	CopyFallback bool   `toml:"copy_fallback"`
}

// Duration is a time.Duration that reads and writes as a string ("600ms")
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

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

// NewConfigService creates a config service rooted at the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "cmdpal", "config.toml"),
	}
}

// NewConfigServiceAt creates a config service bound to a specific file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration from file, returning defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Missing keys keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise break the UI
func (c *Config) Validate() error {
	if c.UI.Width < 20 {
		return fmt.Errorf("ui.width must be at least 20, got %d", c.UI.Width)
	}
	if c.UI.HTMLWidth < c.UI.Width {
		c.UI.HTMLWidth = c.UI.Width
	}
	if c.UI.MaxVisible < 1 {
		return fmt.Errorf("ui.max_visible must be positive, got %d", c.UI.MaxVisible)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative")
	}
	switch c.UI.QuickSelectModifier {
	case "alt", "ctrl":
	default:
		return fmt.Errorf("ui.quick_select_modifier must be alt or ctrl, got %q", c.UI.QuickSelectModifier)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}

	return &Config{
		Version:  1,
		Endpoint: "http://localhost:8080/actions/command-palette/trigger",
		LogFile:  "cmdpal.log",
		HTTP: HTTPSettings{
			Timeout: Duration(15 * time.Second),
			Headers: map[string]string{},
		},
		Search: SearchSettings{
			Debounce:       Duration(600 * time.Millisecond),
			ElementSearch:  true,
			ElementCommand: "searchDirectly",
			ElementService: "search",
		},
		UI: UISettings{
			Width:               64,
			HTMLWidth:           100,
			MaxVisible:          10,
			ToggleKey:           "ctrl+p",
			QuickSelectModifier: "alt",
		},
		Opener: OpenerSettings{
			Command:      opener,
			CopyFallback: true,
		},
	}
}
