package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "hoard"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all application configuration
type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Downloads DownloadsConfig `mapstructure:"downloads"`
	UI        UIConfig        `mapstructure:"ui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// StoreConfig holds the metadata store location
type StoreConfig struct {
	Dir string `mapstructure:"dir"` // Empty = memory only
}

// DownloadsConfig holds where downloaded files live
type DownloadsConfig struct {
	Dir string `mapstructure:"dir"` // Filesystem reported in the storage footer
}

// UIConfig holds UI configuration
type UIConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"` // 0 disables periodic refresh
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Dir: defaultDataPath(),
		},
		Downloads: DownloadsConfig{
			Dir: defaultDownloadsPath(),
		},
		UI: UIConfig{
			RefreshInterval: 5 * time.Second,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), appName+".log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// defaultDownloadsPath returns the default downloads directory
func defaultDownloadsPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Downloads")
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), defaultConfigPath(), ".")
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides, e.g. HOARD_STORE_DIR
	v.SetEnvPrefix("HOARD")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	for _, key := range []string{"store.dir", "downloads.dir", "ui.refresh_interval", "logging.file", "logging.level"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.New(), cfg, defaultConfigPath())
}

func saveConfig(v *viper.Viper, cfg *Config, configPath string) error {
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("store.dir", cfg.Store.Dir)
	v.Set("downloads.dir", cfg.Downloads.Dir)
	v.Set("ui.refresh_interval", cfg.UI.RefreshInterval.String())
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
