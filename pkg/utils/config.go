package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the hipiad configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Evaluate EvaluateConfig `yaml:"evaluate" mapstructure:"evaluate"`
	Sample   SampleConfig   `yaml:"sample" mapstructure:"sample"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// CatalogConfig controls the catalog-solution source.
type CatalogConfig struct {
	VizierURL string `yaml:"vizier_url" mapstructure:"vizier_url"`
	CachePath string `yaml:"cache_path" mapstructure:"cache_path"`
}

// DataConfig locates the intermediate astrometric data on disk.
type DataConfig struct {
	IADDir string `yaml:"iad_dir" mapstructure:"iad_dir"`
}

// EvaluateConfig tunes the batch evaluator.
type EvaluateConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// SampleConfig controls candidate generation around the catalog solution.
type SampleConfig struct {
	Count       int     `yaml:"count" mapstructure:"count"`
	OffsetSigma float64 `yaml:"offset_sigma" mapstructure:"offset_sigma"` // [mas]
	Seed        uint64  `yaml:"seed" mapstructure:"seed"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	hipiadDir := filepath.Join(homeDir, ".hipiad")

	return &Config{
		Catalog: CatalogConfig{
			VizierURL: "", // empty selects the built-in endpoint
			CachePath: filepath.Join(hipiadDir, "catalog.db"),
		},
		Data: DataConfig{
			IADDir: filepath.Join(hipiadDir, "iad"),
		},
		Evaluate: EvaluateConfig{
			Workers: 0, // 0 selects GOMAXPROCS
		},
		Sample: SampleConfig{
			Count:       100000,
			OffsetSigma: 0.1,
			Seed:        0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// LoadConfig loads configuration from file or creates default.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	homeDir, _ := os.UserHomeDir()
	viper.AddConfigPath(filepath.Join(homeDir, ".hipiad"))
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("HIPIAD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createDefaultConfig()
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to file.
func SaveConfig(config *Config) error {
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".hipiad")
	configFile := filepath.Join(configDir, "config.yaml")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := createDirectories(config); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates and saves a default configuration.
func createDefaultConfig() (*Config, error) {
	config := DefaultConfig()

	if err := SaveConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Data.IADDir == "" {
		return fmt.Errorf("IAD data directory cannot be empty")
	}

	if config.Evaluate.Workers < 0 {
		return fmt.Errorf("evaluate workers cannot be negative")
	}

	if config.Sample.Count <= 0 {
		return fmt.Errorf("sample count must be positive")
	}

	if config.Sample.OffsetSigma < 0 {
		return fmt.Errorf("sample offset sigma cannot be negative")
	}

	switch config.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// createDirectories creates necessary directories based on config.
func createDirectories(config *Config) error {
	dirs := []string{
		filepath.Dir(config.Catalog.CachePath),
		config.Data.IADDir,
	}

	for _, dir := range dirs {
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".hipiad", "config.yaml"), nil
}
