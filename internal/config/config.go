package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/jchantrell/waddb/internal/cache"
)

type Config struct {
	Archives  []string `mapstructure:"archives"`
	Policy    string   `mapstructure:"policy"`
	Database  string   `mapstructure:"database"`
	Output    string   `mapstructure:"output"`
	CacheDir  string   `mapstructure:"cache_dir"`
	LogLevel  string   `mapstructure:"log_level"`
	LogFormat string   `mapstructure:"log_format"`
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	return load(viper.New(), cfgFile)
}

func load(v *viper.Viper, cfgFile string) (*Config, error) {
	v.SetDefault("archives", []string{})
	v.SetDefault("policy", PolicyFirst)
	v.SetDefault("database", "")
	v.SetDefault("output", "")
	v.SetDefault("cache_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("waddb")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName("waddb")
		v.SetConfigType("yaml")
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database == "" {
		cfg.Database = cfg.Cache().GetDatabasePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Cache returns the workspace the catalog and exports default into.
// An empty cache_dir means ~/.waddb.
func (c *Config) Cache() *cache.Cache {
	return cache.NewCache(c.CacheDir)
}

// Validate checks the values that cannot be defaulted. It is exported so
// the CLI can re-check after applying flag overrides.
func (c *Config) Validate() error {
	if err := validateArchives(c.Archives); err != nil {
		return fmt.Errorf("invalid archive configuration: %w", err)
	}

	if err := validatePolicy(c.Policy); err != nil {
		return fmt.Errorf("invalid policy configuration: %w", err)
	}

	if err := validateLogFormat(c.LogFormat); err != nil {
		return fmt.Errorf("invalid log configuration: %w", err)
	}

	return nil
}
