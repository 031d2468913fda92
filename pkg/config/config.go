package config

// Package config provides a reusable loader for the client's configuration
// file and environment variables. It is versioned so that applications can
// depend on a stable API contract.
//
// Version: v0.1.0

import (
	"time"

	"github.com/spf13/viper"

	"github.com/soulseekah/eosioclient/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified configuration for an eosioclient-based application.
// It mirrors the structure of config/default.yaml.
type Config struct {
	Endpoint                 string `mapstructure:"endpoint" json:"endpoint"`
	RPCTimeoutSeconds        int    `mapstructure:"rpc_timeout_seconds" json:"rpc_timeout_seconds"`
	LogLevel                 string `mapstructure:"log_level" json:"log_level"`
	DefaultExpirationSeconds int    `mapstructure:"default_expiration_seconds" json:"default_expiration_seconds"`
}

// RPCTimeout returns RPCTimeoutSeconds as a time.Duration.
func (c *Config) RPCTimeout() time.Duration {
	return time.Duration(c.RPCTimeoutSeconds) * time.Second
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig = Config{
	Endpoint:                 "https://mainnet.eosn.io",
	RPCTimeoutSeconds:        30,
	LogLevel:                 "info",
	DefaultExpirationSeconds: 30,
}

// Load reads config/default.yaml (if present), merges any environment
// specific overrides, and applies EOSIOCLIENT_-prefixed environment
// variables on top. The resulting configuration is stored in AppConfig and
// returned. A missing config file is not an error: the defaults above and
// any environment overrides still apply.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	viper.SetDefault("endpoint", AppConfig.Endpoint)
	viper.SetDefault("rpc_timeout_seconds", AppConfig.RPCTimeoutSeconds)
	viper.SetDefault("log_level", AppConfig.LogLevel)
	viper.SetDefault("default_expiration_seconds", AppConfig.DefaultExpirationSeconds)

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, utils.Wrap(err, "merge "+env+" config")
			}
		}
	}

	viper.SetEnvPrefix("EOSIOCLIENT")
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the EOSIOCLIENT_ENV environment
// variable to select an optional overlay file.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("EOSIOCLIENT_ENV", ""))
}
