// Package configs manages application configuration: server, storage,
// capability tokens, rate limiting, abuse tracking, logging and metrics.
// Multiple formats are supported (YAML, JSON, TOML, dotenv) with optional
// hot reload.
//
// Example:
//
//	if err := configs.InitConfig("./"); err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := configs.GetConfig()
//	fmt.Println(cfg.Server.Port)
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type (
	// AppConfig is the root application configuration.
	AppConfig struct {
		Server    ServerConfig    `mapstructure:"server"`
		Storage   StorageConfig   `mapstructure:"storage"`
		S3        S3Config        `mapstructure:"s3"`
		Token     TokenConfig     `mapstructure:"token"`
		RateLimit RateLimitConfig `mapstructure:"rate_limit"`
		Abuse     AbuseConfig     `mapstructure:"abuse"`
		Log       LogConfig       `mapstructure:"log"`
		Metrics   MetricsConfig   `mapstructure:"metrics"`
	}
)

var (
	globalConfig AppConfig
	appViper     *viper.Viper
)

// InitConfig loads the application configuration from a file or directory
// path, applies defaults and environment overrides (prefix PDFVAULT), and
// optionally watches the config file for changes.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(path + "/configs")

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}
		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("PDFVAULT")

	// A missing config file is fine: defaults plus env cover every key.
	if err := appViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			if _, statErr := os.Stat(appViper.ConfigFileUsed()); statErr == nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig  ServerConfig
		storageConfig StorageConfig
		s3Config      S3Config
		tokenConfig   TokenConfig
		rateConfig    RateLimitConfig
		abuseConfig   AbuseConfig
		logConfig     LogConfig
		metricsConfig MetricsConfig
	)

	serverConfig.setDefaults(v)
	storageConfig.setDefaults(v)
	s3Config.setDefaults(v)
	tokenConfig.setDefaults(v)
	rateConfig.setDefaults(v)
	abuseConfig.setDefaults(v)
	logConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig returns the global configuration instance.
func GetConfig() *AppConfig {
	return &globalConfig
}

// GetViper returns the underlying viper instance.
func GetViper() *viper.Viper {
	return appViper
}
