// pkg/config/load.go
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files, environment variables, and
// defaults. configPath is an optional path to a specific configuration
// file; when empty, "schemasync.yaml" is searched in standard locations.
func LoadConfig(configPath string) (Config, error) {
	v := viper.New()
	cfg := NewDefaultConfig()

	// 1. Defaults
	v.SetDefault("database.pool.maxIdleConns", cfg.Database.Pool.MaxIdleConns)
	v.SetDefault("database.pool.maxOpenConns", cfg.Database.Pool.MaxOpenConns)
	v.SetDefault("database.pool.connMaxLifetime", cfg.Database.Pool.ConnMaxLifetime)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	// 2. Environment variables
	v.SetEnvPrefix("SCHEMASYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Configuration file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("schemasync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.schemasync")
	}

	if err := v.ReadInConfig(); err != nil {
		// Only fatal when it's not "file not found" or when an explicit
		// path was given.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return cfg, fmt.Errorf("error reading configuration file: %w", err)
		}
	}

	// 4. Unmarshal
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshaling configuration: %w", err)
	}

	// 5. Validate
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, fmt.Sprintf("Field '%s' failed validation on '%s'", err.Namespace(), err.Tag()))
		}
		return cfg, fmt.Errorf("invalid configuration: %s", strings.Join(validationErrors, "; "))
	}

	return cfg, nil
}
