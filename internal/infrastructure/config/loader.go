package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration for the current environment. Values come
// from a yaml file named after the environment, overridden by RS_-prefixed
// environment variables; a .env file is loaded first when present.
func LoadConfig() (*Config, error) {
	loadDotEnvFile()

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}
	setDefaults(v)

	v.SetEnvPrefix("RS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine: defaults plus environment variables apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Environment = env
	return &cfg, nil
}

// loadDotEnvFile loads the first .env file found on the known paths
func loadDotEnvFile() {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// getEnvironment resolves the runtime environment, defaulting to development
func getEnvironment() string {
	env := strings.ToLower(os.Getenv("RS_ENVIRONMENT"))
	switch env {
	case Production, Test:
		return env
	default:
		return Development
	}
}

// setDefaults applies defaults for non-critical settings
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)
	v.SetDefault("server.writeTimeout", 15)
	v.SetDefault("server.shutdownTimeout", 10)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.path", "relstore.db")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 5)
	v.SetDefault("database.connMaxIdleTime", 5)
	v.SetDefault("database.queryTimeout", 10)
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 5)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
}
