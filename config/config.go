package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LLMProvider defines the structure for LLM provider configuration.
// The APIKey field in the YAML file names the environment variable that
// holds the actual key; LoadConfig resolves it.
type LLMProvider struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// SchedulingDefaults are the hard-coded boundary conditions used whenever a
// user has no stored preferences.
type SchedulingDefaults struct {
	WorkStart  string `mapstructure:"work_start"`
	WorkEnd    string `mapstructure:"work_end"`
	LunchStart string `mapstructure:"lunch_start"`
	LunchEnd   string `mapstructure:"lunch_end"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string // "memory" or a file path for SQLite
	}
	LLMProviders   map[string]LLMProvider `mapstructure:"llm_providers"` // provider key -> provider config
	LLMModels      map[string]string      `mapstructure:"llm_models"`    // model name -> provider key
	ReasoningModel string                 `mapstructure:"reasoning_model"`
	Scheduling     SchedulingDefaults     `mapstructure:"scheduling"`
}

// AppConfig is the global configuration instance.
var AppConfig Config

// LoadConfig loads configuration from file and environment variables.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../config") // for running from locations like tests

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.dsn", "memory")
	viper.SetDefault("reasoning_model", "gpt-4o-mini")
	viper.SetDefault("scheduling.work_start", "09:00")
	viper.SetDefault("scheduling.work_end", "17:00")
	viper.SetDefault("scheduling.lunch_start", "12:00")
	viper.SetDefault("scheduling.lunch_end", "13:00")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	// Environment variable overrides
	if port := os.Getenv("SERVER_PORT"); port != "" {
		AppConfig.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		AppConfig.Database.DSN = dsn
		log.Printf("INFO: [Config] Database DSN overridden by environment variable DATABASE_DSN.")
	}

	// Load API keys for LLM providers from environment variables.
	for providerKey, providerConfig := range AppConfig.LLMProviders {
		envVarNameForKey := providerConfig.APIKey
		if envValue := os.Getenv(envVarNameForKey); envValue != "" {
			updatedConfig := providerConfig
			updatedConfig.APIKey = envValue
			AppConfig.LLMProviders[providerKey] = updatedConfig
			log.Printf("INFO: [Config] Loaded API Key for provider '%s' from environment variable '%s'.", providerKey, envVarNameForKey)
		} else if providerConfig.APIKey != "" && !strings.HasSuffix(providerConfig.APIKey, "_KEY") {
			log.Printf("WARN: [Config] API Key for provider '%s' is directly set in config.yaml and not overridden by env var '%s'. Consider using env vars for keys.", providerKey, envVarNameForKey)
		} else {
			log.Printf("WARN: [Config] API Key for provider '%s' (env var '%s') is not set.", providerKey, envVarNameForKey)
		}
	}

	log.Println("INFO: [Config] Configuration loading complete.")
}
