package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Digest  Digest  `mapstructure:"digest"`
	Library Library `mapstructure:"library"`
	AI      AI      `mapstructure:"ai"`
	Cache   Cache   `mapstructure:"cache"`
	TTS     TTS     `mapstructure:"tts"`
	Store   Store   `mapstructure:"store"`
}

// Digest holds digest job configuration.
type Digest struct {
	// DefinitionURL is the remote location of the digest definition
	// document. The job refuses to start without it.
	DefinitionURL string `mapstructure:"definition_url"`
	Timeout       string `mapstructure:"timeout"`
}

// Library holds the saved-item search service configuration.
type Library struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Timeout  string `mapstructure:"timeout"`
}

// AI holds LLM configuration.
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration.
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

// Cache holds the profile cache configuration.
type Cache struct {
	RedisURL string `mapstructure:"redis_url"`
}

// TTS holds text-to-speech configuration.
type TTS struct {
	Provider        string  `mapstructure:"provider"`
	Voice           string  `mapstructure:"voice"`
	Speed           float64 `mapstructure:"speed"`
	OutputDirectory string  `mapstructure:"output_directory"`
	OpenAIAPIKey    string  `mapstructure:"openai_api_key"`
}

// Store holds digest persistence configuration.
type Store struct {
	DataDir string `mapstructure:"data_dir"`
}

var globalConfig *Config

// Load loads the configuration from the optional config file, .env file and
// environment variables.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".briefcast")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached global configuration. Used by tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	viper.SetDefault("digest.timeout", "120s")

	viper.SetDefault("library.timeout", "30s")

	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash-preview-05-20")
	viper.SetDefault("ai.gemini.temperature", 0.3)

	viper.SetDefault("tts.provider", "openai")
	viper.SetDefault("tts.voice", "alloy")
	viper.SetDefault("tts.speed", 1.0)
	viper.SetDefault("tts.output_directory", "audio")

	viper.SetDefault("cache.redis_url", "redis://localhost:6379")

	viper.SetDefault("store.data_dir", ".briefcast-data")
}

func bindEnvironmentVariables() {
	bindEnvKeys("digest.definition_url", []string{
		"DIGEST_DEFINITION_URL",
		"BRIEFCAST_DEFINITION_URL",
	})

	bindEnvKeys("library.endpoint", []string{
		"LIBRARY_SEARCH_ENDPOINT",
	})
	bindEnvKeys("library.api_key", []string{
		"LIBRARY_API_KEY",
	})

	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("tts.openai_api_key", []string{
		"OPENAI_API_KEY",
	})

	bindEnvKeys("cache.redis_url", []string{
		"REDIS_URL",
		"KV_URL",
	})
}

// bindEnvKeys binds a config key to multiple environment variable names,
// first match wins.
func bindEnvKeys(configKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if err := viper.BindEnv(configKey, envKey); err != nil {
			fmt.Printf("Warning: failed to bind %s to %s: %v\n", configKey, envKey, err)
		}
	}
}

func validateConfig(config *Config) error {
	if config.TTS.Speed < 0.5 || config.TTS.Speed > 2.0 {
		return fmt.Errorf("tts.speed must be between 0.5 and 2.0, got %v", config.TTS.Speed)
	}
	if config.Library.Endpoint != "" && !strings.HasPrefix(config.Library.Endpoint, "http") {
		return fmt.Errorf("library.endpoint must be an http(s) URL, got %q", config.Library.Endpoint)
	}
	return nil
}
