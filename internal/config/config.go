package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	HackerNews HackerNews `mapstructure:"hackernews"`
	Fetch      Fetch      `mapstructure:"fetch"`
	LLM        LLM        `mapstructure:"llm"`
	Scoring    Scoring    `mapstructure:"scoring"`
	Server     Server     `mapstructure:"server"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// HackerNews holds HN Firebase API client configuration
type HackerNews struct {
	BaseURL       string `mapstructure:"base_url"`
	Timeout       string `mapstructure:"timeout"`
	MaxRetries    int    `mapstructure:"max_retries"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
}

// Fetch holds article extraction configuration
type Fetch struct {
	Timeout          string `mapstructure:"timeout"`
	MaxRetries       int    `mapstructure:"max_retries"`
	MaxConcurrent    int    `mapstructure:"max_concurrent"`
	MaxContentLength int    `mapstructure:"max_content_length"`
	UserAgent        string `mapstructure:"user_agent"`
}

// LLM holds summarizer backend configuration
type LLM struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	BatchSize   int     `mapstructure:"batch_size"`
}

// Scoring holds ranking configuration. The weights and the popularity
// ceiling are empirical tunables, kept configurable rather than baked in.
type Scoring struct {
	RelevanceWeight  float64 `mapstructure:"relevance_weight"`
	PopularityWeight float64 `mapstructure:"popularity_weight"`
	MaxHNScore       int     `mapstructure:"max_hn_score"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	ReadTimeout  string   `mapstructure:"read_timeout"`
	WriteTimeout string   `mapstructure:"write_timeout"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

var globalConfig *Config

// Load loads the configuration from config file, environment variables,
// and .env file, in the usual viper precedence order.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".hnherald")
		viper.SetConfigType("yaml")
	}

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = viper.BindEnv("llm.api_key", "GEMINI_API_KEY")

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

// Get returns the global configuration, loading it if necessary
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

// Reset clears the cached configuration. Intended for tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	// HackerNews defaults
	viper.SetDefault("hackernews.base_url", "https://hacker-news.firebaseio.com/v0")
	viper.SetDefault("hackernews.timeout", "30s")
	viper.SetDefault("hackernews.max_retries", 3)
	viper.SetDefault("hackernews.max_concurrent", 10)

	// Fetch defaults
	viper.SetDefault("fetch.timeout", "15s")
	viper.SetDefault("fetch.max_retries", 3)
	viper.SetDefault("fetch.max_concurrent", 10)
	viper.SetDefault("fetch.max_content_length", 8000)
	viper.SetDefault("fetch.user_agent", "hnherald/1.0")

	// LLM defaults
	viper.SetDefault("llm.model", "gemini-flash-lite-latest")
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.max_tokens", 8192)
	viper.SetDefault("llm.batch_size", 5)

	// Scoring defaults
	viper.SetDefault("scoring.relevance_weight", 0.7)
	viper.SetDefault("scoring.popularity_weight", 0.3)
	viper.SetDefault("scoring.max_hn_score", 500)

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "60s")
	viper.SetDefault("server.cors_origins", []string{"*"})
}

func validateConfig(config *Config) error {
	if config.Scoring.RelevanceWeight < 0 || config.Scoring.PopularityWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if config.Scoring.RelevanceWeight+config.Scoring.PopularityWeight > 1.0 {
		return fmt.Errorf("scoring weights must not sum above 1.0")
	}
	if config.Scoring.MaxHNScore <= 0 {
		return fmt.Errorf("scoring.max_hn_score must be positive")
	}
	if config.LLM.BatchSize < 1 {
		return fmt.Errorf("llm.batch_size must be at least 1")
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number")
	}
	return nil
}
