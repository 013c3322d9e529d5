package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	LLM    LLMConfig
	OCR    OCRConfig
	Logger LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LLMConfig selects and configures the question generator backend.
// Source is either "ollama" or "openai".
type LLMConfig struct {
	Source       string
	Model        string
	ServerURL    string
	OpenAIAPIKey string `yaml:"openai_api_key"`
	Timeout      time.Duration
}

// OCRConfig configures the vision model used for text recognition.
type OCRConfig struct {
	Model string
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("llm.source", "ollama")
	viper.SetDefault("llm.model", "llama3.2")
	viper.SetDefault("llm.timeout", 120)
	viper.SetDefault("ocr.model", "llava")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults and environment variables apply.
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			Source:       viper.GetString("llm.source"),
			Model:        viper.GetString("llm.model"),
			ServerURL:    viper.GetString("llm.server"),
			OpenAIAPIKey: viper.GetString("openai_api_key"),
			Timeout:      viper.GetDuration("llm.timeout") * time.Second,
		},
		OCR: OCRConfig{
			Model: viper.GetString("ocr.model"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = viper.GetInt("SERVER_PORT")
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if llmSource := os.Getenv("LLM_SOURCE"); llmSource != "" {
		config.LLM.Source = llmSource
	}
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		config.LLM.ServerURL = llmServer
	}
	if llmModel := os.Getenv("LLM_MODEL"); llmModel != "" {
		config.LLM.Model = llmModel
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.LLM.OpenAIAPIKey = openAIKey
	}
	if ocrModel := os.Getenv("OCR_MODEL"); ocrModel != "" {
		config.OCR.Model = ocrModel
	}

	return config, nil
}
