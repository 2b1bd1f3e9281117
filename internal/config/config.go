package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Log    LogConfig    `mapstructure:"log"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model" validate:"required"`
}

type LogConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
	Level     string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/bckl")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("log.directory", defaultLogDirectory())
	v.SetDefault("log.level", "info")

	// Bind OpenAI config to environment variables only (not from config file)
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "BACKLOG_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind BACKLOG_MODEL environment variable: %w", err)
	}

	// Bind log config to environment variables
	if err := v.BindEnv("log.directory", "BACKLOG_LOG_DIR"); err != nil {
		return nil, fmt.Errorf("failed to bind BACKLOG_LOG_DIR environment variable: %w", err)
	}
	if err := v.BindEnv("log.level", "BACKLOG_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind BACKLOG_LOG_LEVEL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Directory = expandHome(cfg.Log.Directory)

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// defaultLogDirectory is ~/.bckl, or .bckl under the working directory when
// the home directory cannot be resolved.
func defaultLogDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bckl"
	}
	return filepath.Join(home, ".bckl")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
