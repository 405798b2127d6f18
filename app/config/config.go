package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config.yaml"

	envCompletionToken   = "INNERVOICE_COMPLETION_TOKEN"
	envCompletionBaseURL = "INNERVOICE_COMPLETION_BASE_URL"
)

type Config struct {
	Log        Log        `yaml:"log"`
	Completion Completion `yaml:"completion"`
	Server     Server     `yaml:"server"`
	Storage    Storage    `yaml:"storage"`
	Chat       Chat       `yaml:"chat"`
	Speech     Speech     `yaml:"speech"`
}

type Completion struct {
	// OpenAI-compatible base url of the completion service
	BaseURL string `yaml:"base_url" example:"https://api.groq.com/openai/v1" validate:"required,url"`
	// Bearer token
	Token string `yaml:"token" example:"gsk_abc123456789DEF789ghi012JKL345mno678PQR901" validate:"required"`
	// Model identifier
	Model string `yaml:"model" example:"llama-3.3-70b-versatile" validate:"required"`
	// Sampling temperature
	Temperature float32 `yaml:"temperature" example:"0.7" validate:"gte=0,lte=2"`
	// Request timeout, expiry is reported as a service error
	Timeout time.Duration `yaml:"timeout" example:"30s" validate:"gt=0"`
}

type Server struct {
	// Listen address of the HTTP API
	Listen string `yaml:"listen" example:":8080" validate:"required"`
	// Max request body size in bytes, voice uploads included
	BodyLimit int `yaml:"body_limit" example:"4194304" validate:"gt=0"`
}

type Storage struct {
	// SQLite database file for moods, conversations and posts
	Path string `yaml:"path" example:"data/innervoice.db" validate:"required"`
}

type Chat struct {
	// Reply language used when the client does not send one
	DefaultLanguage string `yaml:"default_language" example:"en" validate:"required"`
	// Max number of turns kept per session history, 0 keeps everything
	HistoryLimit int `yaml:"history_limit" example:"50" validate:"gte=0"`
}

type Speech struct {
	// Yandex Cloud service account key for voice input, empty disables it
	KeyFile string `yaml:"key_file" example:"service-account-key.json"`
	// Recognition model
	Model string `yaml:"model" example:"general" validate:"required"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

// ConfigurationError reports a missing or invalid setting detected at startup.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func Default() Config {
	return Config{
		Completion: Completion{
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.7,
			Timeout:     30 * time.Second,
		},
		Server: Server{
			Listen:    ":8080",
			BodyLimit: 4 * 1024 * 1024,
		},
		Storage: Storage{
			Path: "data/innervoice.db",
		},
		Chat: Chat{
			DefaultLanguage: "en",
			HistoryLimit:    50,
		},
		Speech: Speech{
			Model: "general",
		},
	}
}

func Load(path string) (*Config, error) {
	result := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		if err = yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if v := os.Getenv(envCompletionToken); v != "" {
		result.Completion.Token = v
	}
	if v := os.Getenv(envCompletionBaseURL); v != "" {
		result.Completion.BaseURL = v
	}

	if err = Validate(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Validate checks the struct tags and converts the first violation into a ConfigurationError.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return oops.
			Code("configuration").
			Wrap(&ConfigurationError{
				Field:  fe.Namespace(),
				Reason: fmt.Sprintf("failed %q check", fe.Tag()),
			})
	}

	return oops.Errorf("failed to validate config: %w", err)
}
