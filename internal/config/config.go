// Package config loads the shared gptkit configuration from defaults, an
// optional YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/sant0-9/gptkit/internal/apperr"
	"github.com/sant0-9/gptkit/internal/validate"
)

const appName = "gptkit"

type Config struct {
	Provider string        `mapstructure:"provider" validate:"required"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`

	Models  ModelsConfig  `mapstructure:"models"`
	Report  ReportConfig  `mapstructure:"report"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Prompts PromptsConfig `mapstructure:"prompts"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ModelsConfig names the model used for each kind of request.
type ModelsConfig struct {
	Chat          string `mapstructure:"chat" validate:"required"`
	Classifier    string `mapstructure:"classifier" validate:"required"`
	Report        string `mapstructure:"report" validate:"required"`
	Transcription string `mapstructure:"transcription" validate:"required"`
}

type ReportConfig struct {
	// Temperature must be above 0: the API drops a zero value and uses its own default.
	Temperature float32 `mapstructure:"temperature" validate:"gt=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gt=0"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type PromptsConfig struct {
	// Dir holds prompt overrides; a file there replaces the embedded prompt of the same name.
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	File   string `mapstructure:"file"` // optional rotated log file
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Load reads the configuration. If configFile is non-empty it must exist;
// otherwise gptkit.yaml is looked up in the working directory and in
// ~/.config/gptkit. Environment variables use the GPTKIT_ prefix
// (GPTKIT_MODELS_CHAT, GPTKIT_LOGGING_LEVEL, ...). The API key is also read
// from OPENAI_API_KEY. A .env file in the working directory is loaded first
// and never overrides variables that are already set.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", "GPTKIT_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file %s: %w", configFile, apperr.ErrMissingInput)
			}
			return nil, fmt.Errorf("reading config: %w", err)
		}
		log.Debug().Msg("no config file found, using defaults and environment")
	} else {
		log.Debug().Str("path", v.ConfigFileUsed()).Msg("loaded config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.APIKey = resolveEnvRef(cfg.APIKey)
	cfg.Catalog.Path = expandHome(cfg.Catalog.Path)
	cfg.Prompts.Dir = expandHome(cfg.Prompts.Dir)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	if cfg.Prompts.Dir == "" {
		if dir, err := ConfigDir(); err == nil {
			cfg.Prompts.Dir = filepath.Join(dir, "prompts")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "openai")
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", 5*time.Minute)
	v.SetDefault("models.chat", "gpt-3.5-turbo")
	v.SetDefault("models.classifier", "gpt-3.5-turbo-0125")
	v.SetDefault("models.report", "gpt-4")
	v.SetDefault("models.transcription", "whisper-1")
	v.SetDefault("report.temperature", 0.7)
	v.SetDefault("report.max_tokens", 2000)
	v.SetDefault("catalog.path", "products.json")
	v.SetDefault("prompts.dir", "")
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}

// Validate checks field constraints and that the provider is known.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidConfig, err)
	}
	p := GetProvider(c.Provider)
	if p == nil {
		return fmt.Errorf("%w: unknown provider %q", apperr.ErrInvalidConfig, c.Provider)
	}
	if p.ID == "custom" && c.BaseURL == "" {
		return fmt.Errorf("%w: custom provider requires base_url", apperr.ErrInvalidConfig)
	}
	return nil
}

// CredentialError reports a provider that needs an API key but has none.
// It matches apperr.ErrMissingCredential.
type CredentialError struct {
	Provider ProviderInfo
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s: set OPENAI_API_KEY (or api_key in %s.yaml) for provider %s",
		apperr.ErrMissingCredential, appName, e.Provider.Name)
}

func (e *CredentialError) Unwrap() error {
	return apperr.ErrMissingCredential
}

// RequireCredential fails with a *CredentialError when the configured
// provider needs an API key and none is set.
func (c *Config) RequireCredential() error {
	p := GetProvider(c.Provider)
	if p != nil && p.NeedsAPIKey && c.APIKey == "" {
		return &CredentialError{Provider: *p}
	}
	return nil
}

// resolveEnvRef replaces a "${VAR_NAME}" value with the variable's value.
// An unset variable resolves to "".
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
