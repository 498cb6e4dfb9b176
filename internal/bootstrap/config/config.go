package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"propupkeep/internal/bootstrap/logging"
	"propupkeep/internal/errs"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Storage StorageConfig `mapstructure:"storage"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type OpenAIConfig struct {
	// APIKey may be empty: formatting is then unavailable but the rest of
	// the system keeps working.
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type LimitsConfig struct {
	MaxUploadMB   int `mapstructure:"max_upload_mb"`
	MaxInputChars int `mapstructure:"max_input_chars"`
}

func (c LimitsConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	DataFile   string `mapstructure:"data_file"`
	UploadsDir string `mapstructure:"uploads_dir"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("UPKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bare OPENAI_API_KEY is honored too so operators can reuse the
	// credential they already export for other tooling.
	if err := v.BindEnv("openai.api_key", "UPKEEP_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return Config{}, errs.Wrap(err, "bind api key env")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	switch strings.ToLower(cfg.Storage.Driver) {
	case "jsonl", "sqlite":
	default:
		return Config{}, errs.Wrapf(errors.New("unsupported storage driver"), "storage.driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.DataFile == "" {
		return Config{}, errors.New("storage.data_file is required")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.Bool("formatting_enabled", cfg.OpenAI.APIKey != ""),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "propupkeep")
	v.SetDefault("app.env", "development")

	v.SetDefault("openai.model", "gpt-4.1-mini")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.timeout_seconds", 45)

	v.SetDefault("limits.max_upload_mb", 5)
	v.SetDefault("limits.max_input_chars", 3000)

	v.SetDefault("storage.driver", "jsonl")
	v.SetDefault("storage.data_file", "data/activity.jsonl")
	v.SetDefault("storage.uploads_dir", "data/uploads")
}
