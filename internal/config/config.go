package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/example/reviewbox/internal/reminder"
	"github.com/example/reviewbox/internal/storage"
	"github.com/example/reviewbox/pkg/validator"
)

type Config struct {
	Env      string          `mapstructure:"env" validate:"oneof=development production staging"`
	DataDir  string          `mapstructure:"data_dir" validate:"required"`
	Storage  storage.Config  `mapstructure:"storage" validate:"required"`
	Reminder reminder.Config `mapstructure:"reminder"`
}

// Init reads configs/<CONFIG_NAME>.yaml (default "default"), binds the
// environment overrides and validates the result
func Init() (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()

	configName := os.Getenv("CONFIG_NAME")
	if configName == "" {
		configName = "default"
	}

	v.AddConfigPath("configs")
	v.SetConfigName(configName)

	if err := v.BindEnv("data_dir", "DATA_DIR"); err != nil {
		return nil, fmt.Errorf("failed to bind DATA_DIR: %w", err)
	}
	if err := v.BindEnv("storage.type", "STORAGE_TYPE"); err != nil {
		return nil, fmt.Errorf("failed to bind STORAGE_TYPE: %w", err)
	}
	if err := v.BindEnv("storage.postgres.host", "DB_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_HOST: %w", err)
	}
	if err := v.BindEnv("storage.postgres.port", "DB_PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PORT: %w", err)
	}
	if err := v.BindEnv("storage.postgres.user", "DB_USER"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_USER: %w", err)
	}
	if err := v.BindEnv("storage.postgres.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD: %w", err)
	}
	if err := v.BindEnv("storage.postgres.name", "DB_NAME"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_NAME: %w", err)
	}
	if err := v.BindEnv("storage.postgres.ssl", "DB_SSL"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_SSL: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Config{}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
