// Package config loads the trainer configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageJSON     = "json"
)

// Config holds all application configuration
type Config struct {
	TelegramToken   string `mapstructure:"telegram_bot_token"`
	AllowedUsers    string `mapstructure:"allowed_user_ids" validate:"omitempty,userids"`
	DBType          string `mapstructure:"db_type" validate:"required,oneof=sqlite postgres json"`
	DatabaseURL     string `mapstructure:"database_url" validate:"required_if=DBType postgres"`
	DataDir         string `mapstructure:"data_dir" validate:"required"`
	CatalogPath     string `mapstructure:"catalog_path" validate:"required"`
	EnableScheduler bool   `mapstructure:"enable_scheduler"`
	ReminderTime    string `mapstructure:"reminder_time" validate:"omitempty,clock"`
	AutosaveMinutes int    `mapstructure:"autosave_minutes" validate:"min=0,max=1440"`
	LogMode         string `mapstructure:"log_mode" validate:"oneof=dev prod"`
	userIDs         []int64
}

var defaults = map[string]interface{}{
	"telegram_bot_token": "",
	"allowed_user_ids":   "",
	"db_type":            StorageSQLite,
	"database_url":       "",
	"data_dir":           "data",
	"catalog_path":       filepath.Join("data", "words.csv"),
	"enable_scheduler":   true,
	"reminder_time":      "09:00",
	"autosave_minutes":   5,
	"log_mode":           "dev",
}

// Load reads the given .env files (".env" when none are given), then the
// environment, and validates the result. Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.userIDs, _ = parseUserIDs(cfg.AllowedUsers)
	return &cfg, nil
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s: failed %q check (value %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// AllowedUserIDs returns the Telegram users the bot answers
func (c *Config) AllowedUserIDs() []int64 {
	return c.userIDs
}

// RequireBot checks the settings needed to run the Telegram bot
func (c *Config) RequireBot() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	if len(c.userIDs) == 0 {
		return errors.New("ALLOWED_USER_IDS is not set: the bot serves only its owner")
	}
	return nil
}

// ProgressDir is where JSON snapshots and exports are written
func (c *Config) ProgressDir() string {
	return c.DataDir
}

// SQLiteDSN is the database file used when DB_TYPE is sqlite and no
// DATABASE_URL is given
func (c *Config) SQLiteDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return filepath.Join(c.DataDir, "engtrainer.db")
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToUpper(f.Tag.Get("mapstructure"))
	})
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("userids", func(fl validator.FieldLevel) bool {
		_, err := parseUserIDs(fl.Field().String())
		return err == nil
	})
	return validate
}

func parseUserIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
