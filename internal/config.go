package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/notion2hugo/internal/notion"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Hugo   HugoConfig        `yaml:"hugo"`
	Notion NotionConfig      `yaml:"notion"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Hugo.Validate(); err != nil {
		return err
	}
	return c.Notion.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	Workers  int        `yaml:"workers"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(64)),
	)
}

// HugoConfig holds the destination side.
type HugoConfig struct {
	PostsDir string `yaml:"posts_dir"`
}

// Validate validates the Hugo configuration.
func (c *HugoConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PostsDir, validation.Required, validation.By(isDir)),
	)
}

// NotionConfig holds the source side.
type NotionConfig struct {
	Token     string        `yaml:"token"`
	RootBlock string        `yaml:"root_block"`
	BaseURL   string        `yaml:"base_url"`
	Version   string        `yaml:"version"`
	Timeout   time.Duration `yaml:"timeout"`
	Retries   int           `yaml:"retries"`
}

// Validate validates the Notion configuration.
func (c *NotionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Token, validation.Required.Error("notion token is required")),
		validation.Field(&c.RootBlock, validation.Required, validation.By(isBlockID)),
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Version, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Retries, validation.Min(0), validation.Max(10)),
	)
}

func isDir(value any) error {
	path, _ := value.(string)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.IsDir() {
		return errors.New("must be a directory")
	}
	return nil
}

func isBlockID(value any) error {
	id, _ := value.(string)
	if id == "" {
		return nil
	}
	_, err := notion.NormalizeID(id)
	return err
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Workers:  4,
		},
		Hugo: HugoConfig{
			PostsDir: "./content/posts",
		},
		Notion: NotionConfig{
			BaseURL: notion.DefaultBaseURL,
			Version: notion.DefaultVersion,
			Timeout: 30 * time.Second,
			Retries: 3,
		},
	}
}
