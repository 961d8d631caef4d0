package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceGSheets   = "GSHEETS"
	SourcePublished = "PUBLISHED"
	SourceCSV       = "CSV"
)

// Asset is a static file copied next to the generated page.
type Asset struct {
	Name   string `yaml:"name" validate:"required"`
	Source string `yaml:"source" validate:"required"`
}

type Config struct {
	ContactID string `yaml:"contact_id" validate:"required,number"`
	Source    struct {
		Kind                string `yaml:"kind" validate:"oneof=GSHEETS PUBLISHED CSV"`
		CredentialsFile     string `yaml:"credentials_file" validate:"required_if=Kind GSHEETS"`
		ResourceName        string `yaml:"resource_name"`
		ResourceID          string `yaml:"resource_id"`
		TabName             string `yaml:"tab_name" validate:"required"`
		PublishedURL        string `yaml:"published_url" validate:"required_if=Kind PUBLISHED,omitempty,url"`
		CSVDir              string `yaml:"csv_dir" validate:"required_if=Kind CSV"`
		FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds" validate:"gte=0"`
	} `yaml:"source"`
	Site struct {
		TemplatePath string  `yaml:"template_path" validate:"required"`
		OutputDir    string  `yaml:"output_dir" validate:"required"`
		OutputFile   string  `yaml:"output_file" validate:"required"`
		Assets       []Asset `yaml:"assets" validate:"dive"`
	} `yaml:"site"`
	Render struct {
		EscapeHTML bool `yaml:"escape_html"`
	} `yaml:"render"`
	BuildLog struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days" validate:"gte=0"`
	} `yaml:"build_log"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Source.Kind == SourceGSheets && c.Source.ResourceName == "" && c.Source.ResourceID == "" {
		return errors.New("source.resource_name or source.resource_id must be set for GSHEETS")
	}
	return nil
}

// Resource returns the identifier handed to the record source for the
// configured kind.
func (c *Config) Resource() string {
	switch c.Source.Kind {
	case SourcePublished:
		return c.Source.PublishedURL
	case SourceCSV:
		return c.Source.CSVDir
	default:
		if c.Source.ResourceName != "" {
			return c.Source.ResourceName
		}
		return c.Source.ResourceID
	}
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Source.FetchTimeoutSeconds) * time.Second
}

func (c *Config) OutputPath() string {
	return filepath.Join(c.Site.OutputDir, c.Site.OutputFile)
}

// ConfigPath returns SITE_CONFIG when set, otherwise config.yaml.
func ConfigPath() string {
	if v := os.Getenv("SITE_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Source.Kind == "" {
		c.Source.Kind = SourceGSheets
	}
	if c.Source.TabName == "" {
		c.Source.TabName = "Deals"
	}
	if c.Source.FetchTimeoutSeconds == 0 {
		c.Source.FetchTimeoutSeconds = 60
	}
	if v := os.Getenv("GOOGLE_KEY_FILE"); v != "" {
		c.Source.CredentialsFile = v
	}
	if c.Site.OutputDir == "" {
		c.Site.OutputDir = "docs"
	}
	if c.Site.OutputFile == "" {
		c.Site.OutputFile = "index.html"
	}
	if c.Site.TemplatePath == "" {
		c.Site.TemplatePath = filepath.Join(c.Site.OutputDir, "index_template.html")
	}
	if c.Site.Assets == nil {
		c.Site.Assets = []Asset{
			{Name: "style.css", Source: filepath.Join(c.Site.OutputDir, "style.css")},
			{Name: "script.js", Source: filepath.Join(c.Site.OutputDir, "script.js")},
		}
	}
	if c.BuildLog.Dir == "" {
		c.BuildLog.Dir = filepath.Join("logs", "builds")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
