package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GOOGLE_KEY_FILE", "")
	p := writeConfig(t, `
contact_id: "254700000000"
source:
  credentials_file: key.json
  resource_name: POOL POWER OPERATIONS DATA
`)

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Source.Kind != SourceGSheets {
		t.Errorf("Expected kind %s, got %s", SourceGSheets, cfg.Source.Kind)
	}
	if cfg.Source.TabName != "Deals" {
		t.Errorf("Expected tab Deals, got %s", cfg.Source.TabName)
	}
	if cfg.FetchTimeout().Seconds() != 60 {
		t.Errorf("Expected 60s fetch timeout, got %v", cfg.FetchTimeout())
	}
	if cfg.OutputPath() != filepath.Join("docs", "index.html") {
		t.Errorf("Unexpected output path %s", cfg.OutputPath())
	}
	if cfg.Site.TemplatePath != filepath.Join("docs", "index_template.html") {
		t.Errorf("Unexpected template path %s", cfg.Site.TemplatePath)
	}
	if len(cfg.Site.Assets) != 2 {
		t.Fatalf("Expected 2 default assets, got %d", len(cfg.Site.Assets))
	}
	if cfg.Resource() != "POOL POWER OPERATIONS DATA" {
		t.Errorf("Unexpected resource %q", cfg.Resource())
	}
}

func TestLoadConfigKeyFileFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_KEY_FILE", "/secrets/sa.json")
	p := writeConfig(t, `
contact_id: "254700000000"
source:
  credentials_file: key.json
  resource_id: abc123
`)

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Source.CredentialsFile != "/secrets/sa.json" {
		t.Errorf("Expected env key file, got %s", cfg.Source.CredentialsFile)
	}
	if cfg.Resource() != "abc123" {
		t.Errorf("Expected resource id fallback, got %q", cfg.Resource())
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv("GOOGLE_KEY_FILE", "")
	cases := map[string]string{
		"non-digit contact": `
contact_id: "+254 700"
source: {credentials_file: key.json, resource_name: x}
`,
		"missing contact": `
source: {credentials_file: key.json, resource_name: x}
`,
		"unknown kind": `
contact_id: "1"
source: {kind: FTP}
`,
		"gsheets without resource": `
contact_id: "1"
source: {credentials_file: key.json}
`,
		"gsheets without key": `
contact_id: "1"
source: {resource_name: x}
`,
		"csv without dir": `
contact_id: "1"
source: {kind: CSV}
`,
		"published bad url": `
contact_id: "1"
source: {kind: PUBLISHED, published_url: "not a url"}
`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), "config validation failed") {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigCSVResource(t *testing.T) {
	p := writeConfig(t, `
contact_id: "1"
source: {kind: CSV, csv_dir: fixtures}
site:
  assets: []
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Resource() != "fixtures" {
		t.Errorf("Expected csv dir as resource, got %q", cfg.Resource())
	}
	if len(cfg.Site.Assets) != 0 {
		t.Errorf("Expected explicit empty asset list to be kept, got %d", len(cfg.Site.Assets))
	}
}
