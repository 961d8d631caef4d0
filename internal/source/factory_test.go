package source

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"poolpower-site/internal/store"
	"poolpower-site/internal/types"
)

func TestNewByKind(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{store.SourcePublished, "published"},
		{store.SourceCSV, "csv"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			cfg := &store.Config{}
			cfg.Source.Kind = tt.kind
			src, err := New(context.Background(), cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if src.Name() != tt.want {
				t.Fatalf("Name() = %q, want %q", src.Name(), tt.want)
			}
		})
	}
}

func TestNewGSheetsMissingKey(t *testing.T) {
	cfg := &store.Config{}
	cfg.Source.Kind = store.SourceGSheets
	cfg.Source.CredentialsFile = filepath.Join(t.TempDir(), "nope.json")

	_, err := New(context.Background(), cfg)
	if !errors.Is(err, types.ErrCredentials) {
		t.Fatalf("err = %v, want ErrCredentials", err)
	}
}

func TestNewUnknownKind(t *testing.T) {
	cfg := &store.Config{}
	cfg.Source.Kind = "FTP"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
