// Package publish reads the page template and writes the generated site.
package publish

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"poolpower-site/internal/types"
)

// LoadTemplate reads the page template. A missing or unreadable file is
// reported as ErrTemplateMissing.
func LoadTemplate(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: not found at %s", types.ErrTemplateMissing, path)
		}
		return "", fmt.Errorf("%w: %v", types.ErrTemplateMissing, err)
	}
	return string(b), nil
}

// WritePage creates the parent directory when needed and replaces path with
// page. The content goes to a temp file in the same directory first and is
// renamed into place, so readers never see a partial page.
func WritePage(path string, page types.Page) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp page: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(string(page)); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close page: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod page: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("move page into place: %w", err)
	}
	return nil
}
