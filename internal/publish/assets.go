package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"poolpower-site/internal/logger"
	"poolpower-site/internal/store"
)

// Warning describes an asset that could not be published. Warnings never
// abort a run.
type Warning struct {
	Asset string
	Path  string
	Err   error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): %v", w.Asset, w.Path, w.Err)
}

// ErrAssetMissing marks an asset whose source file does not exist.
var ErrAssetMissing = errors.New("asset not found")

// Publisher copies static assets into the output directory.
type Publisher struct {
	outputDir string
}

func NewPublisher(outputDir string) *Publisher {
	return &Publisher{outputDir: outputDir}
}

// CopyAssets copies each asset to outputDir/<name>, overwriting existing
// files. Every failure is isolated to its asset and returned as a warning.
func (p *Publisher) CopyAssets(ctx context.Context, assets []store.Asset) []Warning {
	var warnings []Warning
	for _, a := range assets {
		dst := filepath.Join(p.outputDir, a.Name)
		copied, err := copyFile(a.Source, dst)
		if err != nil {
			w := Warning{Asset: a.Name, Path: a.Source, Err: err}
			if errors.Is(err, ErrAssetMissing) {
				logger.Warn(ctx, "Asset file not found, skipping", "asset", a.Name, "path", a.Source)
			} else {
				logger.ErrorWithErr(ctx, "Failed to copy asset", err, "asset", a.Name, "path", a.Source)
			}
			warnings = append(warnings, w)
			continue
		}
		if copied {
			logger.Info(ctx, "Copied asset", "asset", a.Name, "from", a.Source, "to", dst)
		} else {
			logger.Debug(ctx, "Asset already in place", "asset", a.Name, "path", dst)
		}
	}
	return warnings
}

// copyFile reports false when src and dst are the same file.
func copyFile(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", ErrAssetMissing, src)
		}
		return false, err
	}
	if srcInfo.IsDir() {
		return false, fmt.Errorf("%s is a directory", src)
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}

	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return false, err
	}
	return true, out.Close()
}
