// Package source builds the configured record source.
package source

import (
	"context"
	"fmt"

	"poolpower-site/internal/interfaces"
	"poolpower-site/internal/source/csvfile"
	"poolpower-site/internal/source/gsheets"
	"poolpower-site/internal/source/published"
	"poolpower-site/internal/source/sourceobs"
	"poolpower-site/internal/store"
)

// New creates the record source named by cfg.Source.Kind, wrapped for
// tracing and logging.
func New(ctx context.Context, cfg *store.Config) (interfaces.RecordSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source: nil config")
	}

	var src interfaces.RecordSource
	switch cfg.Source.Kind {
	case store.SourceGSheets, "":
		c, err := gsheets.New(ctx, gsheets.Params{
			CredentialsFile: cfg.Source.CredentialsFile,
			ResourceID:      cfg.Source.ResourceID,
		})
		if err != nil {
			return nil, err
		}
		src = c

	case store.SourcePublished:
		src = published.New(cfg.FetchTimeout())

	case store.SourceCSV:
		src = csvfile.New()

	default:
		return nil, fmt.Errorf("unknown source kind: %s (valid options: %s, %s, %s)",
			cfg.Source.Kind, store.SourceGSheets, store.SourcePublished, store.SourceCSV)
	}

	return sourceobs.Wrap(src), nil
}
