// Package csvfile reads deal rows from CSV exports on disk. The resource is
// a directory and each tab is a <tab>.csv file inside it.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"poolpower-site/internal/interfaces"
	"poolpower-site/internal/source/grid"
	"poolpower-site/internal/types"
)

type Reader struct{}

var _ interfaces.RecordSource = (*Reader)(nil)

func New() *Reader { return &Reader{} }

func (r *Reader) Name() string { return "csv" }

// ListTabs returns the names of the .csv files in dir, sorted.
func (r *Reader) ListTabs(_ context.Context, dir string) ([]string, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var tabs []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		tabs = append(tabs, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(tabs)
	return tabs, nil
}

func (r *Reader) FetchRows(ctx context.Context, dir, tab string) ([]types.DealRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkDir(dir); err != nil {
		return nil, err
	}

	p := filepath.Join(dir, tab+".csv")
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrTabNotFound, p)
		}
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return grid.ToRecords(rows)
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", types.ErrResourceNotFound, dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", types.ErrResourceNotFound, dir)
	}
	return nil
}
