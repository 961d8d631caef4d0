// Package grid converts a header-first table of cells into deal records.
package grid

import (
	"fmt"

	"poolpower-site/internal/types"
)

// ToRecords maps rows to records keyed by the first row. Short rows are
// padded with empty strings, extra cells are ignored, columns with an empty
// header are dropped and a repeated header is an error.
func ToRecords(rows [][]string) ([]types.DealRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("header row contains duplicate column %q", name)
		}
		seen[name] = true
	}

	records := make([]types.DealRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(types.DealRecord, len(seen))
		for i, name := range header {
			if name == "" {
				continue
			}
			v := ""
			if i < len(row) {
				v = row[i]
			}
			rec[name] = v
		}
		records = append(records, rec)
	}
	return records, nil
}
