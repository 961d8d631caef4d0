// Package deals turns spreadsheet rows into the deal listing markup.
package deals

import (
	"strings"

	"github.com/samber/lo"

	"poolpower-site/internal/types"
)

// IsActive reports whether the record's "Is Active" cell, trimmed and
// lowercased, is "yes". A missing column is not active.
func IsActive(rec types.DealRecord) bool {
	v, ok := rec.Get(types.FieldIsActive)
	if !ok {
		return false
	}
	return strings.ToLower(strings.TrimSpace(v)) == "yes"
}

// FilterActive returns the active records in source order.
func FilterActive(records []types.DealRecord) []types.DealRecord {
	return lo.Filter(records, func(rec types.DealRecord, _ int) bool {
		return IsActive(rec)
	})
}
