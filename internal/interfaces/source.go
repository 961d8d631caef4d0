package interfaces

import (
	"context"

	"poolpower-site/internal/types"
)

// RecordSource reads the rows of a tabular resource. The first row of the
// tab is treated as the header.
type RecordSource interface {
	FetchRows(ctx context.Context, resource, tab string) ([]types.DealRecord, error)
	ListTabs(ctx context.Context, resource string) ([]string, error)
	Name() string
}
