package sourceobs

import (
	"context"
	"errors"

	"poolpower-site/internal/interfaces"
	"poolpower-site/internal/logger"
	"poolpower-site/internal/trace"
	"poolpower-site/internal/types"
)

type observableSource struct {
	source interfaces.RecordSource
}

var _ interfaces.RecordSource = (*observableSource)(nil)

func Wrap(source interfaces.RecordSource) interfaces.RecordSource {
	return &observableSource{
		source: source,
	}
}

func (o *observableSource) Name() string {
	return o.source.Name()
}

func (o *observableSource) FetchRows(ctx context.Context, resource, tab string) ([]types.DealRecord, error) {
	ctx, span := trace.StartSpan(ctx, "source.FetchRows")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Fetching deal rows",
		"source", o.source.Name(),
		"resource", resource,
		"tab", tab,
	)

	rows, err := o.source.FetchRows(ctx, resource, tab)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, failureMessage(err), err,
			"source", o.source.Name(),
			"resource", resource,
			"tab", tab,
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Fetched deal rows",
		"source", o.source.Name(),
		"rows", len(rows),
	)

	return rows, nil
}

func (o *observableSource) ListTabs(ctx context.Context, resource string) ([]string, error) {
	ctx, span := trace.StartSpan(ctx, "source.ListTabs")
	defer span.End()

	tabs, err := o.source.ListTabs(ctx, resource)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, failureMessage(err), err,
			"source", o.source.Name(),
			"resource", resource,
		)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Listed tabs",
		"source", o.source.Name(),
		"tabs", tabs,
	)

	return tabs, nil
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrCredentials):
		return "Authentication with the data source failed"
	case errors.Is(err, types.ErrResourceNotFound):
		return "Spreadsheet not found or not shared"
	case errors.Is(err, types.ErrTabNotFound):
		return "Worksheet tab not found"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out reading the data source"
	default:
		return "Failed to read the data source"
	}
}
