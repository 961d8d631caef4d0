package types

import "errors"

var (
	// ErrCredentials covers a missing or unusable service-account key and
	// authentication rejected by the remote source.
	ErrCredentials = errors.New("credentials unavailable or rejected")
	// ErrResourceNotFound means the named spreadsheet does not exist or is
	// not shared with the configured account.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrTabNotFound means the spreadsheet exists but has no such tab.
	ErrTabNotFound = errors.New("tab not found")
	// ErrTemplateMissing means the page template could not be read.
	ErrTemplateMissing = errors.New("page template missing")
	// ErrNoActiveDeals is returned instead of producing an empty page.
	ErrNoActiveDeals = errors.New("no active deals")
)
