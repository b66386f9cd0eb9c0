package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound    = errors.New("not found")
	ErrBusy        = errors.New("another operation is in flight")
	ErrUnsupported = errors.New("operation not supported by data source")
	ErrExchange    = errors.New("data exchange failed")
)
