package tui

import (
	"context"
	"time"
)

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context passed to store operations.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithClipboard replaces the system clipboard writer used by copy-id.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithToastTTL sets how long notifications stay on screen.
func WithToastTTL(ttl time.Duration) Option {
	return func(m *Model) {
		if ttl > 0 {
			m.toastTTL = ttl
		}
	}
}
