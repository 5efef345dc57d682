// Package log carries a *zap.Logger through context.Context and keeps
// secrets out of what gets logged.
package log

import (
	"context"
	"net/url"

	"go.uber.org/zap"
)

type ctxMarker struct{}

var (
	ctxMarkerKey = &ctxMarker{}
	nullLogger   = zap.NewNop()
)

// New builds the root logger. "production" gets JSON output at info level,
// anything else gets the human-readable development logger.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// FromContext retrieves a *zap.Logger embedded in a context.Context using ToContext.
func FromContext(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(ctxMarkerKey).(*zap.Logger)
	if !ok {
		return nullLogger
	}
	return logger.With() // copy
}

// ToContext embeds a *zap.Logger in a context.Context
func ToContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxMarkerKey, logger)
}

// secretParams are query parameters whose values never reach the logs.
var secretParams = []string{"api_key", "key", "token"}

// RedactURL returns u as a string with secret query parameters masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}

// URL is a zap field for a URL with its secrets redacted.
func URL(key string, u *url.URL) zap.Field {
	return zap.String(key, RedactURL(u))
}
