package http

import (
	"context"
	"net/http"

	"github.com/w-h-a/wingman/server"
)

type middlewareKey struct{}

func WithMiddleware(ms ...func(h http.Handler) http.Handler) server.Option {
	return func(o *server.Options) {
		o.Context = context.WithValue(o.Context, middlewareKey{}, ms)
	}
}

func MiddlewareFrom(ctx context.Context) ([]func(h http.Handler) http.Handler, bool) {
	ms, ok := ctx.Value(middlewareKey{}).([]func(h http.Handler) http.Handler)
	return ms, ok
}

type allowedOriginsKey struct{}

// WithAllowedOrigins enables CORS for the given origins, such as the
// renderer of a desktop shell.
func WithAllowedOrigins(origins ...string) server.Option {
	return func(o *server.Options) {
		o.Context = context.WithValue(o.Context, allowedOriginsKey{}, origins)
	}
}

func AllowedOriginsFrom(ctx context.Context) ([]string, bool) {
	origins, ok := ctx.Value(allowedOriginsKey{}).([]string)
	return origins, ok
}
