package cmd

import (
	"context"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// vars returns the kong variables of the parsed command line, or nil when
// ctx carries none.
func vars(ctx context.Context) kong.Vars {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	return ktx.Model.Vars()
}
