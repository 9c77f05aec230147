package reqmeta

import "context"

type contextKey struct{}

// Meta carries per-request client details down to the audit log without
// threading extra parameters through every service call.
type Meta struct {
	IPAddress string
	UserAgent string
}

func WithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, contextKey{}, meta)
}

func FromContext(ctx context.Context) (Meta, bool) {
	meta, ok := ctx.Value(contextKey{}).(Meta)
	return meta, ok
}
