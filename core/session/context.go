package session

import "context"

type contextKey struct{}

func NewContext(ctx context.Context, snap *Snapshot) context.Context {
	return context.WithValue(ctx, contextKey{}, snap)
}

// FromContext returns the reconciled snapshot attached by the session
// middleware, or nil on anonymous requests.
func FromContext(ctx context.Context) *Snapshot {
	snap, _ := ctx.Value(contextKey{}).(*Snapshot)
	return snap
}
