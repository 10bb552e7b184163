package auth

import "context"

// Caller is the authenticated principal of a request.
type Caller struct {
	OwnerID string
}

// Authenticated reports whether c identifies an owner.
func (c Caller) Authenticated() bool {
	return c.OwnerID != ""
}

type callerKey struct{}

// WithCaller returns a context carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext returns the caller stored by WithCaller.
// An anonymous request yields the zero Caller.
func CallerFromContext(ctx context.Context) Caller {
	c, _ := ctx.Value(callerKey{}).(Caller) //nolint:errcheck // zero value means anonymous
	return c
}
